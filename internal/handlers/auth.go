package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/services"
)

// SessionCookieName is the cookie carrying the login token
const SessionCookieName = "session-token"

type sessionKey struct{}

// sessionFrom returns the session RequireLogin attached to ctx
func sessionFrom(ctx context.Context) (services.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(services.Session)
	return s, ok
}

// RequireLogin sends anonymous visitors back to the login page with a
// message naming the page they tried to open
func RequireLogin(auth services.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			if session, ok := auth.Lookup(cookie.Value); ok {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, session)))
				return
			}
		}

		logrus.WithField("path", r.URL.Path).Debug("Redirecting anonymous request to login")
		http.Redirect(w, r, "/?denied="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
	})
}

func setSessionCookie(w http.ResponseWriter, session services.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

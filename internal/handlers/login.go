package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/services"
)

// LoginHandler serves the login form on / and signs users in
type LoginHandler struct {
	template *template.Template
	auth     services.AuthService
	accounts []string
}

// LoginData is the login template's data
type LoginData struct {
	Page
	Username string
	Accounts []string
}

// NewLoginHandler creates a login handler. accounts are advertised on the page.
func NewLoginHandler(fsys fs.FS, auth services.AuthService, accounts []string) (*LoginHandler, error) {
	tmpl, err := parsePage(fsys, "login.html")
	if err != nil {
		return nil, err
	}
	return &LoginHandler{template: tmpl, auth: auth, accounts: accounts}, nil
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := LoginData{
		Page:     Page{Title: "Swag Labs"},
		Accounts: h.accounts,
	}

	switch r.Method {
	case http.MethodGet:
		if denied := r.URL.Query().Get("denied"); denied != "" {
			data.Error = fmt.Sprintf("Epic sadface: You can only access '%s' when you are logged in.", denied)
		}
		render(w, h.template, "login.html", http.StatusOK, data)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		username := r.PostForm.Get("user-name")
		session, err := h.auth.Login(username, r.PostForm.Get("password"))
		if err != nil {
			logrus.WithField("username", username).WithError(err).Info("Login rejected")
			data.Username = username
			data.Error = err.Error()
			render(w, h.template, "login.html", http.StatusUnauthorized, data)
			return
		}

		logrus.WithField("username", username).Info("User logged in")
		setSessionCookie(w, session)
		http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// LogoutHandler ends the session and returns to the login page
type LogoutHandler struct {
	auth services.AuthService
}

func NewLogoutHandler(auth services.AuthService) *LogoutHandler {
	return &LogoutHandler{auth: auth}
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.auth.Logout(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

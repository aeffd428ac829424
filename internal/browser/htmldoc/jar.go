package htmldoc

import (
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/themizzi/shopcheck/internal/session"
)

type cookieKey struct {
	domain string
	path   string
	name   string
}

// recordingJar is a cookiejar.Jar that also remembers every cookie it
// accepted with its attributes, because the standard jar cannot enumerate
// its contents and a snapshot needs domain, path and expiry.
type recordingJar struct {
	mu      sync.Mutex
	jar     *cookiejar.Jar
	cookies map[cookieKey]session.Cookie
	now     func() time.Time
}

func newRecordingJar() *recordingJar {
	// cookiejar.New only fails when options carry an invalid public suffix list.
	jar, _ := cookiejar.New(nil)
	return &recordingJar{
		jar:     jar,
		cookies: make(map[cookieKey]session.Cookie),
		now:     time.Now,
	}
}

func (j *recordingJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *recordingJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.jar.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, c := range cookies {
		key := cookieKey{
			domain: cookieDomain(u, c),
			path:   cookiePath(u, c),
			name:   c.Name,
		}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(j.cookies, key)
			continue
		}

		expires := float64(-1)
		switch {
		case c.MaxAge > 0:
			expires = float64(now.Add(time.Duration(c.MaxAge) * time.Second).Unix())
		case !c.Expires.IsZero():
			expires = float64(c.Expires.Unix())
		}

		j.cookies[key] = session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   key.domain,
			Path:     key.path,
			Expires:  expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
			SameSite: sameSiteName(c.SameSite),
		}
	}
}

// snapshot lists the unexpired cookies in a stable order.
func (j *recordingJar) snapshot() []session.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	out := make([]session.Cookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		if c.ExpiredAt(now) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Domain != out[b].Domain {
			return out[a].Domain < out[b].Domain
		}
		if out[a].Path != out[b].Path {
			return out[a].Path < out[b].Path
		}
		return out[a].Name < out[b].Name
	})
	return out
}

// load replays snapshot cookies into the jar.
func (j *recordingJar) load(cookies []session.Cookie) {
	for _, c := range cookies {
		host := strings.TrimPrefix(c.Domain, ".")
		if host == "" {
			continue
		}
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		path := c.Path
		if path == "" {
			path = "/"
		}

		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     path,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
			SameSite: sameSiteMode(c.SameSite),
		}
		if strings.HasPrefix(c.Domain, ".") {
			hc.Domain = host
		}
		if !c.Session() {
			hc.Expires = time.Unix(int64(c.Expires), 0)
		}
		j.SetCookies(&url.URL{Scheme: scheme, Host: host, Path: path}, []*http.Cookie{hc})
	}
}

func cookieDomain(u *url.URL, c *http.Cookie) string {
	host := u.Hostname()
	domain := strings.TrimPrefix(c.Domain, ".")
	if domain == "" || net.ParseIP(host) != nil {
		return host
	}
	return "." + domain
}

func cookiePath(u *url.URL, c *http.Cookie) string {
	if strings.HasPrefix(c.Path, "/") {
		return c.Path
	}
	// RFC 6265 default-path: the directory of the request path.
	dir := u.Path
	if i := strings.LastIndex(dir, "/"); i > 0 {
		return dir[:i]
	}
	return "/"
}

func sameSiteName(mode http.SameSite) string {
	switch mode {
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}

func sameSiteMode(name string) http.SameSite {
	switch strings.ToLower(name) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

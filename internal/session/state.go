package session

import (
	"strings"
	"time"
)

// StateVersion is the snapshot format written by this package.
const StateVersion = 1

// State is a snapshot of an authenticated browser context: its cookies and
// per-origin storage. The JSON shape is a superset of Playwright's
// storage-state file, so either tool can read what the other wrote.
type State struct {
	Version    int       `json:"version"`
	CapturedAt time.Time `json:"capturedAt"`
	Stale      bool      `json:"stale,omitempty"`
	Cookies    []Cookie  `json:"cookies"`
	Origins    []Origin  `json:"origins"`
}

// Cookie is one cookie record. Expires is seconds since the epoch, -1 for a
// session cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Origin holds the web storage of one origin (scheme://host[:port]).
type Origin struct {
	Origin         string  `json:"origin"`
	LocalStorage   []Entry `json:"localStorage"`
	SessionStorage []Entry `json:"sessionStorage,omitempty"`
}

// Entry is a storage key/value pair.
type Entry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Empty returns the explicit unauthenticated state: no cookies, no origins.
func Empty() *State {
	return &State{
		Version: StateVersion,
		Cookies: []Cookie{},
		Origins: []Origin{},
	}
}

// IsEmpty reports whether the state carries nothing a browser could replay.
func (s *State) IsEmpty() bool {
	if s == nil {
		return true
	}
	if len(s.Cookies) > 0 {
		return false
	}
	for _, o := range s.Origins {
		if len(o.LocalStorage) > 0 || len(o.SessionStorage) > 0 {
			return false
		}
	}
	return true
}

// Session reports whether the cookie lives only as long as the browser.
func (c Cookie) Session() bool {
	return c.Expires <= 0
}

// ExpiredAt reports whether a persistent cookie is past its expiry at now.
func (c Cookie) ExpiredAt(now time.Time) bool {
	if c.Session() {
		return false
	}
	return float64(now.Unix()) >= c.Expires
}

// Cookie returns the first cookie with the given name.
func (s *State) Cookie(name string) (Cookie, bool) {
	if s == nil {
		return Cookie{}, false
	}
	for _, c := range s.Cookies {
		if c.Name == name {
			return c, true
		}
	}
	return Cookie{}, false
}

// OriginStorage returns the storage recorded for origin.
func (s *State) OriginStorage(origin string) (Origin, bool) {
	if s == nil {
		return Origin{}, false
	}
	origin = strings.TrimSuffix(origin, "/")
	for _, o := range s.Origins {
		if strings.TrimSuffix(o.Origin, "/") == origin {
			return o, true
		}
	}
	return Origin{}, false
}

// CheckStaleness decides whether the snapshot should no longer be trusted:
// it was explicitly invalidated, it is older than maxAge (0 disables the age
// check), or it had persistent cookies and all of them have expired.
// The returned reason is empty when the snapshot is fresh.
func (s *State) CheckStaleness(now time.Time, maxAge time.Duration) (bool, string) {
	if s == nil {
		return false, ""
	}
	if s.Stale {
		return true, "snapshot was invalidated"
	}
	if maxAge > 0 && !s.CapturedAt.IsZero() && now.Sub(s.CapturedAt) > maxAge {
		return true, "snapshot is older than " + maxAge.String()
	}

	persistent, expired := 0, 0
	for _, c := range s.Cookies {
		if c.Session() {
			continue
		}
		persistent++
		if c.ExpiredAt(now) {
			expired++
		}
	}
	if persistent > 0 && persistent == expired {
		return true, "all persistent cookies have expired"
	}
	return false, ""
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Cookies = append([]Cookie(nil), s.Cookies...)
	out.Origins = make([]Origin, len(s.Origins))
	for i, o := range s.Origins {
		out.Origins[i] = Origin{
			Origin:         o.Origin,
			LocalStorage:   append([]Entry(nil), o.LocalStorage...),
			SessionStorage: append([]Entry(nil), o.SessionStorage...),
		}
	}
	return &out
}

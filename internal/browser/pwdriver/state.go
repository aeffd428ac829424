package pwdriver

import (
	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/session"
)

func toStorageState(s *session.State) *playwright.OptionalStorageState {
	out := &playwright.OptionalStorageState{
		Cookies: make([]playwright.OptionalCookie, 0, len(s.Cookies)),
		Origins: make([]playwright.Origin, 0, len(s.Origins)),
	}
	for _, c := range s.Cookies {
		cookie := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			Expires:  playwright.Float(c.Expires),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.SameSite != "" {
			sameSite := playwright.SameSiteAttribute(c.SameSite)
			cookie.SameSite = &sameSite
		}
		out.Cookies = append(out.Cookies, cookie)
	}
	for _, o := range s.Origins {
		if len(o.LocalStorage) == 0 {
			continue
		}
		origin := playwright.Origin{
			Origin:       o.Origin,
			LocalStorage: make([]playwright.NameValue, 0, len(o.LocalStorage)),
		}
		for _, e := range o.LocalStorage {
			origin.LocalStorage = append(origin.LocalStorage, playwright.NameValue{Name: e.Name, Value: e.Value})
		}
		out.Origins = append(out.Origins, origin)
	}
	return out
}

func fromStorageState(st *playwright.StorageState) *session.State {
	state := session.Empty()
	if st == nil {
		return state
	}
	for _, c := range st.Cookies {
		cookie := session.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		state.Cookies = append(state.Cookies, cookie)
	}
	for _, o := range st.Origins {
		origin := session.Origin{Origin: o.Origin, LocalStorage: []session.Entry{}}
		for _, e := range o.LocalStorage {
			origin.LocalStorage = append(origin.LocalStorage, session.Entry{Name: e.Name, Value: e.Value})
		}
		state.Origins = append(state.Origins, origin)
	}
	return state
}

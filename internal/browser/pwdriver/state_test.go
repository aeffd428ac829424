package pwdriver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/session"
)

func TestStorageStateConversion(t *testing.T) {
	state := session.Empty()
	state.Cookies = []session.Cookie{
		{Name: "session-username", Value: "standard_user", Domain: "127.0.0.1", Path: "/", Expires: -1, HTTPOnly: true, SameSite: "Lax"},
		{Name: "theme", Value: "dark", Domain: "127.0.0.1", Path: "/", Expires: 1893456000},
	}
	state.Origins = []session.Origin{
		{Origin: "http://127.0.0.1:8080", LocalStorage: []session.Entry{{Name: "cart", Value: "[4]"}}},
		{Origin: "http://empty.test", LocalStorage: []session.Entry{}},
	}

	opt := toStorageState(state)
	if len(opt.Origins) != 1 {
		t.Fatalf("expected origins without local storage to be dropped, got %d", len(opt.Origins))
	}
	if opt.Cookies[0].SameSite == nil || *opt.Cookies[0].SameSite != *playwright.SameSiteAttributeLax {
		t.Errorf("expected SameSite Lax, got %v", opt.Cookies[0].SameSite)
	}
	if opt.Cookies[1].SameSite != nil {
		t.Errorf("expected no SameSite, got %v", *opt.Cookies[1].SameSite)
	}

	// What Playwright would report back for the same context.
	reported := &playwright.StorageState{
		Origins: opt.Origins,
	}
	for _, c := range opt.Cookies {
		reported.Cookies = append(reported.Cookies, playwright.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   *c.Domain,
			Path:     *c.Path,
			Expires:  *c.Expires,
			HttpOnly: *c.HttpOnly,
			Secure:   *c.Secure,
			SameSite: c.SameSite,
		})
	}

	got := fromStorageState(reported)
	want := state.Clone()
	want.Origins = want.Origins[:1]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromStorageState_Nil(t *testing.T) {
	got := fromStorageState(nil)
	if !got.IsEmpty() {
		t.Errorf("expected empty state, got %+v", got)
	}
}

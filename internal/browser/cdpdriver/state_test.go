package cdpdriver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chromedp/cdproto/network"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/session"
)

func TestCookieConversion(t *testing.T) {
	cookies := []session.Cookie{
		{Name: "session-username", Value: "standard_user", Domain: "127.0.0.1", Path: "/", Expires: -1, HTTPOnly: true, SameSite: "Lax"},
		{Name: "theme", Value: "dark", Domain: "127.0.0.1", Path: "/", Expires: 1893456000.5},
	}

	params := toCookieParams(cookies)
	require.Len(t, params, 2)
	assert.Nil(t, params[0].Expires, "session cookies carry no expiry")
	assert.Equal(t, network.CookieSameSiteLax, params[0].SameSite)
	require.NotNil(t, params[1].Expires)
	assert.Equal(t, int64(1893456000), params[1].Expires.Time().Unix())

	// What Chrome reports back for the same cookies.
	reported := []*network.Cookie{
		{Name: "session-username", Value: "standard_user", Domain: "127.0.0.1", Path: "/", Expires: -1, HTTPOnly: true, Session: true, SameSite: network.CookieSameSiteLax},
		{Name: "theme", Value: "dark", Domain: "127.0.0.1", Path: "/", Expires: 1893456000.5},
	}
	if diff := cmp.Diff(cookies, fromCookies(reported)); diff != "" {
		t.Errorf("cookie round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreScript(t *testing.T) {
	assert.Empty(t, restoreScript(nil))
	assert.Empty(t, restoreScript([]session.Origin{{Origin: "http://shop.test", LocalStorage: []session.Entry{}}}))

	script := restoreScript([]session.Origin{{
		Origin:         "http://shop.test",
		LocalStorage:   []session.Entry{{Name: "cart", Value: `["4"]`}},
		SessionStorage: []session.Entry{{Name: "tab", Value: "1"}},
	}})
	assert.Contains(t, script, `"http://shop.test":{"origin":"http://shop.test"`)
	assert.Contains(t, script, `"sessionStorage":[{"name":"tab","value":"1"}]`)
	assert.True(t, strings.HasSuffix(script, ");"))
}

func TestMergeOrigin(t *testing.T) {
	origins := []session.Origin{
		{Origin: "http://a.test", LocalStorage: []session.Entry{{Name: "k", Value: "old"}}},
	}
	origins = mergeOrigin(origins, session.Origin{Origin: "http://a.test", LocalStorage: []session.Entry{{Name: "k", Value: "new"}}})
	origins = mergeOrigin(origins, session.Origin{Origin: "http://b.test"})

	require.Len(t, origins, 2)
	assert.Equal(t, "new", origins[0].LocalStorage[0].Value)
	assert.Equal(t, "http://b.test", origins[1].Origin)
}

func TestExpression(t *testing.T) {
	chain := browser.Chain{{Kind: browser.StepCSS, Selector: `input[id="cb1-edit"]`}, {Kind: browser.StepNth, Index: -1}}
	expr, err := expression(chain, "fill", `say "hi"`)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(expr, "("+resolveJS+")("))
	assert.Contains(t, expr, `[{"kind":"css","selector":"input[id=\"cb1-edit\"]"},{"kind":"nth","index":-1}]`)
	assert.True(t, strings.HasSuffix(expr, `, "fill","say \"hi\"")`))

	empty, err := expression(nil, "count", "")
	require.NoError(t, err)
	assert.Contains(t, empty, `)([], "count","")`)
}

func TestExpired(t *testing.T) {
	deadline := context.DeadlineExceeded

	tests := []struct {
		name     string
		last     result
		cause    error
		wantErrs []error
	}{
		{
			name:     "never resolved",
			last:     result{},
			cause:    deadline,
			wantErrs: []error{browser.ErrNotFound, browser.ErrTimeout},
		},
		{
			name:     "resolved but hidden",
			last:     result{Status: "hidden", Count: 1, Reason: "element is not visible"},
			cause:    deadline,
			wantErrs: []error{browser.ErrActionRejected, browser.ErrTimeout},
		},
		{
			name:     "found but never visible",
			last:     result{Status: statusOK, Count: 1},
			cause:    deadline,
			wantErrs: []error{browser.ErrTimeout},
		},
		{
			name:     "cancelled",
			last:     result{Status: statusMissing},
			cause:    context.Canceled,
			wantErrs: []error{context.Canceled},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := expired("click", "#login-button", tt.last, tt.cause)
			var actionErr *browser.ActionError
			require.True(t, errors.As(err, &actionErr))
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "\r", keyFor("Enter"))
	assert.Equal(t, "\t", keyFor("Tab"))
	assert.Equal(t, "a", keyFor("a"))
}

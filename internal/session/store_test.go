package session

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T, now time.Time) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "playwright/.auth/user.json")
	store.now = func() time.Time { return now }
	return store, fs
}

func sampleState(now time.Time) *State {
	return &State{
		Cookies: []Cookie{
			{
				Name:     "session-username",
				Value:    "standard_user",
				Domain:   "127.0.0.1",
				Path:     "/",
				Expires:  float64(now.Add(time.Hour).Unix()),
				HTTPOnly: true,
				SameSite: "Lax",
			},
		},
		Origins: []Origin{
			{
				Origin:       "http://127.0.0.1:8080",
				LocalStorage: []Entry{{Name: "shop-user", Value: "standard_user"}},
			},
		},
	}
}

func TestStore_SaveThenLoad(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store, _ := newTestStore(t, now)

	state := sampleState(now)
	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, StateVersion, loaded.Version)
	assert.True(t, loaded.CapturedAt.Equal(now))
	assert.False(t, loaded.Stale)
	assert.Equal(t, state.Cookies, loaded.Cookies)
	assert.Equal(t, state.Origins, loaded.Origins)

	cookie, ok := loaded.Cookie("session-username")
	require.True(t, ok)
	assert.Equal(t, "standard_user", cookie.Value)

	origin, ok := loaded.OriginStorage("http://127.0.0.1:8080/")
	require.True(t, ok)
	assert.Len(t, origin.LocalStorage, 1)
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	now := time.Now()
	store, fs := newTestStore(t, now)

	require.NoError(t, store.Save(sampleState(now)))

	exists, err := afero.Exists(fs, store.Path()+".tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_LoadMissing(t *testing.T) {
	store, _ := newTestStore(t, time.Now())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoState)

	state, err := store.LoadOrEmpty()
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())
	assert.Empty(t, state.Cookies)
	assert.Empty(t, state.Origins)
}

func TestStore_LoadPlaywrightFile(t *testing.T) {
	store, fs := newTestStore(t, time.Now())

	raw := `{
  "cookies": [
    {"name": "session-username", "value": "standard_user", "domain": "www.saucedemo.com",
     "path": "/", "expires": -1, "httpOnly": false, "secure": false, "sameSite": "Lax"}
  ],
  "origins": [
    {"origin": "https://www.saucedemo.com", "localStorage": [{"name": "cart-contents", "value": "[4]"}]}
  ]
}`
	require.NoError(t, afero.WriteFile(fs, store.Path(), []byte(raw), 0o600))

	state, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, state.Version)
	assert.Len(t, state.Cookies, 1)
	assert.True(t, state.Cookies[0].Session())
	assert.False(t, state.Stale)
}

func TestStore_LoadRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "not json",
			content: "cookies=1",
			wantErr: ErrMalformedState,
		},
		{
			name:    "missing cookies",
			content: `{"origins": []}`,
			wantErr: ErrMalformedState,
		},
		{
			name:    "newer version",
			content: `{"version": 99, "cookies": [], "origins": []}`,
			wantErr: ErrUnsupportedVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, fs := newTestStore(t, time.Now())
			require.NoError(t, afero.WriteFile(fs, store.Path(), []byte(tt.content), 0o600))

			_, err := store.Load()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_StalenessPolicy(t *testing.T) {
	captured := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		now       time.Time
		maxAge    time.Duration
		mutate    func(*State)
		wantStale bool
	}{
		{
			name:      "fresh",
			now:       captured.Add(time.Minute),
			wantStale: false,
		},
		{
			name:      "older than max age",
			now:       captured.Add(2 * time.Hour),
			maxAge:    time.Hour,
			mutate:    func(s *State) { s.Cookies[0].Expires = -1 },
			wantStale: true,
		},
		{
			name:      "persistent cookies expired",
			now:       captured.Add(2 * time.Hour),
			wantStale: true,
		},
		{
			name:      "session cookies never expire by clock",
			now:       captured.Add(48 * time.Hour),
			mutate:    func(s *State) { s.Cookies[0].Expires = -1 },
			wantStale: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t, captured)
			state := sampleState(captured)
			state.CapturedAt = captured
			if tt.mutate != nil {
				tt.mutate(state)
			}
			require.NoError(t, store.Save(state))

			store.now = func() time.Time { return tt.now }
			store.MaxAge = tt.maxAge

			loaded, err := store.Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantStale, loaded.Stale)
		})
	}
}

func TestStore_Invalidate(t *testing.T) {
	now := time.Now()
	store, _ := newTestStore(t, now)
	require.NoError(t, store.Save(sampleState(now)))

	require.NoError(t, store.Invalidate())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Stale)

	stale, reason := loaded.CheckStaleness(now, 0)
	assert.True(t, stale)
	assert.Equal(t, "snapshot was invalidated", reason)
}

func TestStore_Remove(t *testing.T) {
	now := time.Now()
	store, _ := newTestStore(t, now)
	require.NoError(t, store.Save(sampleState(now)))

	require.NoError(t, store.Remove())
	require.NoError(t, store.Remove())

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoState)
}

func TestPeek(t *testing.T) {
	header, err := Peek([]byte(`{"version":1,"capturedAt":"2026-03-01T12:00:00Z","stale":true,"cookies":[{},{}],"origins":[{}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, header.Version)
	assert.True(t, header.Stale)
	assert.Equal(t, 2, header.Cookies)
	assert.Equal(t, 1, header.Origins)
	assert.True(t, header.CapturedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestState_EmptyAndClone(t *testing.T) {
	var nilState *State
	assert.True(t, nilState.IsEmpty())
	assert.True(t, Empty().IsEmpty())

	withBlankOrigin := &State{Origins: []Origin{{Origin: "http://x"}}}
	assert.True(t, withBlankOrigin.IsEmpty())

	original := sampleState(time.Now())
	clone := original.Clone()
	clone.Cookies[0].Value = "changed"
	clone.Origins[0].LocalStorage[0].Value = "changed"

	assert.Equal(t, "standard_user", original.Cookies[0].Value)
	assert.Equal(t, "standard_user", original.Origins[0].LocalStorage[0].Value)
	assert.False(t, original.IsEmpty())
}

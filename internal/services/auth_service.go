package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Login errors, worded as the login form displays them
var (
	ErrUsernameRequired   = errors.New("Epic sadface: Username is required")
	ErrPasswordRequired   = errors.New("Epic sadface: Password is required")
	ErrInvalidCredentials = errors.New("Epic sadface: Username and password do not match any user in this service")
	ErrLockedOut          = errors.New("Epic sadface: Sorry, this user has been locked out.")
)

// DefaultSessionTTL is how long a login stays valid
const DefaultSessionTTL = 10 * time.Minute

// Account is a demo shop user
type Account struct {
	Username string
	Password string
	Locked   bool
}

// DefaultAccounts are the accounts the login page advertises
func DefaultAccounts() []Account {
	return []Account{
		{Username: "standard_user", Password: "secret_sauce"},
		{Username: "locked_out_user", Password: "secret_sauce", Locked: true},
		{Username: "problem_user", Password: "secret_sauce"},
	}
}

// Session is an authenticated login
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// AuthService checks credentials and tracks login sessions
type AuthService interface {
	Login(username, password string) (Session, error)
	Lookup(token string) (Session, bool)
	Logout(token string)
}

// AuthServiceImpl keeps sessions in memory
type AuthServiceImpl struct {
	mu       sync.Mutex
	accounts map[string]Account
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates an auth service for accounts. A zero ttl means DefaultSessionTTL.
func NewAuthService(accounts []Account, ttl time.Duration) *AuthServiceImpl {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	s := &AuthServiceImpl{
		accounts: make(map[string]Account, len(accounts)),
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, a := range accounts {
		s.accounts[a.Username] = a
	}
	return s
}

// Login validates the credentials in the order the form checks them
func (s *AuthServiceImpl) Login(username, password string) (Session, error) {
	switch {
	case username == "":
		return Session{}, ErrUsernameRequired
	case password == "":
		return Session{}, ErrPasswordRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok || account.Password != password {
		return Session{}, ErrInvalidCredentials
	}
	if account.Locked {
		return Session{}, ErrLockedOut
	}

	session := Session{
		Token:     uuid.NewString(),
		Username:  username,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.sessions[session.Token] = session
	return session, nil
}

// Lookup returns the live session for token. Expired sessions are dropped.
func (s *AuthServiceImpl) Lookup(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return session, true
}

func (s *AuthServiceImpl) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrNotFound is a resolution failure: the locator matched no element.
	ErrNotFound = errors.New("element not found")
	// ErrActionRejected is an action failure: the element exists but the
	// interaction is not possible (hidden, disabled, ambiguous, not editable).
	ErrActionRejected = errors.New("action rejected")
	// ErrTimeout marks failures caused by a deadline.
	ErrTimeout = errors.New("timed out")
	// ErrNavigation is returned when a page cannot be loaded.
	ErrNavigation = errors.New("navigation failed")
)

// ActionError reports which primitive failed and on what.
type ActionError struct {
	Action string
	Target string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Target, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Fail wraps err in an ActionError. Context deadline errors are joined with
// ErrTimeout so callers can test for either.
func Fail(action, target string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &ActionError{Action: action, Target: target, Err: err}
}

// NotFound builds the resolution failure for target.
func NotFound(action, target string, cause error) error {
	if cause == nil {
		return Fail(action, target, ErrNotFound)
	}
	return Fail(action, target, fmt.Errorf("%w: %w", ErrNotFound, cause))
}

// Rejected builds the action failure for target.
func Rejected(action, target, reason string) error {
	return Fail(action, target, fmt.Errorf("%w: %s", ErrActionRejected, reason))
}

// IsResolution reports whether err is a resolution failure.
func IsResolution(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAction reports whether err is an action failure.
func IsAction(err error) bool {
	return errors.Is(err, ErrActionRejected)
}

// CheckURL validates a navigation target before it is sent to an engine, so
// an unset base URL fails fast.
func CheckURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, Fail("goto", `""`, fmt.Errorf("%w: empty URL", ErrNavigation))
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Fail("goto", raw, fmt.Errorf("%w: %w", ErrNavigation, err))
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, Fail("goto", raw, fmt.Errorf("%w: URL must be absolute", ErrNavigation))
	}
	return u, nil
}

package scenario

import (
	"errors"
	"fmt"
)

var (
	// ErrAssertion marks a check whose observed value differs from the
	// expected one.
	ErrAssertion = errors.New("assertion failed")
	// ErrStaleState is returned when a reused session snapshot no longer
	// grants access and the login screen is shown instead.
	ErrStaleState = errors.New("stored session state no longer grants access")
)

// AssertionError reports what was checked and the values compared.
type AssertionError struct {
	What string
	Want any
	Got  any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: want %q, got %q", e.What, fmt.Sprint(e.Want), fmt.Sprint(e.Got))
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertion
}

// Expect returns an *AssertionError unless got equals want.
func Expect[T comparable](what string, want, got T) error {
	if want == got {
		return nil
	}
	return &AssertionError{What: what, Want: want, Got: got}
}

// StepError is the first failure of a scenario run.
type StepError struct {
	Scenario string
	Index    int
	Step     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("scenario %s: step %d (%s): %v", e.Scenario, e.Index+1, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

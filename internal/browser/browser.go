// Package browser defines the capability interfaces page objects are written
// against. A Document is one live page; a Locator is a lazily resolved
// reference to zero or more of its elements. Every operation that talks to the
// remote browser takes a context and blocks until the engine answers or the
// context's deadline (bounded by the engine's action timeout) passes.
package browser

import (
	"context"
	"time"

	"github.com/themizzi/shopcheck/internal/session"
)

// DefaultTimeout bounds a single remote call when the caller's context has
// no earlier deadline.
const DefaultTimeout = 5 * time.Second

// Locator is a named handle to elements of the current document. It is never
// cached: each call resolves the selector chain again.
type Locator interface {
	// Locator narrows the search to descendants matching selector.
	Locator(selector string) Locator
	// Nth picks the element at index; negative indexes count from the end.
	Nth(index int) Locator
	First() Locator

	// All returns one locator per element currently matched.
	All(ctx context.Context) ([]Locator, error)
	Count(ctx context.Context) (int, error)
	AllInnerTexts(ctx context.Context) ([]string, error)

	// The methods below need exactly one element and wait for it.
	InnerText(ctx context.Context) (string, error)
	Fill(ctx context.Context, value string) error
	Click(ctx context.Context) error
	Press(ctx context.Context, key string) error
	IsVisible(ctx context.Context) (bool, error)
	WaitVisible(ctx context.Context) error

	String() string
}

// RoleOptions narrows a role query by accessible name.
type RoleOptions struct {
	Name  string
	Exact bool
}

// Document is a live page.
type Document interface {
	Goto(ctx context.Context, url string) error
	URL() string
	Locator(selector string) Locator
	ByRole(role string, opts RoleOptions) Locator
	ByPlaceholder(text string) Locator
	// Press sends a key to whatever element has focus.
	Press(ctx context.Context, key string) error
	Close() error
}

// ContextOptions configures a new isolated browser context.
type ContextOptions struct {
	// State preloads cookies and storage. Nil and session.Empty() are
	// equivalent.
	State *session.State
	// Timeout bounds each remote call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Context is an isolated cookie/storage jar that can open documents.
type Context interface {
	NewDocument(ctx context.Context) (Document, error)
	StorageState(ctx context.Context) (*session.State, error)
	Close() error
}

// Engine launches contexts against one browser backend.
type Engine interface {
	Name() string
	NewContext(ctx context.Context, opts ContextOptions) (Context, error)
	Close() error
}

// Bound derives a context for one remote call: the caller's deadline wins if
// it is earlier than timeout.
func Bound(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// Budget is how long one remote call may take: the smaller of timeout and the
// time left before ctx's deadline. Engines whose APIs take a timeout value
// instead of a context use it.
func Budget(ctx context.Context, timeout time.Duration) time.Duration {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			if left < time.Millisecond {
				return time.Millisecond
			}
			return left
		}
	}
	return timeout
}

// Package htmldoc is a browser engine without a browser: documents are fetched
// over HTTP and parsed with goquery, links are followed and forms are
// submitted the way a browser would, but no script runs. It is meant for
// server-rendered targets and for hermetic tests of page objects.
package htmldoc

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/session"
)

// Engine creates isolated HTTP contexts.
type Engine struct {
	transport http.RoundTripper
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithTransport routes requests through rt, e.g. an httptest server's client transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(e *Engine) {
		e.transport = rt
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string {
	return "http"
}

// NewContext creates a context with its own cookie jar, preloaded from opts.State.
func (e *Engine) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jar := newRecordingJar()
	jar.now = e.now

	c := &Context{
		jar:     jar,
		timeout: opts.Timeout,
		now:     e.now,
		client: &http.Client{
			Jar:       jar,
			Transport: e.transport,
		},
	}
	if c.timeout <= 0 {
		c.timeout = browser.DefaultTimeout
	}
	if opts.State != nil {
		jar.load(opts.State.Cookies)
		c.origins = opts.State.Clone().Origins
	}
	return c, nil
}

func (e *Engine) Close() error {
	return nil
}

// Context is an isolated cookie jar. Web storage cannot be produced without
// script, so origins loaded from a snapshot are carried through unchanged.
type Context struct {
	mu      sync.Mutex
	jar     *recordingJar
	client  *http.Client
	timeout time.Duration
	origins []session.Origin
	docs    []*Document
	closed  bool
	now     func() time.Time
}

func (c *Context) NewDocument(ctx context.Context) (browser.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, browser.Rejected("new document", "context", "context is closed")
	}

	d := &Document{c: c}
	c.docs = append(c.docs, d)
	return d, nil
}

// StorageState captures the context's cookies and carried-through origins.
func (c *Context) StorageState(ctx context.Context) (*session.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	origins := make([]session.Origin, len(c.origins))
	copy(origins, c.origins)
	c.mu.Unlock()

	state := session.Empty()
	state.CapturedAt = c.now().UTC()
	state.Cookies = c.jar.snapshot()
	state.Origins = origins
	return state.Clone(), nil
}

func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, d := range c.docs {
		d.Close()
	}
	c.docs = nil
	c.client.CloseIdleConnections()
	return nil
}

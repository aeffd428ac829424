// Package cdpdriver runs page objects on Chrome over the DevTools protocol
// with chromedp. There is no locator model on the wire, so selector chains
// are resolved by a script evaluated in the page, and waiting is a poll
// bounded by the action timeout.
package cdpdriver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/session"
)

// Options configures Launch.
type Options struct {
	Headless bool
	// ExecPath overrides Chrome discovery.
	ExecPath string
	// NoSandbox is needed when Chrome runs as root, e.g. in containers.
	NoSandbox bool
	Log       logrus.FieldLogger
}

// Engine owns one Chrome process.
type Engine struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	now           func() time.Time
}

// Launch starts Chrome and waits for it to accept connections.
func Launch(opts Options) (*Engine, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", opts.Headless))
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}

	var ctxOpts []chromedp.ContextOption
	if opts.Log != nil {
		ctxOpts = append(ctxOpts,
			chromedp.WithLogf(opts.Log.Debugf),
			chromedp.WithErrorf(opts.Log.Warnf),
		)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	// The first Run allocates the browser, so it must not carry a deadline.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	return &Engine{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		now:           time.Now,
	}, nil
}

func (e *Engine) Name() string {
	return "chromedp"
}

// NewContext creates a fresh browser context, the DevTools equivalent of an
// incognito profile, and loads opts.State into it.
func (e *Engine) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = browser.DefaultTimeout
	}

	anchor, cancel := chromedp.NewContext(e.browserCtx, chromedp.WithNewBrowserContext())
	if err := chromedp.Run(anchor); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	c := &Context{
		anchor:  anchor,
		cancel:  cancel,
		timeout: timeout,
		now:     e.now,
	}

	if !opts.State.IsEmpty() {
		state := opts.State.Clone()
		c.origins = state.Origins
		if err := c.setCookies(ctx, state.Cookies); err != nil {
			cancel()
			return nil, err
		}
	}
	return c, nil
}

// Close stops Chrome.
func (e *Engine) Close() error {
	err := chromedp.Cancel(e.browserCtx)
	e.browserCancel()
	e.allocCancel()
	return err
}

// Context is one browser context. Its anchor tab stays on about:blank and
// owns the context's lifetime; documents are further tabs in it.
type Context struct {
	anchor  context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	origins []session.Origin
	docs    []*Document
	closed  bool
}

func (c *Context) NewDocument(ctx context.Context) (browser.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	closed := c.closed
	script := restoreScript(c.origins)
	c.mu.Unlock()
	if closed {
		return nil, browser.Rejected("new document", "context", "context is closed")
	}

	tab, cancel := chromedp.NewContext(c.anchor)
	var actions []chromedp.Action
	if script != "" {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(script).Do(ctx)
			return err
		}))
	}
	if err := chromedp.Run(tab, actions...); err != nil {
		cancel()
		return nil, browser.Fail("new document", "context", err)
	}

	d := &Document{tab: tab, cancel: cancel, timeout: c.timeout}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		cancel()
		return nil, browser.Rejected("new document", "context", "context is closed")
	}
	c.docs = append(c.docs, d)
	return d, nil
}

// StorageState reads every cookie of the browser context and the web storage
// of each open document's origin. Origins loaded from a snapshot that no
// document has visited are carried through.
func (c *Context) StorageState(ctx context.Context) (*session.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx, stop := bound(ctx, c.anchor, c.timeout)
	defer stop()

	var cookies []*network.Cookie
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		cc := chromedp.FromContext(ctx)
		var err error
		cookies, err = storage.GetCookies().
			WithBrowserContextID(cc.BrowserContextID).
			Do(cdp.WithExecutor(ctx, cc.Browser))
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	c.mu.Lock()
	origins := append([]session.Origin(nil), c.origins...)
	docs := append([]*Document(nil), c.docs...)
	c.mu.Unlock()

	for _, d := range docs {
		origin, ok, err := d.webStorage(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			origins = mergeOrigin(origins, origin)
		}
	}

	state := session.Empty()
	state.CapturedAt = c.now().UTC()
	state.Cookies = fromCookies(cookies)
	state.Origins = append(state.Origins, origins...)
	return state.Clone(), nil
}

func (c *Context) Close() error {
	c.mu.Lock()
	c.closed = true
	docs := c.docs
	c.docs = nil
	c.mu.Unlock()

	for _, d := range docs {
		d.Close()
	}
	c.cancel()
	return nil
}

func (c *Context) setCookies(ctx context.Context, cookies []session.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	runCtx, stop := bound(ctx, c.anchor, c.timeout)
	defer stop()

	params := toCookieParams(cookies)
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		cc := chromedp.FromContext(ctx)
		return storage.SetCookies(params).
			WithBrowserContextID(cc.BrowserContextID).
			Do(cdp.WithExecutor(ctx, cc.Browser))
	}))
	if err != nil {
		return fmt.Errorf("failed to restore cookies: %w", err)
	}
	return nil
}

// bound derives a context for one call on tab: it carries tab's chromedp
// state but ends with the caller's context or after the action timeout.
func bound(ctx, tab context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(tab, browser.Budget(ctx, timeout))
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

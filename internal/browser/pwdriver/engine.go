// Package pwdriver runs page objects on Playwright through playwright-go.
// Locators map one to one onto Playwright locators, so resolution, strict
// mode and actionability waits are Playwright's own.
package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/session"
)

// Options configures Launch.
type Options struct {
	Headless bool
	// Install downloads the Chromium build and driver first when they are missing.
	Install bool
}

// Engine owns a Playwright driver process and one Chromium instance.
type Engine struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	now     func() time.Time
}

// Launch starts the Playwright driver and a Chromium browser.
func Launch(opts Options) (*Engine, error) {
	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &Engine{pw: pw, browser: b, now: time.Now}, nil
}

func (e *Engine) Name() string {
	return "playwright"
}

// NewContext opens an incognito browser context preloaded with opts.State.
func (e *Engine) NewContext(ctx context.Context, opts browser.ContextOptions) (browser.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = browser.DefaultTimeout
	}

	options := playwright.BrowserNewContextOptions{}
	if !opts.State.IsEmpty() {
		options.StorageState = toStorageState(opts.State)
	}

	bc, err := e.browser.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	bc.SetDefaultTimeout(millis(timeout))

	return &Context{bc: bc, timeout: timeout, now: e.now}, nil
}

// Close shuts the browser and the driver down.
func (e *Engine) Close() error {
	return errors.Join(e.browser.Close(), e.pw.Stop())
}

// Context wraps a Playwright browser context.
type Context struct {
	bc      playwright.BrowserContext
	timeout time.Duration
	now     func() time.Time
}

func (c *Context) NewDocument(ctx context.Context) (browser.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := c.bc.NewPage()
	if err != nil {
		return nil, browser.Fail("new document", "context", err)
	}
	return &Document{page: page, timeout: c.timeout}, nil
}

// StorageState asks Playwright for the context's cookies and local storage.
// Playwright does not capture session storage.
func (c *Context) StorageState(ctx context.Context) (*session.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st, err := c.bc.StorageState()
	if err != nil {
		return nil, fmt.Errorf("failed to read storage state: %w", err)
	}
	state := fromStorageState(st)
	state.CapturedAt = c.now().UTC()
	return state, nil
}

func (c *Context) Close() error {
	return c.bc.Close()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

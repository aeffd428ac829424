package cdpdriver

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/session"
)

//go:embed resolve.js
var resolveJS string

const (
	pollInterval = 100 * time.Millisecond
	// navigationGrace is how long a click or key press is watched for a
	// navigation it started.
	navigationGrace = 150 * time.Millisecond
)

// Statuses reported by resolve.js.
const (
	statusOK        = "ok"
	statusMissing   = "missing"
	statusAmbiguous = "ambiguous"
	statusInvalid   = "invalid"
	statusRejected  = "rejected"
)

type result struct {
	Status  string   `json:"status"`
	Count   int      `json:"count"`
	Texts   []string `json:"texts"`
	Text    string   `json:"text"`
	Visible bool     `json:"visible"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Reason  string   `json:"reason"`
}

// Document is one tab.
type Document struct {
	tab     context.Context
	cancel  context.CancelFunc
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

func (d *Document) Goto(ctx context.Context, raw string) error {
	u, err := browser.CheckURL(raw)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return browser.Fail("goto", raw, err)
	}

	runCtx, stop := bound(ctx, d.tab, d.timeout)
	defer stop()
	if err := chromedp.Run(runCtx, chromedp.Navigate(u.String())); err != nil {
		return browser.Fail("goto", raw, fmt.Errorf("%w: %w", browser.ErrNavigation, err))
	}
	return nil
}

func (d *Document) URL() string {
	runCtx, cancel := context.WithTimeout(d.tab, d.timeout)
	defer cancel()
	var u string
	if err := chromedp.Run(runCtx, chromedp.Location(&u)); err != nil || u == "" {
		return "about:blank"
	}
	return u
}

func (d *Document) Locator(selector string) browser.Locator {
	return &Locator{d: d, chain: browser.Chain{{Kind: browser.StepCSS, Selector: selector}}}
}

func (d *Document) ByRole(role string, opts browser.RoleOptions) browser.Locator {
	return &Locator{d: d, chain: browser.Chain{{Kind: browser.StepRole, Role: role, Name: opts.Name, Exact: opts.Exact}}}
}

func (d *Document) ByPlaceholder(text string) browser.Locator {
	return &Locator{d: d, chain: browser.Chain{{Kind: browser.StepPlaceholder, Name: text}}}
}

func (d *Document) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("press", key, err)
	}
	runCtx, stop := bound(ctx, d.tab, d.timeout)
	defer stop()
	if err := d.settle(runCtx, chromedp.KeyEvent(keyFor(key))); err != nil {
		return browser.Fail("press", key, err)
	}
	return nil
}

func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		d.cancel()
	}
	return nil
}

func (d *Document) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// eval runs resolve.js once against the current document.
func (d *Document) eval(ctx context.Context, chain browser.Chain, op, arg string) (result, error) {
	expr, err := expression(chain, op, arg)
	if err != nil {
		return result{}, err
	}
	var res result
	err = chromedp.Run(ctx, chromedp.Evaluate(expr, &res))
	return res, err
}

func expression(chain browser.Chain, op, arg string) (string, error) {
	if chain == nil {
		chain = browser.Chain{}
	}
	chainJSON, err := json.Marshal(chain)
	if err != nil {
		return "", err
	}
	argsJSON, err := json.Marshal([]string{op, arg})
	if err != nil {
		return "", err
	}
	args := strings.TrimSuffix(strings.TrimPrefix(string(argsJSON), "["), "]")
	return fmt.Sprintf("(%s)(%s, %s)", resolveJS, chainJSON, args), nil
}

// poll evaluates op until done accepts the result or ctx ends. Strict mode
// violations and bad selectors fail at once, as does anything that is not a
// navigation race.
func (d *Document) poll(ctx context.Context, action string, chain browser.Chain, op, arg string, done func(result) bool) (result, error) {
	target := chain.String()
	var last result
	for {
		res, err := d.eval(ctx, chain, op, arg)
		switch {
		case err == nil:
			last = res
			switch res.Status {
			case statusInvalid, statusRejected:
				return res, browser.Rejected(action, target, res.Reason)
			case statusAmbiguous:
				return res, browser.Rejected(action, target,
					fmt.Sprintf("strict mode violation: locator resolved to %d elements", res.Count))
			}
			if done(res) {
				return res, nil
			}
		case ctx.Err() != nil:
		case !transient(err):
			return res, browser.Fail(action, target, err)
		}

		select {
		case <-ctx.Done():
			return last, expired(action, target, last, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

// expired builds the error for a poll that ran out of time, from the last
// state the element was seen in.
func expired(action, target string, last result, cause error) error {
	if !errors.Is(cause, context.DeadlineExceeded) {
		return browser.Fail(action, target, cause)
	}
	switch last.Status {
	case "", statusMissing:
		return browser.NotFound(action, target, cause)
	case statusOK:
		return browser.Fail(action, target, fmt.Errorf("%w: element is not visible: %w", browser.ErrTimeout, cause))
	default:
		return browser.Fail(action, target, fmt.Errorf("%w: %s: %w", browser.ErrActionRejected, last.Reason, cause))
	}
}

// transient reports errors caused by the page navigating under an evaluation.
func transient(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Execution context was destroyed") ||
		strings.Contains(msg, "Cannot find context with specified id") ||
		strings.Contains(msg, "Inspected target navigated or closed")
}

// settle runs action and, if it starts a navigation, waits for the new
// document to load.
func (d *Document) settle(ctx context.Context, action chromedp.Action) error {
	started := make(chan struct{}, 1)
	loaded := make(chan struct{}, 1)

	lctx, cancel := context.WithCancel(ctx)
	defer cancel()
	chromedp.ListenTarget(lctx, func(ev any) {
		var ch chan struct{}
		switch ev.(type) {
		case *page.EventFrameStartedLoading:
			ch = started
		case *page.EventLoadEventFired:
			ch = loaded
		default:
			return
		}
		select {
		case ch <- struct{}{}:
		default:
		}
	})

	if err := chromedp.Run(ctx, action); err != nil {
		return err
	}

	select {
	case <-started:
	case <-time.After(navigationGrace):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", browser.ErrNavigation, ctx.Err())
	}
}

// webStorage reads the storage of the document's current origin. ok is false
// for closed tabs and documents without an origin.
func (d *Document) webStorage(ctx context.Context) (session.Origin, bool, error) {
	if d.isClosed() {
		return session.Origin{}, false, nil
	}
	runCtx, stop := bound(ctx, d.tab, d.timeout)
	defer stop()

	var origin session.Origin
	if err := chromedp.Run(runCtx, chromedp.Evaluate(captureScript, &origin)); err != nil {
		return session.Origin{}, false, fmt.Errorf("failed to read web storage: %w", err)
	}
	if origin.Origin == "" || origin.Origin == "null" {
		return session.Origin{}, false, nil
	}
	return origin, true, nil
}

func keyFor(key string) string {
	switch key {
	case "Enter":
		return kb.Enter
	case "Tab":
		return kb.Tab
	case "Escape":
		return kb.Escape
	case "Backspace":
		return kb.Backspace
	}
	return key
}

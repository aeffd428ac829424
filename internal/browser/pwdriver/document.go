package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/browser"
)

// Document wraps a Playwright page.
type Document struct {
	page    playwright.Page
	timeout time.Duration
}

func (d *Document) Goto(ctx context.Context, raw string) error {
	u, err := browser.CheckURL(raw)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return browser.Fail("goto", raw, err)
	}

	_, err = d.page.Goto(u.String(), playwright.PageGotoOptions{
		Timeout:   playwright.Float(millis(browser.Budget(ctx, d.timeout))),
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			err = fmt.Errorf("%w: %w", browser.ErrTimeout, err)
		}
		return browser.Fail("goto", raw, fmt.Errorf("%w: %w", browser.ErrNavigation, err))
	}
	return nil
}

func (d *Document) URL() string {
	return d.page.URL()
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
	if err := d.page.Keyboard().Press(key); err != nil {
		return browser.Fail("press", key, err)
	}
	return nil
}

func (d *Document) Close() error {
	return d.page.Close()
}

// build turns a chain into a Playwright locator. Playwright locators are lazy
// too, so nothing is sent to the browser here.
func (d *Document) build(chain browser.Chain) playwright.Locator {
	var loc playwright.Locator
	for _, step := range chain {
		switch step.Kind {
		case browser.StepCSS:
			if loc == nil {
				loc = d.page.Locator(step.Selector)
			} else {
				loc = loc.Locator(step.Selector)
			}
		case browser.StepRole:
			role := playwright.AriaRole(step.Role)
			if loc == nil {
				opts := playwright.PageGetByRoleOptions{}
				if step.Name != "" {
					opts.Name = step.Name
					opts.Exact = playwright.Bool(step.Exact)
				}
				loc = d.page.GetByRole(role, opts)
			} else {
				opts := playwright.LocatorGetByRoleOptions{}
				if step.Name != "" {
					opts.Name = step.Name
					opts.Exact = playwright.Bool(step.Exact)
				}
				loc = loc.GetByRole(role, opts)
			}
		case browser.StepPlaceholder:
			if loc == nil {
				loc = d.page.GetByPlaceholder(step.Name, playwright.PageGetByPlaceholderOptions{Exact: playwright.Bool(step.Exact)})
			} else {
				loc = loc.GetByPlaceholder(step.Name, playwright.LocatorGetByPlaceholderOptions{Exact: playwright.Bool(step.Exact)})
			}
		case browser.StepNth:
			if loc != nil {
				loc = loc.Nth(step.Index)
			}
		}
	}
	if loc == nil {
		loc = d.page.Locator(":root")
	}
	return loc
}

// classify maps a Playwright failure onto the browser error taxonomy. A
// timeout with nothing matched is a resolution failure; a timeout on an
// element that never became actionable is an action failure.
func classify(action, target string, loc playwright.Locator, err error, waitOnly bool) error {
	msg := err.Error()
	switch {
	case errors.Is(err, playwright.ErrTimeout):
		if n, cerr := loc.Count(); cerr == nil && n == 0 {
			return browser.NotFound(action, target, fmt.Errorf("%w: %w", browser.ErrTimeout, err))
		}
		if waitOnly {
			return browser.Fail(action, target, fmt.Errorf("%w: %w", browser.ErrTimeout, err))
		}
		return browser.Fail(action, target, fmt.Errorf("%w: %w: %w", browser.ErrActionRejected, browser.ErrTimeout, err))
	case strings.Contains(msg, "strict mode violation"),
		strings.Contains(msg, "Element is not an <input>"),
		strings.Contains(msg, "not editable"),
		strings.Contains(msg, "Unexpected token"),
		strings.Contains(msg, "is not a valid selector"):
		return browser.Fail(action, target, fmt.Errorf("%w: %w", browser.ErrActionRejected, err))
	}
	return browser.Fail(action, target, err)
}

package pwdriver

import (
	"context"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/shopcheck/internal/browser"
)

// Locator is a selector chain bound to a Document.
type Locator struct {
	d     *Document
	chain browser.Chain
}

func (l *Locator) Locator(selector string) browser.Locator {
	return &Locator{d: l.d, chain: l.chain.With(browser.Step{Kind: browser.StepCSS, Selector: selector})}
}

func (l *Locator) Nth(index int) browser.Locator {
	return &Locator{d: l.d, chain: l.chain.With(browser.Step{Kind: browser.StepNth, Index: index})}
}

func (l *Locator) First() browser.Locator {
	return l.Nth(0)
}

func (l *Locator) String() string {
	return l.chain.String()
}

func (l *Locator) All(ctx context.Context) ([]browser.Locator, error) {
	n, err := l.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]browser.Locator, n)
	for i := range out {
		out[i] = l.Nth(i)
	}
	return out, nil
}

func (l *Locator) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, browser.Fail("count", l.String(), err)
	}
	loc := l.d.build(l.chain)
	n, err := loc.Count()
	if err != nil {
		return 0, classify("count", l.String(), loc, err, false)
	}
	return n, nil
}

func (l *Locator) AllInnerTexts(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, browser.Fail("all inner texts", l.String(), err)
	}
	loc := l.d.build(l.chain)
	texts, err := loc.AllInnerTexts()
	if err != nil {
		return nil, classify("all inner texts", l.String(), loc, err, false)
	}
	for i, text := range texts {
		texts[i] = browser.NormalizeSpace(text)
	}
	return texts, nil
}

func (l *Locator) InnerText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", browser.Fail("inner text", l.String(), err)
	}
	loc := l.d.build(l.chain)
	text, err := loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: l.budget(ctx)})
	if err != nil {
		return "", classify("inner text", l.String(), loc, err, false)
	}
	return browser.NormalizeSpace(text), nil
}

func (l *Locator) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("fill", l.String(), err)
	}
	loc := l.d.build(l.chain)
	if err := loc.Fill(value, playwright.LocatorFillOptions{Timeout: l.budget(ctx)}); err != nil {
		return classify("fill", l.String(), loc, err, false)
	}
	return nil
}

func (l *Locator) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("click", l.String(), err)
	}
	loc := l.d.build(l.chain)
	if err := loc.Click(playwright.LocatorClickOptions{Timeout: l.budget(ctx)}); err != nil {
		return classify("click", l.String(), loc, err, false)
	}
	return nil
}

func (l *Locator) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("press", l.String(), err)
	}
	loc := l.d.build(l.chain)
	if err := loc.Press(key, playwright.LocatorPressOptions{Timeout: l.budget(ctx)}); err != nil {
		return classify("press", l.String(), loc, err, false)
	}
	return nil
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, browser.Fail("is visible", l.String(), err)
	}
	loc := l.d.build(l.chain)
	visible, err := loc.IsVisible()
	if err != nil {
		return false, classify("is visible", l.String(), loc, err, false)
	}
	return visible, nil
}

func (l *Locator) WaitVisible(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("wait visible", l.String(), err)
	}
	loc := l.d.build(l.chain)
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: l.budget(ctx),
	})
	if err != nil {
		return classify("wait visible", l.String(), loc, err, true)
	}
	return nil
}

func (l *Locator) budget(ctx context.Context) *float64 {
	return playwright.Float(millis(browser.Budget(ctx, l.d.timeout)))
}

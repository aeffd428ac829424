package cdpdriver

import (
	"context"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

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
	res, err := l.once(ctx, "count", "count", "")
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

func (l *Locator) AllInnerTexts(ctx context.Context) ([]string, error) {
	res, err := l.once(ctx, "all inner texts", "texts", "")
	if err != nil {
		return nil, err
	}
	if res.Texts == nil {
		return []string{}, nil
	}
	return res.Texts, nil
}

func (l *Locator) InnerText(ctx context.Context) (string, error) {
	res, err := l.wait(ctx, "inner text", "text", "", found)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (l *Locator) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("fill", l.String(), err)
	}
	runCtx, stop := bound(ctx, l.d.tab, l.d.timeout)
	defer stop()

	if _, err := l.d.poll(runCtx, "fill", l.chain, "fill", value, found); err != nil {
		return err
	}
	if value == "" {
		return nil
	}
	// Typed text replaces the selection the script left behind.
	if err := chromedp.Run(runCtx, input.InsertText(value)); err != nil {
		return browser.Fail("fill", l.String(), err)
	}
	return nil
}

func (l *Locator) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("click", l.String(), err)
	}
	runCtx, stop := bound(ctx, l.d.tab, l.d.timeout)
	defer stop()

	res, err := l.d.poll(runCtx, "click", l.chain, "click", "", found)
	if err != nil {
		return err
	}
	if err := l.d.settle(runCtx, chromedp.MouseClickXY(res.X, res.Y)); err != nil {
		return browser.Fail("click", l.String(), err)
	}
	return nil
}

func (l *Locator) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return browser.Fail("press", l.String(), err)
	}
	runCtx, stop := bound(ctx, l.d.tab, l.d.timeout)
	defer stop()

	if _, err := l.d.poll(runCtx, "press", l.chain, "focus", "", found); err != nil {
		return err
	}
	if err := l.d.settle(runCtx, chromedp.KeyEvent(keyFor(key))); err != nil {
		return browser.Fail("press", l.String(), err)
	}
	return nil
}

func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	res, err := l.once(ctx, "is visible", "visible", "")
	if err != nil {
		return false, err
	}
	return res.Status == statusOK && res.Visible, nil
}

func (l *Locator) WaitVisible(ctx context.Context) error {
	_, err := l.wait(ctx, "wait visible", "visible", "", func(r result) bool {
		return r.Status == statusOK && r.Visible
	})
	return err
}

// once reads the document without waiting for the locator to resolve.
func (l *Locator) once(ctx context.Context, action, op, arg string) (result, error) {
	return l.wait(ctx, action, op, arg, func(result) bool { return true })
}

func (l *Locator) wait(ctx context.Context, action, op, arg string, done func(result) bool) (result, error) {
	if err := ctx.Err(); err != nil {
		return result{}, browser.Fail(action, l.String(), err)
	}
	runCtx, stop := bound(ctx, l.d.tab, l.d.timeout)
	defer stop()
	return l.d.poll(runCtx, action, l.chain, op, arg, done)
}

func found(r result) bool {
	return r.Status == statusOK
}

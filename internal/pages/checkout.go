package pages

import (
	"context"
	"strings"

	"github.com/themizzi/shopcheck/internal/browser"
)

// CheckoutInfoPage is the first checkout step
type CheckoutInfoPage struct {
	doc            browser.Document
	firstName      browser.Locator
	lastName       browser.Locator
	postalCode     browser.Locator
	continueButton browser.Locator
	errorMessage   browser.Locator
}

func NewCheckoutInfoPage(doc browser.Document) *CheckoutInfoPage {
	return &CheckoutInfoPage{
		doc:            doc,
		firstName:      doc.ByRole("textbox", browser.RoleOptions{Name: "First Name"}),
		lastName:       doc.ByRole("textbox", browser.RoleOptions{Name: "Last Name"}),
		postalCode:     doc.ByRole("textbox", browser.RoleOptions{Name: "Postal Code"}),
		continueButton: doc.ByRole("button", browser.RoleOptions{Name: "Continue"}),
		errorMessage:   doc.Locator(`[data-test="error"]`),
	}
}

// Submit fills the form and continues to the overview
func (p *CheckoutInfoPage) Submit(ctx context.Context, firstName, lastName, postalCode string) error {
	if err := p.firstName.Fill(ctx, firstName); err != nil {
		return err
	}
	if err := p.lastName.Fill(ctx, lastName); err != nil {
		return err
	}
	if err := p.postalCode.Fill(ctx, postalCode); err != nil {
		return err
	}
	return p.continueButton.Click(ctx)
}

func (p *CheckoutInfoPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.errorMessage.InnerText(ctx)
}

// CheckoutOverviewPage is the second checkout step
type CheckoutOverviewPage struct {
	doc          browser.Document
	summary      browser.Locator
	itemTotal    browser.Locator
	tax          browser.Locator
	total        browser.Locator
	finishButton browser.Locator
}

func NewCheckoutOverviewPage(doc browser.Document) *CheckoutOverviewPage {
	return &CheckoutOverviewPage{
		doc:          doc,
		summary:      doc.Locator(".summary_info"),
		itemTotal:    doc.Locator(".summary_subtotal_label"),
		tax:          doc.Locator(".summary_tax_label"),
		total:        doc.Locator(".summary_total_label"),
		finishButton: doc.Locator(".cart_button"),
	}
}

func (p *CheckoutOverviewPage) WaitLoaded(ctx context.Context) error {
	return p.summary.WaitVisible(ctx)
}

// ItemTotal is the subtotal label without its "Item total: " prefix
func (p *CheckoutOverviewPage) ItemTotal(ctx context.Context) (string, error) {
	return labelValue(ctx, p.itemTotal, "Item total: ")
}

func (p *CheckoutOverviewPage) Tax(ctx context.Context) (string, error) {
	return labelValue(ctx, p.tax, "Tax: ")
}

func (p *CheckoutOverviewPage) Total(ctx context.Context) (string, error) {
	return labelValue(ctx, p.total, "Total: ")
}

func (p *CheckoutOverviewPage) Finish(ctx context.Context) error {
	return p.finishButton.Click(ctx)
}

func labelValue(ctx context.Context, label browser.Locator, prefix string) (string, error) {
	text, err := label.InnerText(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(text, prefix), nil
}

// CheckoutCompletePage confirms the order
type CheckoutCompletePage struct {
	doc       browser.Document
	header    browser.Locator
	reference browser.Locator
	backHome  browser.Locator
}

func NewCheckoutCompletePage(doc browser.Document) *CheckoutCompletePage {
	return &CheckoutCompletePage{
		doc:       doc,
		header:    doc.Locator(".complete-header"),
		reference: doc.Locator("#order-reference"),
		backHome:  doc.Locator("#back-to-products"),
	}
}

func (p *CheckoutCompletePage) WaitLoaded(ctx context.Context) error {
	return p.header.WaitVisible(ctx)
}

func (p *CheckoutCompletePage) Header(ctx context.Context) (string, error) {
	return p.header.InnerText(ctx)
}

// OrderReference is empty when the site does not show one
func (p *CheckoutCompletePage) OrderReference(ctx context.Context) (string, error) {
	if n, err := p.reference.Count(ctx); err != nil || n == 0 {
		return "", err
	}
	return p.reference.InnerText(ctx)
}

func (p *CheckoutCompletePage) BackHome(ctx context.Context) error {
	return p.backHome.Click(ctx)
}

package pages

import (
	"context"

	"github.com/themizzi/shopcheck/internal/browser"
)

// LoginPage is the shop's sign-in screen
type LoginPage struct {
	doc           browser.Document
	usernameInput browser.Locator
	passwordInput browser.Locator
	loginButton   browser.Locator
	errorMessage  browser.Locator
	// outcome is whichever of the product list or the error banner a submit produced
	outcome browser.Locator
}

func NewLoginPage(doc browser.Document) *LoginPage {
	return &LoginPage{
		doc:           doc,
		usernameInput: doc.Locator("#user-name"),
		passwordInput: doc.Locator("#password"),
		loginButton:   doc.Locator("#login-button"),
		errorMessage:  doc.Locator(`[data-test="error"]`),
		outcome:       doc.Locator(`#inventory_container, [data-test="error"]`),
	}
}

// Goto opens the login screen at baseURL
func (p *LoginPage) Goto(ctx context.Context, baseURL string) error {
	return p.doc.Goto(ctx, baseURL)
}

func (p *LoginPage) EnterUsername(ctx context.Context, username string) error {
	return p.usernameInput.Fill(ctx, username)
}

func (p *LoginPage) EnterPassword(ctx context.Context, password string) error {
	return p.passwordInput.Fill(ctx, password)
}

func (p *LoginPage) ClickLoginButton(ctx context.Context) error {
	return p.loginButton.Click(ctx)
}

// Login fills both fields and submits. It does not check where the browser
// lands: a rejected login leaves the error banner on this page.
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	if err := p.EnterUsername(ctx, username); err != nil {
		return err
	}
	if err := p.EnterPassword(ctx, password); err != nil {
		return err
	}
	return p.ClickLoginButton(ctx)
}

// ErrorMessage is the banner text of the last rejected attempt
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	return p.errorMessage.InnerText(ctx)
}

// IsShown reports whether the login form is on screen
func (p *LoginPage) IsShown(ctx context.Context) (bool, error) {
	return p.loginButton.IsVisible(ctx)
}

// AwaitOutcome waits once for a submitted login to land. It returns the
// error banner text, or "" when the product list appeared instead.
func (p *LoginPage) AwaitOutcome(ctx context.Context) (string, error) {
	if err := p.outcome.First().WaitVisible(ctx); err != nil {
		return "", err
	}
	n, err := p.errorMessage.Count(ctx)
	if err != nil || n == 0 {
		return "", err
	}
	return p.errorMessage.InnerText(ctx)
}

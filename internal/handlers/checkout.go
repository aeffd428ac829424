package handlers

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/services"
)

// CheckoutInfoHandler collects the customer information
type CheckoutInfoHandler struct {
	template *template.Template
	checkout services.CheckoutService
	carts    services.CartService
}

// CheckoutInfoData is the information step's template data
type CheckoutInfoData struct {
	Page
	Customer models.Customer
}

// NewCheckoutInfoHandler creates a new checkout information handler
func NewCheckoutInfoHandler(fsys fs.FS, checkout services.CheckoutService, carts services.CartService) (*CheckoutInfoHandler, error) {
	tmpl, err := parsePage(fsys, "checkout-step-one.html")
	if err != nil {
		return nil, err
	}
	return &CheckoutInfoHandler{template: tmpl, checkout: checkout, carts: carts}, nil
}

// ServeHTTP handles GET and POST /checkout-step-one.html
func (h *CheckoutInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	data := CheckoutInfoData{
		Page: Page{Title: "Swag Labs", Heading: "Checkout: Your Information", CartCount: len(h.carts.Items(session.Token))},
	}

	switch r.Method {
	case http.MethodGet:
		data.Customer, _ = h.checkout.Customer(session.Token)
		render(w, h.template, "checkout-step-one.html", http.StatusOK, data)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		data.Customer = models.Customer{
			FirstName:  strings.TrimSpace(r.PostForm.Get("firstName")),
			LastName:   strings.TrimSpace(r.PostForm.Get("lastName")),
			PostalCode: strings.TrimSpace(r.PostForm.Get("postalCode")),
		}
		if err := h.checkout.SetCustomer(session.Token, data.Customer); err != nil {
			data.Error = err.Error()
			render(w, h.template, "checkout-step-one.html", http.StatusBadRequest, data)
			return
		}
		http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CheckoutOverviewHandler shows the priced cart before the order is placed
type CheckoutOverviewHandler struct {
	template *template.Template
	checkout services.CheckoutService
}

// CheckoutOverviewData is the overview step's template data
type CheckoutOverviewData struct {
	Page
	Customer models.Customer
	Summary  services.Summary
}

// NewCheckoutOverviewHandler creates a new checkout overview handler
func NewCheckoutOverviewHandler(fsys fs.FS, checkout services.CheckoutService) (*CheckoutOverviewHandler, error) {
	tmpl, err := parsePage(fsys, "checkout-step-two.html")
	if err != nil {
		return nil, err
	}
	return &CheckoutOverviewHandler{template: tmpl, checkout: checkout}, nil
}

// ServeHTTP handles GET /checkout-step-two.html
func (h *CheckoutOverviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := sessionFrom(r.Context())

	customer, ok := h.checkout.Customer(session.Token)
	if !ok {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}

	summary := h.checkout.Summary(session.Token)
	data := CheckoutOverviewData{
		Page:     Page{Title: "Swag Labs", Heading: "Checkout: Overview", CartCount: len(summary.Items)},
		Customer: customer,
		Summary:  summary,
	}
	render(w, h.template, "checkout-step-two.html", http.StatusOK, data)
}

// CheckoutFinishHandler places the order
type CheckoutFinishHandler struct {
	checkout services.CheckoutService
}

func NewCheckoutFinishHandler(checkout services.CheckoutService) *CheckoutFinishHandler {
	return &CheckoutFinishHandler{checkout: checkout}
}

// ServeHTTP handles POST /checkout/finish
func (h *CheckoutFinishHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := sessionFrom(r.Context())

	order, err := h.checkout.Finish(session.Token, session.Username)
	switch {
	case errors.Is(err, services.ErrNoCustomer):
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	case errors.Is(err, models.ErrEmptyOrder):
		http.Redirect(w, r, "/cart.html", http.StatusSeeOther)
		return
	case err != nil:
		logrus.WithError(err).Error("Error finishing checkout")
		http.Error(w, "Failed to place order", http.StatusInternalServerError)
		return
	}

	logrus.WithFields(logrus.Fields{
		"username":  session.Username,
		"reference": order.Reference,
		"total":     order.GetFormattedTotal(),
	}).Info("Order placed")
	http.Redirect(w, r, "/checkout-complete.html?order="+url.QueryEscape(order.Reference), http.StatusSeeOther)
}

package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/services"
)

// CompleteHandler handles the order confirmation page
type CompleteHandler struct {
	template *template.Template
	orders   services.OrderService
}

// CompleteData represents the data for the confirmation template
type CompleteData struct {
	Page
	Order *models.Order
}

// NewCompleteHandler creates a new confirmation handler
func NewCompleteHandler(fsys fs.FS, orders services.OrderService) (*CompleteHandler, error) {
	tmpl, err := parsePage(fsys, "checkout-complete.html")
	if err != nil {
		return nil, err
	}
	return &CompleteHandler{template: tmpl, orders: orders}, nil
}

// ServeHTTP handles GET /checkout-complete.html. The order query parameter
// must name an order of the signed-in user.
func (h *CompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := sessionFrom(r.Context())

	data := CompleteData{Page: Page{Title: "Swag Labs", Heading: "Checkout: Complete!"}}

	if reference := r.URL.Query().Get("order"); reference != "" {
		log := logrus.WithField("reference", reference)
		order, err := h.orders.GetOrderByReference(reference)
		if err != nil {
			log.WithError(err).Info("Confirmation requested for unknown order")
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		if order.Username != session.Username {
			log.WithField("username", session.Username).Warn("Confirmation requested for another user's order")
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		data.Order = order
	}

	render(w, h.template, "checkout-complete.html", http.StatusOK, data)
}

package handlers

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/services"
)

// CartHandler shows the session's cart
type CartHandler struct {
	template *template.Template
	carts    services.CartService
}

// CartData is the cart template's data
type CartData struct {
	Page
	Items []InventoryItem
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(fsys fs.FS, carts services.CartService) (*CartHandler, error) {
	tmpl, err := parsePage(fsys, "cart.html")
	if err != nil {
		return nil, err
	}
	return &CartHandler{template: tmpl, carts: carts}, nil
}

// ServeHTTP handles GET /cart.html
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := sessionFrom(r.Context())

	products := h.carts.Items(session.Token)
	items := make([]InventoryItem, 0, len(products))
	for _, p := range products {
		items = append(items, InventoryItem{Product: p, Slug: slug(p.Name), InCart: true})
	}

	data := CartData{
		Page:  Page{Title: "Swag Labs", Heading: "Your Cart", CartCount: len(items)},
		Items: items,
	}
	render(w, h.template, "cart.html", http.StatusOK, data)
}

// CartUpdateHandler adds or removes a product, then returns to the page the
// form came from
type CartUpdateHandler struct {
	carts  services.CartService
	remove bool
}

func NewCartAddHandler(carts services.CartService) *CartUpdateHandler {
	return &CartUpdateHandler{carts: carts}
}

func NewCartRemoveHandler(carts services.CartService) *CartUpdateHandler {
	return &CartUpdateHandler{carts: carts, remove: true}
}

// ServeHTTP handles POST /cart/add and POST /cart/remove
func (h *CartUpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	session, _ := sessionFrom(r.Context())
	id := r.PostForm.Get("id")

	update := h.carts.Add
	if h.remove {
		update = h.carts.Remove
	}
	if err := update(session.Token, id); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		logrus.WithError(err).Error("Error updating cart")
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	logrus.WithFields(logrus.Fields{
		"username": session.Username,
		"product":  id,
		"removed":  h.remove,
	}).Debug("Cart updated")
	http.Redirect(w, r, localPath(r.PostForm.Get("return"), "/inventory.html"), http.StatusSeeOther)
}

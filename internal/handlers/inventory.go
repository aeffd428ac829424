package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/themizzi/shopcheck/internal/models"
	"github.com/themizzi/shopcheck/internal/services"
)

// InventoryHandler lists the catalog
type InventoryHandler struct {
	template *template.Template
	catalog  services.Catalog
	carts    services.CartService
}

// InventoryItem is a product as the inventory shows it
type InventoryItem struct {
	models.Product
	Slug   string
	InCart bool
}

// InventoryData is the inventory template's data
type InventoryData struct {
	Page
	Username string
	Items    []InventoryItem
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(fsys fs.FS, catalog services.Catalog, carts services.CartService) (*InventoryHandler, error) {
	tmpl, err := parsePage(fsys, "inventory.html")
	if err != nil {
		return nil, err
	}
	return &InventoryHandler{template: tmpl, catalog: catalog, carts: carts}, nil
}

// ServeHTTP handles GET /inventory.html
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session, _ := sessionFrom(r.Context())

	products := h.catalog.List()
	items := make([]InventoryItem, 0, len(products))
	for _, p := range products {
		items = append(items, InventoryItem{
			Product: p,
			Slug:    slug(p.Name),
			InCart:  h.carts.Contains(session.Token, p.ID),
		})
	}

	data := InventoryData{
		Page: Page{
			Title:     "Swag Labs",
			Heading:   "Products",
			CartCount: len(h.carts.Items(session.Token)),
		},
		Username: session.Username,
		Items:    items,
	}
	render(w, h.template, "inventory.html", http.StatusOK, data)
}

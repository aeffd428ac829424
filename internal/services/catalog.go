package services

import (
	"fmt"
	"strings"

	"github.com/themizzi/shopcheck/internal/models"
)

// Catalog lists the products the inventory page shows
type Catalog interface {
	List() []models.Product
	Get(id string) (models.Product, error)
	Search(query string) []string
}

// CatalogImpl is a fixed, read-only catalog
type CatalogImpl struct {
	products []models.Product
	listings []string
}

// NewCatalog creates a catalog. listings are the titles the search page
// matches against, in display order.
func NewCatalog(products []models.Product, listings []string) Catalog {
	return &CatalogImpl{
		products: append([]models.Product(nil), products...),
		listings: append([]string(nil), listings...),
	}
}

func (c *CatalogImpl) List() []models.Product {
	return append([]models.Product(nil), c.products...)
}

func (c *CatalogImpl) Get(id string) (models.Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
}

// Search returns the listings containing every word of query, ignoring case.
// An empty query matches nothing.
func (c *CatalogImpl) Search(query string) []string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var out []string
	for _, title := range c.listings {
		lower := strings.ToLower(title)
		match := true
		for _, w := range words {
			if !strings.Contains(lower, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, title)
		}
	}
	return out
}

// DefaultProducts is the demo shop inventory
func DefaultProducts() []models.Product {
	return []models.Product{
		{
			ID:          "4",
			Name:        "Sauce Labs Backpack",
			Description: "carry.allTheThings() with the sleek, streamlined Sly Pack that melds uncompromising style with unequaled laptop and tablet protection.",
			PriceCents:  2999,
			ImageURL:    "/static/img/item.svg",
		},
		{
			ID:          "0",
			Name:        "Sauce Labs Bike Light",
			Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night. Water-resistant with 3 lighting modes, 1 AAA battery included.",
			PriceCents:  999,
			ImageURL:    "/static/img/item.svg",
		},
		{
			ID:          "1",
			Name:        "Sauce Labs Bolt T-Shirt",
			Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt. From American Apparel, 100% ringspun combed cotton, heather gray with red bolt.",
			PriceCents:  1599,
			ImageURL:    "/static/img/item.svg",
		},
		{
			ID:          "5",
			Name:        "Sauce Labs Fleece Jacket",
			Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything from a relaxing day outdoors to a busy day at the office.",
			PriceCents:  4999,
			ImageURL:    "/static/img/item.svg",
		},
		{
			ID:          "2",
			Name:        "Sauce Labs Onesie",
			Description: "Rib snap infant onesie for the junior automation engineer in development. Reinforced 3-snap bottom closure, two-needle hemmed sleeved and bottom won't unravel.",
			PriceCents:  799,
			ImageURL:    "/static/img/item.svg",
		},
		{
			ID:          "3",
			Name:        "Test.allTheThings() T-Shirt (Red)",
			Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests. Super-soft and comfy ringspun combed cotton.",
			PriceCents:  1599,
			ImageURL:    "/static/img/item.svg",
		},
	}
}

// DefaultListings are the search page's results
func DefaultListings() []string {
	return []string{
		"Apple iPhone 15 (128 GB) - Negro",
		"Apple iPhone 15 Pro Max (256 GB) - Titanio Natural",
		"Apple iPhone 13 (128 GB) - Azul medianoche",
		"Apple iPhone 14 (128 GB) - Morado",
		"Samsung Galaxy S24 Ultra 5G (512 GB) - Gris",
		"Samsung Galaxy A54 5G (256 GB) - Negro",
		"Xiaomi Redmi Note 13 (256 GB) - Azul",
		"Motorola Moto G84 5G (256 GB) - Marshmallow Blue",
		"Cargador Apple USB-C 20W para iPhone",
		"Funda de silicona para iPhone 15 con MagSafe",
	}
}

// DefaultCountries are the rows of the practice web table
func DefaultCountries() []models.Country {
	return []models.Country{
		{Name: "Afghanistan", Capital: "Kabul", Currency: "Afghani", Language: "Dari Persian; Pashto"},
		{Name: "Argentina", Capital: "Buenos Aires", Currency: "Peso", Language: "Spanish"},
		{Name: "Angola", Capital: "Luanda", Currency: "Kwanza", Language: "Portuguese"},
		{Name: "Australia", Capital: "Canberra", Currency: "Australian Dollar", Language: "English"},
		{Name: "Brazil", Capital: "Brasilia", Currency: "Real", Language: "Portuguese"},
		{Name: "Canada", Capital: "Ottawa", Currency: "Canadian Dollar", Language: "English"},
		{Name: "Chile", Capital: "Santiago", Currency: "Chilean Peso", Language: "Spanish"},
		{Name: "China", Capital: "Beijing", Currency: "Renminbi", Language: "Chinese Mandarin"},
		{Name: "Colombia", Capital: "Bogota", Currency: "Colombian Peso", Language: "Spanish"},
		{Name: "France", Capital: "Paris", Currency: "Euro", Language: "French"},
		{Name: "Germany", Capital: "Berlin", Currency: "Euro", Language: "German"},
		{Name: "India", Capital: "New Delhi", Currency: "Indian Rupee", Language: "Hindi"},
		{Name: "Japan", Capital: "Tokyo", Currency: "Yen", Language: "Japanese"},
		{Name: "Mexico", Capital: "Mexico City", Currency: "Mexican Peso", Language: "Spanish"},
		{Name: "Mozambique", Capital: "Maputo", Currency: "Metical", Language: "Portuguese"},
		{Name: "Portugal", Capital: "Lisbon", Currency: "Euro", Language: "Portuguese"},
		{Name: "Spain", Capital: "Madrid", Currency: "Euro", Language: "Spanish"},
		{Name: "United Kingdom", Capital: "London", Currency: "Pound Sterling", Language: "English"},
		{Name: "United States", Capital: "Washington, D.C.", Currency: "US Dollar", Language: "English"},
	}
}

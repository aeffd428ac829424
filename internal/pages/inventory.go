package pages

import (
	"context"
	"strconv"
	"strings"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/extract"
)

// Product is an item as a listing displays it
type Product struct {
	Name        string
	Description string
	Price       string
}

// Field names of productSchema
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
)

func productSchema(rows string) extract.Schema {
	return extract.Schema{
		Rows: rows,
		Fields: []extract.Field{
			{Name: fieldName, Selector: ".inventory_item_name"},
			{Name: fieldDescription, Selector: ".inventory_item_desc"},
			{Name: fieldPrice, Selector: ".inventory_item_price"},
		},
	}
}

func productFromRecord(r extract.Record) Product {
	return Product{Name: r[fieldName], Description: r[fieldDescription], Price: r[fieldPrice]}
}

// readProduct reads one listing rooted at item
func readProduct(ctx context.Context, item browser.Locator) (Product, error) {
	var p Product
	var err error
	if p.Name, err = item.Locator(".inventory_item_name").InnerText(ctx); err != nil {
		return Product{}, err
	}
	if p.Description, err = item.Locator(".inventory_item_desc").InnerText(ctx); err != nil {
		return Product{}, err
	}
	if p.Price, err = item.Locator(".inventory_item_price").InnerText(ctx); err != nil {
		return Product{}, err
	}
	return p, nil
}

// InventoryPage is the product list shown after login
type InventoryPage struct {
	doc       browser.Document
	container browser.Locator
	items     browser.Locator
	cartLink  browser.Locator
	cartBadge browser.Locator
	title     browser.Locator
}

func NewInventoryPage(doc browser.Document) *InventoryPage {
	return &InventoryPage{
		doc:       doc,
		container: doc.Locator("#inventory_container"),
		items:     doc.Locator("#inventory_container .inventory_item"),
		cartLink:  doc.Locator(".shopping_cart_link"),
		cartBadge: doc.Locator(".shopping_cart_badge"),
		title:     doc.Locator(`[data-test="title"]`),
	}
}

// WaitLoaded fails unless the product list is on screen
func (p *InventoryPage) WaitLoaded(ctx context.Context) error {
	return p.container.WaitVisible(ctx)
}

// IsShown reports whether the product list is on screen
func (p *InventoryPage) IsShown(ctx context.Context) (bool, error) {
	return p.container.IsVisible(ctx)
}

// Items returns one locator per listed product
func (p *InventoryPage) Items(ctx context.Context) ([]browser.Locator, error) {
	return p.items.All(ctx)
}

// Product reads the name, description and price of one listing
func (p *InventoryPage) Product(ctx context.Context, item browser.Locator) (Product, error) {
	return readProduct(ctx, item)
}

// Products reads every listing in page order
func (p *InventoryPage) Products(ctx context.Context) ([]Product, error) {
	return extract.ExtractAs(ctx, p.container, productSchema(".inventory_item"), productFromRecord)
}

// AddToCart presses the listing's add button
func (p *InventoryPage) AddToCart(ctx context.Context, item browser.Locator) error {
	return item.Locator(".btn_primary").Click(ctx)
}

// RemoveFromCart presses the listing's remove button
func (p *InventoryPage) RemoveFromCart(ctx context.Context, item browser.Locator) error {
	return item.Locator(".btn_secondary").Click(ctx)
}

// CartCount is the number on the cart badge, zero when there is no badge
func (p *InventoryPage) CartCount(ctx context.Context) (int, error) {
	n, err := p.cartBadge.Count(ctx)
	if err != nil || n == 0 {
		return 0, err
	}
	text, err := p.cartBadge.InnerText(ctx)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(text))
}

func (p *InventoryPage) Title(ctx context.Context) (string, error) {
	return p.title.InnerText(ctx)
}

func (p *InventoryPage) OpenCart(ctx context.Context) error {
	return p.cartLink.Click(ctx)
}

package pages

import (
	"context"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/extract"
)

// CartPage lists what was added to the cart
type CartPage struct {
	doc            browser.Document
	container      browser.Locator
	itemName       browser.Locator
	itemDesc       browser.Locator
	itemPrice      browser.Locator
	checkoutButton browser.Locator
	continueButton browser.Locator
}

func NewCartPage(doc browser.Document) *CartPage {
	return &CartPage{
		doc:            doc,
		container:      doc.Locator("#cart_contents_container"),
		itemName:       doc.Locator("#cart_contents_container .inventory_item_name"),
		itemDesc:       doc.Locator("#cart_contents_container .inventory_item_desc"),
		itemPrice:      doc.Locator("#cart_contents_container .inventory_item_price"),
		checkoutButton: doc.Locator(".checkout_button"),
		continueButton: doc.Locator("#continue-shopping"),
	}
}

// WaitLoaded fails unless the checkout button is on screen
func (p *CartPage) WaitLoaded(ctx context.Context) error {
	return p.checkoutButton.WaitVisible(ctx)
}

// Item reads the only product in the cart. It fails when the cart holds
// none or more than one.
func (p *CartPage) Item(ctx context.Context) (Product, error) {
	var item Product
	var err error
	if item.Description, err = p.itemDesc.InnerText(ctx); err != nil {
		return Product{}, err
	}
	if item.Name, err = p.itemName.InnerText(ctx); err != nil {
		return Product{}, err
	}
	if item.Price, err = p.itemPrice.InnerText(ctx); err != nil {
		return Product{}, err
	}
	return item, nil
}

// Products reads every cart line in order
func (p *CartPage) Products(ctx context.Context) ([]Product, error) {
	return extract.ExtractAs(ctx, p.container, productSchema(".cart_item"), productFromRecord)
}

func (p *CartPage) Checkout(ctx context.Context) error {
	return p.checkoutButton.Click(ctx)
}

func (p *CartPage) ContinueShopping(ctx context.Context) error {
	return p.continueButton.Click(ctx)
}

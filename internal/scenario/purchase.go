package scenario

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/browser"
	"github.com/themizzi/shopcheck/internal/pages"
)

// ConfirmationHeader is the text the complete page must show
const ConfirmationHeader = "Thank you for your order!"

// Customer is what the purchase scenario types into the information step
var Customer = struct {
	FirstName  string
	LastName   string
	PostalCode string
}{"John", "Doe", "12345"}

// PurchaseResult is what the purchase scenario observed
type PurchaseResult struct {
	InventorySize  int
	Index          int
	Product        pages.Product
	ItemTotal      string
	Confirmation   string
	OrderReference string
}

// Purchase picks a random item, checks that the cart shows it exactly as the
// inventory did, checks out and checks the confirmation. With ReuseSession
// set it starts from the stored snapshot instead of logging in.
func (r *Runner) Purchase(ctx context.Context) (*PurchaseResult, error) {
	bctx, doc, err := r.open(ctx, r.ReuseSession)
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	login := pages.NewLoginPage(doc)
	inventory := pages.NewInventoryPage(doc)
	cart := pages.NewCartPage(doc)
	info := pages.NewCheckoutInfoPage(doc)
	overview := pages.NewCheckoutOverviewPage(doc)
	complete := pages.NewCheckoutCompletePage(doc)

	result := &PurchaseResult{}
	var item browser.Locator

	var steps []Step
	if r.ReuseSession {
		steps = append(steps, Step{"open inventory", func(ctx context.Context) error {
			if err := doc.Goto(ctx, pages.URL(r.Target.BaseURL, "/inventory.html")); err != nil {
				return err
			}
			return requireSession(ctx, login)
		}})
	} else {
		steps = append(steps,
			Step{"open login page", func(ctx context.Context) error {
				return login.Goto(ctx, r.Target.BaseURL)
			}},
			Step{"log in", func(ctx context.Context) error {
				if err := login.Login(ctx, r.Target.Username, r.Target.Password); err != nil {
					return err
				}
				return reachInventory(ctx, login, inventory)
			}},
		)
	}

	steps = append(steps,
		Step{"pick item", func(ctx context.Context) error {
			items, err := inventory.Items(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return &AssertionError{What: "inventory size", Want: "at least one item", Got: 0}
			}
			result.InventorySize = len(items)
			result.Index = r.intN(len(items))
			item = items[result.Index]

			result.Product, err = inventory.Product(ctx, item)
			if err != nil {
				return err
			}
			r.logger().WithFields(logrus.Fields{
				"name":        result.Product.Name,
				"description": result.Product.Description,
				"price":       result.Product.Price,
			}).Info("Picked item")
			return nil
		}},
		Step{"add to cart", func(ctx context.Context) error {
			return inventory.AddToCart(ctx, item)
		}},
		Step{"open cart", func(ctx context.Context) error {
			if err := inventory.OpenCart(ctx); err != nil {
				return err
			}
			return cart.WaitLoaded(ctx)
		}},
		Step{"verify cart", func(ctx context.Context) error {
			got, err := cart.Item(ctx)
			if err != nil {
				return err
			}
			if err := Expect("cart item description", result.Product.Description, got.Description); err != nil {
				return err
			}
			if err := Expect("cart item name", result.Product.Name, got.Name); err != nil {
				return err
			}
			return Expect("cart item price", result.Product.Price, got.Price)
		}},
		Step{"check out", func(ctx context.Context) error {
			return cart.Checkout(ctx)
		}},
		Step{"enter information", func(ctx context.Context) error {
			return info.Submit(ctx, Customer.FirstName, Customer.LastName, Customer.PostalCode)
		}},
		Step{"verify item total", func(ctx context.Context) error {
			if err := overview.WaitLoaded(ctx); err != nil {
				return err
			}
			total, err := overview.ItemTotal(ctx)
			if err != nil {
				return err
			}
			result.ItemTotal = total
			return Expect("item total", result.Product.Price, total)
		}},
		Step{"finish", func(ctx context.Context) error {
			return overview.Finish(ctx)
		}},
		Step{"verify confirmation", func(ctx context.Context) error {
			if err := complete.WaitLoaded(ctx); err != nil {
				return err
			}
			header, err := complete.Header(ctx)
			if err != nil {
				return err
			}
			result.Confirmation = header
			if err := Expect("confirmation", ConfirmationHeader, header); err != nil {
				return err
			}
			result.OrderReference, err = complete.OrderReference(ctx)
			return err
		}},
	)

	if err := Run(ctx, r.logger(), "purchase", steps); err != nil {
		return nil, err
	}
	return result, nil
}

// requireSession fails with ErrStaleState when the site sent the reused
// session back to the login screen.
func requireSession(ctx context.Context, login *pages.LoginPage) error {
	shown, err := login.IsShown(ctx)
	if err != nil {
		return err
	}
	if shown {
		return fmt.Errorf("%w: redirected to the login screen", ErrStaleState)
	}
	return nil
}

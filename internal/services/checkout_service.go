package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/themizzi/shopcheck/internal/models"
)

// ErrNoCustomer is returned when the overview or finish step is reached
// before the information step was completed
var ErrNoCustomer = errors.New("checkout information has not been provided")

// CheckoutService walks a session through the checkout steps
type CheckoutService interface {
	SetCustomer(token string, customer models.Customer) error
	Customer(token string) (models.Customer, bool)
	Summary(token string) Summary
	Finish(token, username string) (*models.Order, error)
}

// Summary is what the overview step shows
type Summary struct {
	Items    []models.Product
	Subtotal int64
	Tax      int64
	Total    int64
}

// TaxRateBasisPoints is the sales tax applied on the overview, 8%
const TaxRateBasisPoints = 800

// CheckoutServiceImpl implements CheckoutService
type CheckoutServiceImpl struct {
	mu        sync.Mutex
	carts     CartService
	orders    OrderService
	customers map[string]models.Customer
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(carts CartService, orders OrderService) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		carts:     carts,
		orders:    orders,
		customers: make(map[string]models.Customer),
	}
}

// SetCustomer validates and stores the information step
func (s *CheckoutServiceImpl) SetCustomer(token string, customer models.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[token] = customer
	return nil
}

func (s *CheckoutServiceImpl) Customer(token string) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[token]
	return c, ok
}

// Summary prices the cart. Tax is rounded half up to the cent.
func (s *CheckoutServiceImpl) Summary(token string) Summary {
	items := s.carts.Items(token)

	var subtotal int64
	for _, p := range items {
		subtotal += p.PriceCents
	}
	tax := (subtotal*TaxRateBasisPoints + 5000) / 10000

	return Summary{
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// Finish places the order and empties the cart
func (s *CheckoutServiceImpl) Finish(token, username string) (*models.Order, error) {
	customer, ok := s.Customer(token)
	if !ok {
		return nil, ErrNoCustomer
	}

	// The order is priced exactly as the overview showed it.
	summary := s.Summary(token)
	items := make([]models.OrderItem, 0, len(summary.Items))
	for _, p := range summary.Items {
		items = append(items, p.Item())
	}

	order, err := s.orders.PlaceOrder(username, customer, items, summary.Tax)
	if err != nil {
		return nil, fmt.Errorf("failed to finish checkout: %w", err)
	}

	s.carts.Clear(token)
	s.mu.Lock()
	delete(s.customers, token)
	s.mu.Unlock()

	return order, nil
}

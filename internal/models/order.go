package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents valid order states
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderItem is a product line frozen at the price it was bought for
type OrderItem struct {
	ProductID  string
	Name       string
	PriceCents int64
}

// Order is a finished checkout
type Order struct {
	ID        string
	Reference string
	Username  string
	Customer  Customer
	Items     []OrderItem
	Total     int64
	Currency  string
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain errors
var (
	ErrEmptyOrder              = errors.New("order must contain at least one item")
	ErrInvalidCurrency         = errors.New("currency code must be 3 characters")
	ErrInvalidUsername         = errors.New("order username cannot be empty")
	ErrInvalidItemPrice        = errors.New("item price must be positive")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrInvalidTax              = errors.New("tax cannot be negative")
)

// NewOrder creates a pending order for the given items
func NewOrder(username string, customer Customer, items []OrderItem, currency string) (*Order, error) {
	if err := validateOrderInput(username, customer, items, currency); err != nil {
		return nil, err
	}

	var total int64
	for _, it := range items {
		total += it.PriceCents
	}

	now := time.Now()
	id := uuid.New()

	return &Order{
		ID:        id.String(),
		Reference: "ORDER-" + strings.ToUpper(id.String()[:8]),
		Username:  username,
		Customer:  customer,
		Items:     append([]OrderItem(nil), items...),
		Total:     total,
		Currency:  currency,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validateOrderInput(username string, customer Customer, items []OrderItem, currency string) error {
	if username == "" {
		return ErrInvalidUsername
	}
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, it := range items {
		if it.PriceCents <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidItemPrice, it.Name)
		}
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	return customer.Validate()
}

// Complete marks a pending order as completed
func (o *Order) Complete() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot complete order with status %s", ErrInvalidStatusTransition, o.Status)
	}
	o.Status = OrderStatusCompleted
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel marks a pending order as cancelled
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot cancel order with status %s", ErrInvalidStatusTransition, o.Status)
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// AddTax adds tax to the total of a pending order
func (o *Order) AddTax(cents int64) error {
	if cents < 0 {
		return ErrInvalidTax
	}
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot tax order with status %s", ErrInvalidStatusTransition, o.Status)
	}
	o.Total += cents
	return nil
}

func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// GetFormattedTotal returns the total the way the shop displays prices
func (o *Order) GetFormattedTotal() string {
	return FormatPrice(o.Total)
}

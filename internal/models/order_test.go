package models

import (
	"errors"
	"strings"
	"testing"
)

var validCustomer = Customer{FirstName: "John", LastName: "Doe", PostalCode: "12345"}

func TestNewOrder(t *testing.T) {
	backpack := OrderItem{ProductID: "4", Name: "Sauce Labs Backpack", PriceCents: 2999}
	light := OrderItem{ProductID: "0", Name: "Sauce Labs Bike Light", PriceCents: 999}

	tests := []struct {
		name      string
		username  string
		customer  Customer
		items     []OrderItem
		currency  string
		wantErr   error
		wantTotal int64
	}{
		{
			name:      "valid order",
			username:  "standard_user",
			customer:  validCustomer,
			items:     []OrderItem{backpack, light},
			currency:  "USD",
			wantTotal: 3998,
		},
		{
			name:     "empty username",
			customer: validCustomer,
			items:    []OrderItem{backpack},
			currency: "USD",
			wantErr:  ErrInvalidUsername,
		},
		{
			name:     "no items",
			username: "standard_user",
			customer: validCustomer,
			currency: "USD",
			wantErr:  ErrEmptyOrder,
		},
		{
			name:     "free item",
			username: "standard_user",
			customer: validCustomer,
			items:    []OrderItem{{ProductID: "x", Name: "Free", PriceCents: 0}},
			currency: "USD",
			wantErr:  ErrInvalidItemPrice,
		},
		{
			name:     "invalid currency",
			username: "standard_user",
			customer: validCustomer,
			items:    []OrderItem{backpack},
			currency: "US",
			wantErr:  ErrInvalidCurrency,
		},
		{
			name:     "missing postal code",
			username: "standard_user",
			customer: Customer{FirstName: "John", LastName: "Doe"},
			items:    []OrderItem{backpack},
			currency: "USD",
			wantErr:  ErrPostalCodeRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder(tt.username, tt.customer, tt.items, tt.currency)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewOrder() error = %v, wantErr %v", err, tt.wantErr)
				}
				if order != nil {
					t.Error("Expected order to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewOrder() unexpected error = %v", err)
			}
			if order.ID == "" {
				t.Error("Order ID should not be empty")
			}
			if !strings.HasPrefix(order.Reference, "ORDER-") {
				t.Errorf("Reference = %q, want ORDER- prefix", order.Reference)
			}
			if order.Status != OrderStatusPending {
				t.Errorf("Status = %s, want %s", order.Status, OrderStatusPending)
			}
			if order.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", order.Total, tt.wantTotal)
			}
			if order.CreatedAt.IsZero() || order.UpdatedAt.IsZero() {
				t.Error("timestamps should be set")
			}
		})
	}
}

func TestNewOrder_CopiesItems(t *testing.T) {
	items := []OrderItem{{ProductID: "4", Name: "Backpack", PriceCents: 2999}}
	order, err := NewOrder("standard_user", validCustomer, items, "USD")
	if err != nil {
		t.Fatalf("NewOrder() unexpected error = %v", err)
	}

	items[0].Name = "changed"
	if order.Items[0].Name != "Backpack" {
		t.Errorf("order items alias the caller's slice")
	}
}

func TestOrder_Transitions(t *testing.T) {
	tests := []struct {
		name       string
		from       OrderStatus
		transition func(*Order) error
		wantStatus OrderStatus
		wantErr    bool
	}{
		{name: "complete pending", from: OrderStatusPending, transition: (*Order).Complete, wantStatus: OrderStatusCompleted},
		{name: "cancel pending", from: OrderStatusPending, transition: (*Order).Cancel, wantStatus: OrderStatusCancelled},
		{name: "complete completed", from: OrderStatusCompleted, transition: (*Order).Complete, wantStatus: OrderStatusCompleted, wantErr: true},
		{name: "cancel completed", from: OrderStatusCompleted, transition: (*Order).Cancel, wantStatus: OrderStatusCompleted, wantErr: true},
		{name: "complete cancelled", from: OrderStatusCancelled, transition: (*Order).Complete, wantStatus: OrderStatusCancelled, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}

			err := tt.transition(order)

			if (err != nil) != tt.wantErr {
				t.Fatalf("transition error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
			}
			if order.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", order.Status, tt.wantStatus)
			}
		})
	}
}

func TestOrder_AddTax(t *testing.T) {
	tests := []struct {
		name      string
		status    OrderStatus
		tax       int64
		wantTotal int64
		wantErr   error
	}{
		{name: "pending", status: OrderStatusPending, tax: 240, wantTotal: 3239},
		{name: "zero", status: OrderStatusPending, tax: 0, wantTotal: 2999},
		{name: "negative", status: OrderStatusPending, tax: -5, wantTotal: 2999, wantErr: ErrInvalidTax},
		{name: "completed", status: OrderStatusCompleted, tax: 240, wantTotal: 2999, wantErr: ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.status, Total: 2999}

			err := order.AddTax(tt.tax)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddTax() error = %v, want %v", err, tt.wantErr)
			}
			if order.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", order.Total, tt.wantTotal)
			}
		})
	}
}

func TestOrder_StatusChecks(t *testing.T) {
	order := &Order{Status: OrderStatusPending}
	if !order.IsPending() || order.IsCompleted() || order.IsCancelled() {
		t.Errorf("unexpected status checks for %s", order.Status)
	}

	order.Status = OrderStatusCompleted
	if order.IsPending() || !order.IsCompleted() || order.IsCancelled() {
		t.Errorf("unexpected status checks for %s", order.Status)
	}

	order.Status = OrderStatusCancelled
	if order.IsPending() || order.IsCompleted() || !order.IsCancelled() {
		t.Errorf("unexpected status checks for %s", order.Status)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 2999, want: "$29.99"},
		{cents: 799, want: "$7.99"},
		{cents: 5, want: "$0.05"},
		{cents: 0, want: "$0.00"},
		{cents: 150000, want: "$1500.00"},
		{cents: -240, want: "-$2.40"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatPrice(tt.cents); got != tt.want {
				t.Errorf("FormatPrice(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}

	order := &Order{Total: 3240}
	if got := order.GetFormattedTotal(); got != "$32.40" {
		t.Errorf("GetFormattedTotal() = %q", got)
	}
}

func TestCustomer_Validate(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		wantErr  error
	}{
		{name: "complete", customer: validCustomer},
		{name: "nothing filled reports first name", customer: Customer{}, wantErr: ErrFirstNameRequired},
		{name: "missing last name", customer: Customer{FirstName: "John", PostalCode: "1"}, wantErr: ErrLastNameRequired},
		{name: "missing postal code", customer: Customer{FirstName: "John", LastName: "Doe"}, wantErr: ErrPostalCodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.customer.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCart(t *testing.T) {
	var cart Cart

	if !cart.Add("4") || !cart.Add("0") {
		t.Fatal("expected new products to be added")
	}
	if cart.Add("4") {
		t.Error("a product already in the cart should not be added twice")
	}
	if cart.Len() != 2 || cart.ProductIDs[0] != "4" || cart.ProductIDs[1] != "0" {
		t.Errorf("unexpected cart contents %v", cart.ProductIDs)
	}

	if !cart.Remove("4") {
		t.Error("expected removal of a present product")
	}
	if cart.Remove("4") {
		t.Error("removing an absent product should report false")
	}
	if cart.Contains("4") || !cart.Contains("0") {
		t.Errorf("unexpected cart contents %v", cart.ProductIDs)
	}

	cart.Clear()
	if cart.Len() != 0 {
		t.Errorf("expected empty cart, got %v", cart.ProductIDs)
	}
}

func TestProduct_Item(t *testing.T) {
	p := Product{ID: "4", Name: "Backpack", PriceCents: 2999}
	item := p.Item()
	if item.ProductID != "4" || item.Name != "Backpack" || item.PriceCents != 2999 {
		t.Errorf("Item() = %+v", item)
	}
	if p.Price() != "$29.99" {
		t.Errorf("Price() = %q", p.Price())
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/themizzi/shopcheck/internal/models"
)

// MockOrderRepository is a mock implementation of OrderRepository for testing
type MockOrderRepository struct {
	CreateOrderFunc         func(*models.Order) error
	GetOrderByReferenceFunc func(string) (*models.Order, error)
	UpdateOrderStatusFunc   func(string, string) error
}

func (m *MockOrderRepository) CreateOrder(order *models.Order) error {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(order)
	}
	return nil
}

func (m *MockOrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	if m.GetOrderByReferenceFunc != nil {
		return m.GetOrderByReferenceFunc(reference)
	}
	return &models.Order{Reference: reference, Status: models.OrderStatusPending}, nil
}

func (m *MockOrderRepository) UpdateOrderStatus(reference, status string) error {
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(reference, status)
	}
	return nil
}

var testCustomer = models.Customer{FirstName: "John", LastName: "Doe", PostalCode: "12345"}

func TestOrderService_PlaceOrder(t *testing.T) {
	items := []models.OrderItem{{ProductID: "4", Name: "Sauce Labs Backpack", PriceCents: 2999}}

	tests := []struct {
		name      string
		username  string
		items     []models.OrderItem
		tax       int64
		wantTotal int64
		mockError error
		wantErr   bool
	}{
		{
			name:      "successful order",
			username:  "standard_user",
			items:     items,
			wantTotal: 2999,
		},
		{
			name:      "tax is added to the total",
			username:  "standard_user",
			items:     items,
			tax:       240,
			wantTotal: 3239,
		},
		{
			name:     "negative tax",
			username: "standard_user",
			items:    items,
			tax:      -1,
			wantErr:  true,
		},
		{
			name:      "repository error",
			username:  "standard_user",
			items:     items,
			mockError: errors.New("database error"),
			wantErr:   true,
		},
		{
			name:     "empty cart",
			username: "standard_user",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := 0
			mockRepo := &MockOrderRepository{
				CreateOrderFunc: func(order *models.Order) error {
					created++
					if tt.mockError != nil {
						return tt.mockError
					}
					if order.Status != models.OrderStatusCompleted {
						t.Errorf("Expected status %s, got %s", models.OrderStatusCompleted, order.Status)
					}
					if order.Currency != "USD" {
						t.Errorf("Expected currency USD, got %s", order.Currency)
					}
					if order.Total != tt.wantTotal {
						t.Errorf("Expected total %d, got %d", tt.wantTotal, order.Total)
					}
					return nil
				},
			}

			service := NewOrderService(mockRepo)
			order, err := service.PlaceOrder(tt.username, testCustomer, tt.items, tt.tax)

			if (err != nil) != tt.wantErr {
				t.Fatalf("PlaceOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if (tt.items == nil || tt.tax < 0) && created != 0 {
					t.Error("invalid orders should not reach the repository")
				}
				return
			}
			if order == nil || order.Reference == "" {
				t.Fatalf("Expected order with reference, got %+v", order)
			}
		})
	}
}

func TestOrderService_GetOrderByReference(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		mockOrder *models.Order
		mockError error
		wantErr   bool
	}{
		{
			name:      "successful retrieval",
			reference: "ORDER-123",
			mockOrder: &models.Order{Reference: "ORDER-123", Total: 100},
		},
		{
			name:      "order not found",
			reference: "ORDER-999",
			mockError: errors.New("order not found"),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockOrderRepository{
				GetOrderByReferenceFunc: func(reference string) (*models.Order, error) {
					if tt.mockError != nil {
						return nil, tt.mockError
					}
					return tt.mockOrder, nil
				},
			}

			service := NewOrderService(mockRepo)
			order, err := service.GetOrderByReference(tt.reference)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetOrderByReference() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && order == nil {
				t.Error("Expected order to be returned, got nil")
			}
		})
	}
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		current     models.OrderStatus
		getError    error
		updateError error
		wantErr     bool
		wantStatus  string
	}{
		{name: "cancel pending order", status: "cancelled", current: models.OrderStatusPending, wantStatus: "cancelled"},
		{name: "complete pending order", status: "completed", current: models.OrderStatusPending, wantStatus: "completed"},
		{name: "cancel completed order", status: "cancelled", current: models.OrderStatusCompleted, wantErr: true},
		{name: "unknown status", status: "shipped", current: models.OrderStatusPending, wantErr: true},
		{name: "order lookup fails", status: "cancelled", getError: errors.New("order not found"), wantErr: true},
		{name: "update fails", status: "cancelled", current: models.OrderStatusPending, updateError: errors.New("database error"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated string
			mockRepo := &MockOrderRepository{
				GetOrderByReferenceFunc: func(reference string) (*models.Order, error) {
					if tt.getError != nil {
						return nil, tt.getError
					}
					return &models.Order{Reference: reference, Status: tt.current}, nil
				},
				UpdateOrderStatusFunc: func(reference, status string) error {
					updated = status
					return tt.updateError
				},
			}

			service := NewOrderService(mockRepo)
			err := service.UpdateOrderStatus("ORDER-123", tt.status)

			if (err != nil) != tt.wantErr {
				t.Fatalf("UpdateOrderStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && updated != tt.wantStatus {
				t.Errorf("repository got status %q, want %q", updated, tt.wantStatus)
			}
		})
	}
}

package services

import (
	"fmt"

	"github.com/themizzi/shopcheck/internal/models"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(order *models.Order) error
	GetOrderByReference(reference string) (*models.Order, error)
	UpdateOrderStatus(reference, status string) error
}

// OrderService handles order business logic
type OrderService interface {
	PlaceOrder(username string, customer models.Customer, items []models.OrderItem, tax int64) (*models.Order, error)
	GetOrderByReference(reference string) (*models.Order, error)
	UpdateOrderStatus(reference, status string) error
}

// OrderServiceImpl implements OrderService
type OrderServiceImpl struct {
	orderRepo OrderRepository
	currency  string
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
		currency:  "USD",
	}
}

// PlaceOrder creates, completes and persists an order. The stored total is
// the item sum plus tax.
func (s *OrderServiceImpl) PlaceOrder(username string, customer models.Customer, items []models.OrderItem, tax int64) (*models.Order, error) {
	order, err := models.NewOrder(username, customer, items, s.currency)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	if err := order.AddTax(tax); err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	// The demo shop takes no payment, so an order is complete as soon as it is placed.
	if err := order.Complete(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// GetOrderByReference retrieves an order by its reference
func (s *OrderServiceImpl) GetOrderByReference(reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status through the domain transitions
func (s *OrderServiceImpl) UpdateOrderStatus(reference, status string) error {
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	switch models.OrderStatus(status) {
	case models.OrderStatusCompleted:
		if err := order.Complete(); err != nil {
			return err
		}
	case models.OrderStatusCancelled:
		if err := order.Cancel(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid order status: %s", status)
	}

	if err := s.orderRepo.UpdateOrderStatus(reference, string(order.Status)); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

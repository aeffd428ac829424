package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/themizzi/shopcheck/internal/models"
)

// MemoryOrderRepository keeps orders in a map. It is the default store of
// the demo shop and of tests.
type MemoryOrderRepository struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]models.Order)}
}

func (r *MemoryOrderRepository) CreateOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.Reference]; exists {
		return fmt.Errorf("failed to create order: duplicate reference %s", order.Reference)
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.orders[order.Reference] = stored
	return nil
}

func (r *MemoryOrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[reference]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	out := stored
	out.Items = append([]models.OrderItem(nil), stored.Items...)
	return &out, nil
}

func (r *MemoryOrderRepository) UpdateOrderStatus(reference, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[reference]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	stored.Status = models.OrderStatus(status)
	stored.UpdatedAt = time.Now()
	r.orders[reference] = stored
	return nil
}

// Len reports how many orders are stored
func (r *MemoryOrderRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

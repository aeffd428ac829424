package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/shopcheck/internal/database"
	"github.com/themizzi/shopcheck/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested reference
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository stores orders in PostgreSQL
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a repository on the global connection
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		db: database.DB,
	}
}

// NewOrderRepositoryWithDB creates a new order repository with a specific database connection
func NewOrderRepositoryWithDB(db *sql.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// CreateOrder inserts the order and its items in one transaction
func (r *OrderRepository) CreateOrder(order *models.Order) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO orders (id, reference, username, first_name, last_name, postal_code,
		                    total, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		order.ID,
		order.Reference,
		order.Username,
		order.Customer.FirstName,
		order.Customer.LastName,
		order.Customer.PostalCode,
		order.Total,
		order.Currency,
		order.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i, item := range order.Items {
		_, err := tx.Exec(`
			INSERT INTO order_items (order_id, position, product_id, name, price)
			VALUES ($1, $2, $3, $4, $5)
		`, order.ID, i, item.ProductID, item.Name, item.PriceCents)
		if err != nil {
			return fmt.Errorf("failed to create order item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

// GetOrderByReference retrieves an order and its items by reference
func (r *OrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	order := &models.Order{}
	err := r.db.QueryRow(`
		SELECT id, reference, username, first_name, last_name, postal_code,
		       total, currency, status, created_at, updated_at
		FROM orders
		WHERE reference = $1
	`, reference).Scan(
		&order.ID,
		&order.Reference,
		&order.Username,
		&order.Customer.FirstName,
		&order.Customer.LastName,
		&order.Customer.PostalCode,
		&order.Total,
		&order.Currency,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT product_id, name, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}

	return order, nil
}

// UpdateOrderStatus updates the status of an order
func (r *OrderRepository) UpdateOrderStatus(reference, status string) error {
	result, err := r.db.Exec(`
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE reference = $3
	`, status, time.Now(), reference)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}

	return nil
}

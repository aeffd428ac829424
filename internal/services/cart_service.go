package services

import (
	"fmt"
	"sync"

	"github.com/themizzi/shopcheck/internal/models"
)

// CartService keeps one cart per login session
type CartService interface {
	Add(token, productID string) error
	Remove(token, productID string) error
	Items(token string) []models.Product
	Contains(token, productID string) bool
	Clear(token string)
}

// CartServiceImpl keeps carts in memory
type CartServiceImpl struct {
	mu      sync.Mutex
	catalog Catalog
	carts   map[string]*models.Cart
}

// NewCartService creates a cart service backed by catalog
func NewCartService(catalog Catalog) *CartServiceImpl {
	return &CartServiceImpl{
		catalog: catalog,
		carts:   make(map[string]*models.Cart),
	}
}

// Add puts a product in the cart. Adding a product twice is a no-op.
func (s *CartServiceImpl) Add(token, productID string) error {
	if _, err := s.catalog.Get(productID); err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[token]
	if !ok {
		cart = &models.Cart{}
		s.carts[token] = cart
	}
	cart.Add(productID)
	return nil
}

func (s *CartServiceImpl) Remove(token, productID string) error {
	if _, err := s.catalog.Get(productID); err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cart, ok := s.carts[token]; ok {
		cart.Remove(productID)
	}
	return nil
}

// Items returns the cart's products in the order they were added
func (s *CartServiceImpl) Items(token string) []models.Product {
	s.mu.Lock()
	var ids []string
	if cart, ok := s.carts[token]; ok {
		ids = append(ids, cart.ProductIDs...)
	}
	s.mu.Unlock()

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.catalog.Get(id)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	return products
}

func (s *CartServiceImpl) Contains(token, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[token]
	return ok && cart.Contains(productID)
}

func (s *CartServiceImpl) Clear(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, token)
}

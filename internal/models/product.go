package models

import (
	"errors"
	"fmt"
)

// ErrProductNotFound is returned for unknown product IDs
var ErrProductNotFound = errors.New("product not found")

// Product is an inventory item
type Product struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	ImageURL    string
}

// Price returns the displayed price, e.g. "$29.99"
func (p Product) Price() string {
	return FormatPrice(p.PriceCents)
}

// Item freezes the product into an order line
func (p Product) Item() OrderItem {
	return OrderItem{ProductID: p.ID, Name: p.Name, PriceCents: p.PriceCents}
}

// FormatPrice renders cents as dollars with two decimals
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// Country is a row of the practice web table
type Country struct {
	Name     string
	Capital  string
	Currency string
	Language string
}

package models

import "errors"

// Checkout form errors, worded as the form displays them
var (
	ErrFirstNameRequired  = errors.New("Error: First Name is required")
	ErrLastNameRequired   = errors.New("Error: Last Name is required")
	ErrPostalCodeRequired = errors.New("Error: Postal Code is required")
)

// Customer is the information collected by the first checkout step
type Customer struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// Validate checks the fields in form order and reports the first missing one
func (c Customer) Validate() error {
	switch {
	case c.FirstName == "":
		return ErrFirstNameRequired
	case c.LastName == "":
		return ErrLastNameRequired
	case c.PostalCode == "":
		return ErrPostalCodeRequired
	}
	return nil
}

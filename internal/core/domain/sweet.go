package domain

import (
	"errors"
	"time"
)

var ErrValidation = errors.New("validation failed")
var ErrSweetNotFound = errors.New("sweet not found")
var ErrInsufficientStock = errors.New("insufficient stock")
var ErrForbidden = errors.New("access forbidden")
var ErrStoreUnavailable = errors.New("store unavailable")

// Sweet is the catalog aggregate: a single product with its current stock level.
// Quantity is never negative; the only mutation paths are the conditional
// decrement on purchase and the increment on restock.
type Sweet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

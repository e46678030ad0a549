package domain

import (
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrSweetNotFound = errors.New("sweet not found")
var ErrInsufficientStock = errors.New("insufficient stock")

// Sweet is a catalog item. Quantity is the available stock and never goes
// below zero; every mutating path enforces the invariant.
type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

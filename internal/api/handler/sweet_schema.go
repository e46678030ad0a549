package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createSweetRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price"    validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// updateSweetRequest carries a partial update; absent fields stay unchanged.
type updateSweetRequest struct {
	Name     *string  `json:"name,omitempty"     validate:"omitempty,min=1"`
	Category *string  `json:"category,omitempty" validate:"omitempty,min=1"`
	Price    *float64 `json:"price,omitempty"    validate:"omitempty,gte=0"`
	Quantity *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

// quantityRequest is the body of purchase and restock calls.
type quantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal service changes.

type sweetResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

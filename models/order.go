package models

import (
	"encoding/json"
	"time"
)

// Order is the server-owned order summary returned after placement
type Order struct {
	ID            string      `json:"_id"`
	Status        string      `json:"status"`
	TotalAmount   float64     `json:"totalAmount"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	Items         []OrderItem `json:"products,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// OrderItem keeps the product reference raw: the backend sends either an id or a populated document.
type OrderItem struct {
	Product  json.RawMessage `json:"product"`
	Quantity int             `json:"quantity"`
	Price    float64         `json:"price"`
}

type CreateOrderRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
}

// OrderResult is what ConfirmOrder reports back
type OrderResult struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order,omitempty"`
	Error   string `json:"error,omitempty"`
}

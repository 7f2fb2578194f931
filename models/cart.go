package models

import (
	"encoding/json"
	"time"
)

// CartStatus is the lifecycle tag of a cart state
type CartStatus string

const (
	CartIdle    CartStatus = "idle"
	CartLoading CartStatus = "loading"
	CartReady   CartStatus = "ready"
	CartFailed  CartStatus = "failed"
)

// CartLineItem is one product/quantity pair. Quantity is always >= 1.
type CartLineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   *ProductSummary `json:"product"`
}

// CartState mirrors the server-side cart of one session
type CartState struct {
	Status      CartStatus     `json:"status"`
	Items       []CartLineItem `json:"items"`
	Loading     bool           `json:"loading"`
	Error       string         `json:"error,omitempty"`
	LastUpdated *time.Time     `json:"lastUpdated"`
}

// TotalItems is the sum of line quantities.
func (s CartState) TotalItems() int {
	total := 0
	for _, it := range s.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice sums price*quantity, counting lines without a product snapshot as 0.
func (s CartState) TotalPrice() float64 {
	total := 0.0
	for _, it := range s.Items {
		if it.Product != nil {
			total += it.Product.Price * float64(it.Quantity)
		}
	}
	return total
}

// CartView is the rendered form of a cart state, derived totals included
type CartView struct {
	CartState
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// View renders the state with freshly computed totals.
func (s CartState) View() CartView {
	return CartView{CartState: s, TotalItems: s.TotalItems(), TotalPrice: s.TotalPrice()}
}

// CartPayload is an un-normalized cart document as returned by the backend
type CartPayload json.RawMessage

// MutationKind tells whether a cart write left the cart in place or deleted it
type MutationKind int

const (
	CartUpdated MutationKind = iota
	CartDeleted
)

func (k MutationKind) String() string {
	if k == CartDeleted {
		return "deleted"
	}
	return "updated"
}

// CartMutation is the outcome of a remove/update call. Cart is nil when Kind is CartDeleted.
type CartMutation struct {
	Kind MutationKind
	Cart CartPayload
}

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

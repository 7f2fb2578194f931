package services

import (
	"errors"

	"github.com/dmrramaral/sushi-app/clients"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a non-negative integer")
	ErrMissingProductID = errors.New("product id is required")
)

// userMessage is the string stored in state for err, or fallback when the
// error carries nothing readable.
func userMessage(err error, fallback string) string {
	if msg := clients.Message(err); msg != "" {
		return msg
	}
	return fallback
}

package services

import (
	"time"

	"github.com/dmrramaral/sushi-app/models"
)

type cartActionKind int

const (
	cartLoading cartActionKind = iota
	cartSetItems
	cartFail
	cartClear
)

type cartAction struct {
	kind  cartActionKind
	items []models.CartLineItem
	err   string
	at    time.Time
}

func emptyCartState() models.CartState {
	return models.CartState{Status: models.CartIdle, Items: []models.CartLineItem{}}
}

// reduceCart is the only way a CartState changes. Items are replaced
// wholesale, never patched.
func reduceCart(s models.CartState, a cartAction) models.CartState {
	switch a.kind {
	case cartLoading:
		s.Status = models.CartLoading
		s.Loading = true
	case cartSetItems:
		items := a.items
		if items == nil {
			items = []models.CartLineItem{}
		}
		at := a.at
		s = models.CartState{Status: models.CartReady, Items: items, LastUpdated: &at}
	case cartFail:
		s.Status = models.CartFailed
		s.Loading = false
		s.Error = a.err
	case cartClear:
		s = emptyCartState()
	}
	return s
}

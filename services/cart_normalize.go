package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dmrramaral/sushi-app/models"
)

type rawCart struct {
	Products []json.RawMessage `json:"products"`
	Cart     *struct {
		Products []json.RawMessage `json:"products"`
	} `json:"cart"`
}

type rawLine struct {
	Product  json.RawMessage `json:"product"`
	ID       json.RawMessage `json:"_id"`
	AltID    string          `json:"id"`
	Quantity *int            `json:"quantity"`
	Qty      *int            `json:"qty"`
}

// normalizeCart reshapes the backend's cart variants into line items:
//
//	{"products": [...]} or {"cart": {"products": [...]}}
//
// where each entry carries the product as "product" (document or id), as an
// embedded "_id" document, as an "_id" string, or as "id". Lines without a
// product id or with a non-positive quantity are dropped, and repeated
// product ids are merged.
func normalizeCart(payload models.CartPayload) ([]models.CartLineItem, error) {
	data := bytes.TrimSpace(payload)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []models.CartLineItem{}, nil
	}

	var cart rawCart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unrecognized cart payload: %w", err)
	}
	lines := cart.Products
	if lines == nil && cart.Cart != nil {
		lines = cart.Cart.Products
	}

	items := make([]models.CartLineItem, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, raw := range lines {
		item, ok := normalizeLine(raw)
		if !ok {
			continue
		}
		if i, seen := index[item.ProductID]; seen {
			items[i].Quantity += item.Quantity
			if items[i].Product == nil {
				items[i].Product = item.Product
			}
			continue
		}
		index[item.ProductID] = len(items)
		items = append(items, item)
	}
	return items, nil
}

func normalizeLine(raw json.RawMessage) (models.CartLineItem, bool) {
	var line rawLine
	if err := json.Unmarshal(raw, &line); err != nil {
		return models.CartLineItem{}, false
	}

	var item models.CartLineItem
	item.Product, item.ProductID = productRef(line.Product)
	if item.Product == nil && item.ProductID == "" {
		item.Product, item.ProductID = productRef(line.ID)
	}
	// a document without its own id takes the line's "_id" string, then "id"
	if item.ProductID == "" {
		if doc, id := productRef(line.ID); doc == nil {
			item.ProductID = id
		}
	}
	if item.ProductID == "" {
		item.ProductID = line.AltID
	}
	if item.Product != nil && item.Product.ID == "" {
		item.Product.ID = item.ProductID
	}
	if item.ProductID == "" {
		return models.CartLineItem{}, false
	}

	switch {
	case line.Quantity != nil:
		item.Quantity = *line.Quantity
	case line.Qty != nil:
		item.Quantity = *line.Qty
	default:
		item.Quantity = 1
	}
	if item.Quantity <= 0 {
		return models.CartLineItem{}, false
	}
	return item, true
}

// productRef reads a field that holds either a product document or a bare id.
func productRef(raw json.RawMessage) (*models.ProductSummary, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ""
	}
	if raw[0] == '"' {
		var id string
		if json.Unmarshal(raw, &id) != nil {
			return nil, ""
		}
		return nil, id
	}
	if raw[0] != '{' {
		return nil, ""
	}
	var doc models.ProductSummary
	if json.Unmarshal(raw, &doc) != nil {
		return nil, ""
	}
	return &doc, doc.ID
}

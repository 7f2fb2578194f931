package models

import "encoding/json"

// ProductSummary is the denormalized product snapshot attached to cart lines
type ProductSummary struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

// UnmarshalJSON accepts either "_id" or "id" for the identifier and a
// category given as an id string or as an embedded document.
func (p *ProductSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"_id"`
		AltID       string          `json:"id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       float64         `json:"price"`
		Images      []string        `json:"images"`
		Category    json.RawMessage `json:"category"`
		Stock       int             `json:"stock"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = ProductSummary{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       raw.Price,
		Images:      raw.Images,
		Stock:       raw.Stock,
	}
	if p.ID == "" {
		p.ID = raw.AltID
	}
	if len(raw.Category) > 0 {
		var id string
		if json.Unmarshal(raw.Category, &id) == nil {
			p.Category = id
		} else {
			var doc struct {
				ID   string `json:"_id"`
				Name string `json:"name"`
			}
			if json.Unmarshal(raw.Category, &doc) == nil {
				p.Category = doc.ID
			}
		}
	}
	return nil
}

package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmrramaral/sushi-app/models"
)

// ProductByID fetches a single product.
func (g *GatewayClient) ProductByID(ctx context.Context, id string) (*models.ProductSummary, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodGet,
		path:   "/product/products/" + url.PathEscape(id),
		auth:   authOptional,
	})
	if err != nil {
		return nil, err
	}
	var p models.ProductSummary
	if err := decode(unwrap(resp.body, "product"), &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

// Products returns a raw product page.
func (g *GatewayClient) Products(ctx context.Context, query url.Values) ([]byte, error) {
	resp, err := g.send(ctx, request{method: http.MethodGet, path: "/product/products", query: query, auth: authOptional})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// Categories returns the raw category list.
func (g *GatewayClient) Categories(ctx context.Context) ([]byte, error) {
	resp, err := g.send(ctx, request{method: http.MethodGet, path: "/category/categories", auth: authOptional})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// SearchProducts returns a raw page of products matching query's search term.
func (g *GatewayClient) SearchProducts(ctx context.Context, query url.Values) ([]byte, error) {
	resp, err := g.send(ctx, request{method: http.MethodGet, path: "/product/products/search", query: query, auth: authOptional})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

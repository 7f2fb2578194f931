package clients

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/dmrramaral/sushi-app/models"
)

type cartProduct struct {
	ID       string `json:"_id"`
	Quantity int    `json:"quantity"`
}

// GetCart fetches the session's cart document. A missing cart (404) is
// returned as an empty payload.
func (g *GatewayClient) GetCart(ctx context.Context) (models.CartPayload, error) {
	resp, err := g.send(ctx, request{method: http.MethodGet, path: "/cart/cart", auth: authRequired})
	if err != nil {
		var upErr *UpstreamError
		if errors.As(err, &upErr) && upErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return models.CartPayload(resp.body), nil
}

// AddToCart adds quantity units of productID. The backend expects a product list.
func (g *GatewayClient) AddToCart(ctx context.Context, productID string, quantity int) (models.CartPayload, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodPost,
		path:   "/cart/carts/products",
		body:   map[string]interface{}{"products": []cartProduct{{ID: productID, Quantity: quantity}}},
		auth:   authRequired,
	})
	if err != nil {
		return nil, err
	}
	return models.CartPayload(resp.body), nil
}

// RemoveFromCart drops productID from the cart.
func (g *GatewayClient) RemoveFromCart(ctx context.Context, productID string) (models.CartMutation, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodDelete,
		path:   "/cart/carts/products",
		body:   map[string]string{"productId": productID},
		auth:   authRequired,
	})
	if err != nil {
		return models.CartMutation{}, err
	}
	return mutationFrom(resp), nil
}

// UpdateQuantity sets the quantity of productID.
func (g *GatewayClient) UpdateQuantity(ctx context.Context, productID string, quantity int) (models.CartMutation, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodPut,
		path:   "/cart/carts/products",
		body:   map[string]interface{}{"productId": productID, "quantity": quantity},
		auth:   authRequired,
	})
	if err != nil {
		return models.CartMutation{}, err
	}
	return mutationFrom(resp), nil
}

// mutationFrom maps 204 (or an empty/null body) to CartDeleted: the backend
// deletes the cart resource once its last line is gone.
func mutationFrom(resp *response) models.CartMutation {
	body := bytes.TrimSpace(resp.body)
	if resp.status == http.StatusNoContent || len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return models.CartMutation{Kind: models.CartDeleted}
	}
	return models.CartMutation{Kind: models.CartUpdated, Cart: models.CartPayload(resp.body)}
}

package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmrramaral/sushi-app/models"
)

// CreateOrderFromCart turns the server-side cart into an order.
func (g *GatewayClient) CreateOrderFromCart(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodPost,
		path:   "/order/from-cart",
		body:   req,
		auth:   authRequired,
	})
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := decode(unwrap(resp.body, "order"), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders lists the orders of the authenticated user.
func (g *GatewayClient) MyOrders(ctx context.Context) ([]models.Order, error) {
	resp, err := g.send(ctx, request{method: http.MethodGet, path: "/order/my", auth: authRequired})
	if err != nil {
		return nil, err
	}
	orders := []models.Order{}
	if err := decode(unwrap(resp.body, "orders"), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// MyOrder fetches one order of the authenticated user.
func (g *GatewayClient) MyOrder(ctx context.Context, id string) (*models.Order, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodGet,
		path:   "/order/my/" + url.PathEscape(id),
		auth:   authRequired,
	})
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := decode(unwrap(resp.body, "order"), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

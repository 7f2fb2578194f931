package services

import (
	"context"
	"errors"

	"github.com/dmrramaral/sushi-app/models"
	"go.uber.org/zap"
)

var ErrMissingOrderID = errors.New("order id is required")

// OrderService is the session's view of its orders.
type OrderService struct {
	gateway OrderGateway
	log     *zap.Logger
}

func NewOrderService(gateway OrderGateway, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{gateway: gateway, log: log}
}

// CreateFromCart places an order from whatever the server-side cart holds.
func (s *OrderService) CreateFromCart(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	order, err := s.gateway.CreateOrderFromCart(ctx, req)
	if err != nil {
		s.log.Warn("order placement failed", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (s *OrderService) MyOrders(ctx context.Context) ([]models.Order, error) {
	return s.gateway.MyOrders(ctx)
}

func (s *OrderService) MyOrder(ctx context.Context, id string) (*models.Order, error) {
	if id == "" {
		return nil, ErrMissingOrderID
	}
	return s.gateway.MyOrder(ctx, id)
}

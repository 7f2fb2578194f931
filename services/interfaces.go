package services

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/dmrramaral/sushi-app/models"
)

type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	CreateUser(ctx context.Context, req models.RegisterRequest) (json.RawMessage, error)
	Profile(ctx context.Context) (*models.User, error)
}

// SessionTokens is the token slot of one session.
type SessionTokens interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type CartGateway interface {
	GetCart(ctx context.Context) (models.CartPayload, error)
	AddToCart(ctx context.Context, productID string, quantity int) (models.CartPayload, error)
	RemoveFromCart(ctx context.Context, productID string) (models.CartMutation, error)
	UpdateQuantity(ctx context.Context, productID string, quantity int) (models.CartMutation, error)
}

type OrderGateway interface {
	CreateOrderFromCart(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	MyOrders(ctx context.Context) ([]models.Order, error)
	MyOrder(ctx context.Context, id string) (*models.Order, error)
}

type ProductGateway interface {
	ProductByID(ctx context.Context, id string) (*models.ProductSummary, error)
	Products(ctx context.Context, query url.Values) ([]byte, error)
	SearchProducts(ctx context.Context, query url.Values) ([]byte, error)
	Categories(ctx context.Context) ([]byte, error)
}

type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*models.ProductSummary, error)
	SetProduct(ctx context.Context, p *models.ProductSummary) error
}

// ProductLookup resolves product snapshots missing from a cart payload.
type ProductLookup interface {
	ProductByID(ctx context.Context, id string) (*models.ProductSummary, error)
}

type OrderPlacer interface {
	CreateFromCart(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
}

type AuthStatus interface {
	IsAuthenticated() bool
}

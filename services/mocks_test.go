package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"github.com/dmrramaral/sushi-app/models"
	"github.com/stretchr/testify/mock"
)

// --- Mock gateways ---

type MockAuthGateway struct {
	mock.Mock
}

func (m *MockAuthGateway) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthGateway) CreateUser(ctx context.Context, req models.RegisterRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockAuthGateway) Profile(ctx context.Context) (*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCartGateway struct {
	mock.Mock
}

func (m *MockCartGateway) GetCart(ctx context.Context) (models.CartPayload, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.CartPayload), args.Error(1)
}

func (m *MockCartGateway) AddToCart(ctx context.Context, productID string, quantity int) (models.CartPayload, error) {
	args := m.Called(ctx, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.CartPayload), args.Error(1)
}

func (m *MockCartGateway) RemoveFromCart(ctx context.Context, productID string) (models.CartMutation, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(models.CartMutation), args.Error(1)
}

func (m *MockCartGateway) UpdateQuantity(ctx context.Context, productID string, quantity int) (models.CartMutation, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Get(0).(models.CartMutation), args.Error(1)
}

type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) CreateOrderFromCart(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderGateway) MyOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderGateway) MyOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockProductGateway struct {
	mock.Mock
}

func (m *MockProductGateway) ProductByID(ctx context.Context, id string) (*models.ProductSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductSummary), args.Error(1)
}

func (m *MockProductGateway) Products(ctx context.Context, query url.Values) ([]byte, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProductGateway) SearchProducts(ctx context.Context, query url.Values) ([]byte, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProductGateway) Categories(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Fakes ---

type memTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memTokens) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

type staticAuth bool

func (a staticAuth) IsAuthenticated() bool { return bool(a) }

var errProductNotFound = errors.New("product not found")

type productTable map[string]*models.ProductSummary

func (t productTable) ProductByID(_ context.Context, id string) (*models.ProductSummary, error) {
	if p, ok := t[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, errProductNotFound
}

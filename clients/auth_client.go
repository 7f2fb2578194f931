package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmrramaral/sushi-app/models"
)

// Login exchanges credentials for a token. It never sends a stored token.
func (g *GatewayClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   map[string]string{"email": email, "password": password},
		auth:   authNone,
	})
	if err != nil {
		return nil, err
	}
	var out models.LoginResponse
	if err := decode(resp.body, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login response did not include a token")
	}
	return &out, nil
}

// CreateUser registers a new account and returns the backend's answer verbatim.
func (g *GatewayClient) CreateUser(ctx context.Context, req models.RegisterRequest) (json.RawMessage, error) {
	resp, err := g.send(ctx, request{
		method: http.MethodPost,
		path:   "/user/create",
		body:   req,
		auth:   authNone,
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.body), nil
}

// Profile returns the current user. The backend wraps it as {"user": {...}}.
func (g *GatewayClient) Profile(ctx context.Context) (*models.User, error) {
	resp, err := g.send(ctx, request{method: http.MethodGet, path: "/user/profile", auth: authRequired})
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := decode(unwrap(resp.body, "user"), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

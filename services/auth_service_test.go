package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dmrramaral/sushi-app/clients"
	"github.com/dmrramaral/sushi-app/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestAuthService_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("No stored token", func(t *testing.T) {
		gw := new(MockAuthGateway)
		svc := NewAuthService(gw, &memTokens{}, nil)
		assert.True(t, svc.State().Loading)

		svc.Initialize(ctx)

		st := svc.State()
		assert.False(t, st.IsAuthenticated)
		assert.False(t, st.Loading)
		assert.Nil(t, st.User)
		gw.AssertNotCalled(t, "Profile", mock.Anything)
	})

	t.Run("Valid token loads profile", func(t *testing.T) {
		gw := new(MockAuthGateway)
		gw.On("Profile", mock.Anything).Return(&models.User{ID: "u1", Email: "a@b.com"}, nil).Once()
		svc := NewAuthService(gw, &memTokens{token: signedToken(t, time.Now().Add(time.Hour))}, nil)

		svc.Initialize(ctx)

		st := svc.State()
		assert.True(t, st.IsAuthenticated)
		assert.False(t, st.Loading)
		assert.Equal(t, "u1", st.User.ID)
		gw.AssertExpectations(t)
	})

	t.Run("Expired token is discarded without a network call", func(t *testing.T) {
		gw := new(MockAuthGateway)
		tokens := &memTokens{token: signedToken(t, time.Now().Add(-time.Hour))}
		svc := NewAuthService(gw, tokens, nil)

		svc.Initialize(ctx)

		assert.False(t, svc.IsAuthenticated())
		assert.Empty(t, tokens.token)
		assert.Equal(t, 1, tokens.cleared)
		gw.AssertNotCalled(t, "Profile", mock.Anything)
	})

	t.Run("Rejected token is cleared", func(t *testing.T) {
		gw := new(MockAuthGateway)
		gw.On("Profile", mock.Anything).Return(nil, &clients.UpstreamError{Status: http.StatusUnauthorized, Message: "jwt expired"}).Once()
		tokens := &memTokens{token: "opaque-token"}
		svc := NewAuthService(gw, tokens, nil)

		svc.Initialize(ctx)

		st := svc.State()
		assert.False(t, st.IsAuthenticated)
		assert.False(t, st.Loading)
		assert.Empty(t, tokens.token)
		gw.AssertNumberOfCalls(t, "Profile", 1)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - stores token and notifies", func(t *testing.T) {
		gw := new(MockAuthGateway)
		gw.On("Login", mock.Anything, "a@b.com", "secret").Return(&models.LoginResponse{Token: "tok"}, nil).Once()
		gw.On("Profile", mock.Anything).Return(&models.User{ID: "u1", Email: "a@b.com", Role: models.RoleUser}, nil).Once()
		tokens := &memTokens{}
		svc := NewAuthService(gw, tokens, nil)
		var events []bool
		svc.Subscribe(func(_ context.Context, authenticated bool) { events = append(events, authenticated) })

		result := svc.Login(ctx, "a@b.com", "secret")

		assert.True(t, result.Success)
		assert.Empty(t, result.Error)
		assert.Equal(t, "tok", tokens.token)
		assert.True(t, svc.IsAuthenticated())
		assert.Equal(t, []bool{true}, events)
		gw.AssertExpectations(t)
	})

	t.Run("Failure - 401 from backend drops the previous token", func(t *testing.T) {
		gw := new(MockAuthGateway)
		gw.On("Login", mock.Anything, "bad@x.com", "wrong").
			Return(nil, &clients.UpstreamError{Status: http.StatusUnauthorized, Message: "Credenciais inválidas"}).Once()
		tokens := &memTokens{token: "previous"}
		svc := NewAuthService(gw, tokens, nil)

		result := svc.Login(ctx, "bad@x.com", "wrong")

		assert.False(t, result.Success)
		assert.Equal(t, "Credenciais inválidas", result.Error)
		st := svc.State()
		assert.False(t, st.IsAuthenticated)
		assert.False(t, st.Loading)
		assert.NotEmpty(t, st.Error)
		assert.Empty(t, tokens.token)
		assert.Equal(t, 1, tokens.cleared)
	})

	t.Run("Profile outage falls back to email-only user", func(t *testing.T) {
		gw := new(MockAuthGateway)
		gw.On("Login", mock.Anything, "a@b.com", "secret").Return(&models.LoginResponse{Token: "tok"}, nil).Once()
		gw.On("Profile", mock.Anything).Return(nil, &clients.UpstreamError{Status: http.StatusBadGateway, Message: "Bad Gateway"}).Once()
		svc := NewAuthService(gw, &memTokens{}, nil)

		result := svc.Login(ctx, "a@b.com", "secret")

		assert.True(t, result.Success)
		assert.Equal(t, &models.User{Email: "a@b.com"}, svc.State().User)
	})

	t.Run("Profile 401 turns login into failure", func(t *testing.T) {
		gw := new(MockAuthGateway)
		gw.On("Login", mock.Anything, "a@b.com", "secret").Return(&models.LoginResponse{Token: "tok"}, nil).Once()
		gw.On("Profile", mock.Anything).Return(nil, &clients.UpstreamError{Status: http.StatusUnauthorized, Message: "Token inválido"}).Once()
		tokens := &memTokens{}
		svc := NewAuthService(gw, tokens, nil)

		result := svc.Login(ctx, "a@b.com", "secret")

		assert.False(t, result.Success)
		assert.Equal(t, "Token inválido", result.Error)
		assert.False(t, svc.IsAuthenticated())
		assert.Empty(t, tokens.token)
	})
}

func TestAuthService_RegisterDoesNotLogIn(t *testing.T) {
	gw := new(MockAuthGateway)
	req := models.RegisterRequest{Name: "Ana", Email: "ana@b.com", Password: "secret1"}
	gw.On("CreateUser", mock.Anything, req).Return(json.RawMessage(`{"message":"created"}`), nil).Once()
	svc := NewAuthService(gw, &memTokens{}, nil)
	svc.Initialize(context.Background())

	result := svc.Register(context.Background(), req)

	assert.True(t, result.Success)
	assert.False(t, svc.IsAuthenticated())
	gw.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)

	gw.On("CreateUser", mock.Anything, mock.Anything).Return(nil, &clients.UpstreamError{Status: http.StatusConflict, Message: "E-mail já cadastrado"}).Once()
	result = svc.Register(context.Background(), models.RegisterRequest{Email: "ana@b.com"})

	assert.False(t, result.Success)
	assert.Equal(t, "E-mail já cadastrado", svc.State().Error)

	svc.ClearError(context.Background())
	assert.Empty(t, svc.State().Error)
}

func TestAuthService_LogoutResetsState(t *testing.T) {
	gw := new(MockAuthGateway)
	gw.On("Profile", mock.Anything).Return(&models.User{ID: "u1"}, nil).Once()
	tokens := &memTokens{token: "tok"}
	svc := NewAuthService(gw, tokens, nil)
	svc.Initialize(context.Background())
	require.True(t, svc.IsAuthenticated())
	var events []bool
	svc.Subscribe(func(_ context.Context, authenticated bool) { events = append(events, authenticated) })

	svc.Logout(context.Background())

	assert.Equal(t, models.SessionState{}, svc.State())
	assert.Empty(t, tokens.token)
	assert.Equal(t, []bool{false}, events)
}

func TestAuthService_RolePredicates(t *testing.T) {
	tests := []struct {
		name      string
		user      *models.User
		admin     bool
		manager   bool
		canAccess bool
	}{
		{"anonymous", nil, false, false, false},
		{"customer", &models.User{Role: models.RoleUser}, false, false, false},
		{"admin role", &models.User{Role: models.RoleAdmin}, true, false, true},
		{"legacy admin flag", &models.User{Role: models.RoleUser, Admin: true}, true, false, true},
		{"manager", &models.User{Role: models.RoleManager}, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(new(MockAuthGateway), &memTokens{}, nil)
			svc.dispatch(context.Background(), authAction{kind: authSetUser, user: tt.user})

			assert.Equal(t, tt.admin, svc.IsAdmin())
			assert.Equal(t, tt.manager, svc.IsManager())
			assert.Equal(t, tt.canAccess, svc.CanAccessAdmin())
		})
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, tokenExpired(signedToken(t, now.Add(-time.Minute)), now))
	assert.False(t, tokenExpired(signedToken(t, now.Add(time.Minute)), now))
	assert.False(t, tokenExpired("not-a-jwt", now))
}

func TestReduceAuth_RegisterFailureKeepsLoggedInUser(t *testing.T) {
	user := &models.User{ID: "u1", Email: "ana@b.com"}
	st := models.SessionState{User: user, IsAuthenticated: true}

	st = reduceAuth(st, authAction{kind: authRegisterStart})
	st = reduceAuth(st, authAction{kind: authRegisterFailure, err: "E-mail já cadastrado"})

	assert.Same(t, user, st.User)
	assert.True(t, st.IsAuthenticated)
	assert.False(t, st.Loading)
	assert.Equal(t, "E-mail já cadastrado", st.Error)
}

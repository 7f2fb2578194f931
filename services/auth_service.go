package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmrramaral/sushi-app/clients"
	"github.com/dmrramaral/sushi-app/models"
	"go.uber.org/zap"
)

// AuthResult is returned by Login and Register instead of an error.
type AuthResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AuthListener is told about every transition into or out of the authenticated state.
type AuthListener func(ctx context.Context, authenticated bool)

// AuthService owns the auth state of one browser session.
type AuthService struct {
	gateway AuthGateway
	tokens  SessionTokens
	log     *zap.Logger
	now     func() time.Time

	mu        sync.RWMutex
	state     models.SessionState
	listeners []AuthListener
}

func NewAuthService(gateway AuthGateway, tokens SessionTokens, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		gateway: gateway,
		tokens:  tokens,
		log:     log,
		now:     time.Now,
		state:   initialSessionState(),
	}
}

// Subscribe registers fn for auth transitions. Listeners run synchronously,
// in registration order, outside the state lock.
func (s *AuthService) Subscribe(fn AuthListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *AuthService) dispatch(ctx context.Context, a authAction) {
	s.mu.Lock()
	was := s.state.IsAuthenticated
	s.state = reduceAuth(s.state, a)
	is := s.state.IsAuthenticated
	listeners := append([]AuthListener(nil), s.listeners...)
	s.mu.Unlock()

	if was != is {
		for _, fn := range listeners {
			fn(ctx, is)
		}
	}
}

// State returns a copy of the current session state.
func (s *AuthService) State() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Initialize validates a stored token, if any, by fetching the profile.
// It does not retry: a failed check leaves the session unauthenticated
// until the next login.
func (s *AuthService) Initialize(ctx context.Context) {
	s.dispatch(ctx, authAction{kind: authSetLoading, loading: true})

	token, err := s.tokens.Token(ctx)
	if err != nil {
		s.log.Error("failed to read session token", zap.Error(err))
		s.dispatch(ctx, authAction{kind: authSetUser})
		return
	}
	if token == "" {
		s.dispatch(ctx, authAction{kind: authSetUser})
		return
	}
	if tokenExpired(token, s.now()) {
		s.log.Info("stored token already expired, discarding")
		s.clearToken(ctx)
		s.dispatch(ctx, authAction{kind: authSetUser})
		return
	}

	user, err := s.gateway.Profile(ctx)
	if err != nil {
		s.log.Warn("stored token rejected, session starts logged out", zap.Error(err))
		s.clearToken(ctx)
		s.dispatch(ctx, authAction{kind: authSetUser})
		return
	}
	s.dispatch(ctx, authAction{kind: authSetUser, user: user})
}

// Login authenticates, stores the token and loads the profile. Failures are
// reported in the result and in State().Error, never as a Go error.
func (s *AuthService) Login(ctx context.Context, email, password string) AuthResult {
	s.dispatch(ctx, authAction{kind: authLoginStart})

	resp, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return s.loginFailed(ctx, err)
	}
	if err := s.tokens.SetToken(ctx, resp.Token); err != nil {
		s.log.Error("failed to store session token", zap.Error(err))
		return s.loginFailed(ctx, err)
	}

	user, err := s.gateway.Profile(ctx)
	if err != nil {
		if errors.Is(err, clients.ErrUnauthorized) || errors.Is(err, clients.ErrNotAuthenticated) {
			return s.loginFailed(ctx, err)
		}
		s.log.Warn("profile unavailable after login, using minimal user", zap.Error(err))
		user = &models.User{Email: email}
	}

	s.dispatch(ctx, authAction{kind: authLoginSuccess, user: user})
	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return AuthResult{Success: true, Data: resp}
}

// Register creates an account. It does not log the new user in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) AuthResult {
	s.dispatch(ctx, authAction{kind: authRegisterStart})

	resp, err := s.gateway.CreateUser(ctx, req)
	if err != nil {
		return s.fail(ctx, authRegisterFailure, err, "Registration failed")
	}

	s.dispatch(ctx, authAction{kind: authRegisterSuccess})
	return AuthResult{Success: true, Data: resp}
}

// Logout drops the token and resets the state. It cannot fail.
func (s *AuthService) Logout(ctx context.Context) {
	s.clearToken(ctx)
	s.dispatch(ctx, authAction{kind: authLogout})
}

// Expire tears the session down after the backend rejected its token.
func (s *AuthService) Expire(ctx context.Context) {
	s.log.Info("backend rejected session token, logging out")
	s.Logout(ctx)
}

func (s *AuthService) ClearError(ctx context.Context) {
	s.dispatch(ctx, authAction{kind: authClearError})
}

// loginFailed drops whatever token the session held before the attempt,
// so the token store never outlives a logged-out state.
func (s *AuthService) loginFailed(ctx context.Context, err error) AuthResult {
	s.clearToken(ctx)
	return s.fail(ctx, authLoginFailure, err, "Login failed")
}

func (s *AuthService) fail(ctx context.Context, kind authActionKind, err error, fallback string) AuthResult {
	msg := userMessage(err, fallback)
	s.dispatch(ctx, authAction{kind: kind, err: msg})
	return AuthResult{Success: false, Error: msg}
}

func (s *AuthService) clearToken(ctx context.Context) {
	if err := s.tokens.ClearToken(ctx); err != nil {
		s.log.Warn("failed to clear session token", zap.Error(err))
	}
}

func (s *AuthService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

func (s *AuthService) HasRole(role string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User != nil && s.state.User.Role == role
}

// IsAdmin accepts either the admin role or the legacy admin flag.
func (s *AuthService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.state.User
	return u != nil && (u.Role == models.RoleAdmin || u.Admin)
}

func (s *AuthService) IsManager() bool {
	return s.HasRole(models.RoleManager)
}

func (s *AuthService) CanAccessAdmin() bool {
	return s.IsAdmin() || s.IsManager()
}

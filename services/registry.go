package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmrramaral/sushi-app/clients"
	"github.com/dmrramaral/sushi-app/database"
	"go.uber.org/zap"
)

const defaultInitTimeout = 5 * time.Second

// Storefront is the object graph of one browser session.
type Storefront struct {
	ID      string
	Auth    *AuthService
	Cart    *CartService
	Orders  *OrderService
	Gateway *clients.GatewayClient

	init     sync.Once
	lastSeen time.Time
}

type RegistryConfig struct {
	BaseURL     string
	HTTPClient  *http.Client
	IdleTTL     time.Duration
	InitTimeout time.Duration
}

// Registry creates storefronts on first use and evicts idle ones.
type Registry struct {
	cfg     RegistryConfig
	tokens  database.TokenStore
	catalog ProductLookup
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Storefront
}

func NewRegistry(cfg RegistryConfig, tokens database.TokenStore, catalog ProductLookup, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = defaultInitTimeout
	}
	return &Registry{
		cfg:      cfg,
		tokens:   tokens,
		catalog:  catalog,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Storefront),
	}
}

// Get returns the storefront of sid, building it on first use. The first
// caller validates any stored token; concurrent callers wait for it.
func (r *Registry) Get(ctx context.Context, sid string) *Storefront {
	r.mu.Lock()
	sf, ok := r.sessions[sid]
	if !ok {
		sf = r.build(sid)
		r.sessions[sid] = sf
	}
	sf.lastSeen = r.now()
	r.mu.Unlock()

	sf.init.Do(func() {
		// Initialize outlives the request that happened to create the session.
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.InitTimeout)
		defer cancel()
		sf.Auth.Initialize(ictx)
	})
	return sf
}

func (r *Registry) build(sid string) *Storefront {
	log := r.log.With(zap.String("session_id", sid))
	tokens := database.NewSessionTokens(r.tokens, sid)
	gw := clients.NewGatewayClient(r.cfg.BaseURL, r.cfg.HTTPClient, tokens, log)

	auth := NewAuthService(gw, tokens, log)
	orders := NewOrderService(gw, log)
	cart := NewCartService(gw, r.catalog, auth, orders, log)

	auth.Subscribe(cart.OnAuthChange)
	gw.OnUnauthorized(auth.Expire)

	return &Storefront{ID: sid, Auth: auth, Cart: cart, Orders: orders, Gateway: gw}
}

// Sweep drops storefronts idle for longer than the configured TTL and
// returns how many were removed. Stored tokens are left to expire on their own.
func (r *Registry) Sweep() int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for sid, sf := range r.sessions {
		if now.Sub(sf.lastSeen) > r.cfg.IdleTTL {
			delete(r.sessions, sid)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.cfg.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(r.cfg.IdleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Info("evicted idle sessions", zap.Int("count", n), zap.Int("active", r.Len()))
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

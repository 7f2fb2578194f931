package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmrramaral/sushi-app/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	profileCalls int32
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") != "Bearer good" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token inválido"}`))
		return
	}
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/user/profile":
		atomic.AddInt32(&b.profileCalls, 1)
		w.Write([]byte(`{"user":{"_id":"u1","email":"ana@b.com","role":"user"}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/cart/cart":
		w.Write([]byte(`{"products":[{"_id":"p1","quantity":2}]}`))
	case r.Method == http.MethodDelete && r.URL.Path == "/api/cart/carts/products":
		// token revoked server-side
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expirado"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestRegistry(t *testing.T, store database.TokenStore) (*Registry, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	reg := NewRegistry(RegistryConfig{
		BaseURL:    srv.URL + "/api",
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
		IdleTTL:    time.Minute,
	}, store, menu, nil)
	return reg, backend
}

func TestRegistry_GetBuildsOncePerSession(t *testing.T) {
	store := database.NewMemoryTokenStore(time.Hour)
	require.NoError(t, store.Set(context.Background(), "s1", "good"))
	reg, backend := newTestRegistry(t, store)

	var wg sync.WaitGroup
	fronts := make([]*Storefront, 10)
	for i := range fronts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fronts[i] = reg.Get(context.Background(), "s1")
		}(i)
	}
	wg.Wait()

	for _, sf := range fronts {
		assert.Same(t, fronts[0], sf)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.profileCalls))
	assert.NotSame(t, fronts[0], reg.Get(context.Background(), "s2"))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_StoredTokenRestoresSessionAndCart(t *testing.T) {
	store := database.NewMemoryTokenStore(time.Hour)
	require.NoError(t, store.Set(context.Background(), "s1", "good"))
	reg, _ := newTestRegistry(t, store)

	sf := reg.Get(context.Background(), "s1")

	require.True(t, sf.Auth.IsAuthenticated())
	assert.Equal(t, "u1", sf.Auth.State().User.ID)
	cart := sf.Cart.State()
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems())
	assert.Equal(t, 20.0, cart.TotalPrice())
}

func TestRegistry_UnauthorizedTearsSessionDown(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryTokenStore(time.Hour)
	require.NoError(t, store.Set(ctx, "s1", "good"))
	reg, _ := newTestRegistry(t, store)
	sf := reg.Get(ctx, "s1")
	require.True(t, sf.Auth.IsAuthenticated())

	err := sf.Cart.RemoveItem(ctx, "p1")

	require.Error(t, err)
	assert.False(t, sf.Auth.IsAuthenticated())
	assert.Empty(t, sf.Cart.State().Items)
	token, _ := store.Get(ctx, "s1")
	assert.Empty(t, token)
}

func TestRegistry_CancelledRequestStillInitializes(t *testing.T) {
	store := database.NewMemoryTokenStore(time.Hour)
	require.NoError(t, store.Set(context.Background(), "s1", "good"))
	reg, _ := newTestRegistry(t, store)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sf := reg.Get(ctx, "s1")

	assert.True(t, sf.Auth.IsAuthenticated())
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	reg, _ := newTestRegistry(t, database.NewMemoryTokenStore(time.Hour))
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	reg.Get(context.Background(), "old")
	now = now.Add(45 * time.Second)
	reg.Get(context.Background(), "fresh")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	reg.mu.Lock()
	_, ok := reg.sessions["fresh"]
	reg.mu.Unlock()
	assert.True(t, ok)
}

func TestRegistry_FailedLoginDoesNotResurrectPreviousUser(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryTokenStore(time.Hour)
	require.NoError(t, store.Set(ctx, "s1", "good"))
	reg, _ := newTestRegistry(t, store)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	sf := reg.Get(ctx, "s1")
	require.True(t, sf.Auth.IsAuthenticated())

	result := sf.Auth.Login(ctx, "bad@x.com", "wrong")

	assert.False(t, result.Success)
	assert.False(t, sf.Auth.IsAuthenticated())
	token, _ := store.Get(ctx, "s1")
	assert.Empty(t, token)

	now = now.Add(time.Hour)
	require.Equal(t, 1, reg.Sweep())
	again := reg.Get(ctx, "s1")

	assert.NotSame(t, sf, again)
	assert.False(t, again.Auth.IsAuthenticated())
	assert.Nil(t, again.Auth.State().User)
}

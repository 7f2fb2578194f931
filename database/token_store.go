package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore keeps one bearer token per browser session.
type TokenStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Set(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisTokenStore stores tokens under token:session:<id> with a TTL.
type RedisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTokenStore(client *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, ttl: ttl}
}

func (s *RedisTokenStore) key(sessionID string) string {
	return fmt.Sprintf("token:session:%s", sessionID)
}

func (s *RedisTokenStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisTokenStore) Set(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, s.key(sessionID), token, s.ttl).Err()
}

func (s *RedisTokenStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

type memoryToken struct {
	token     string
	expiresAt time.Time
}

// MemoryTokenStore is the single-instance fallback used when no Redis is configured.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]memoryToken
	ttl    time.Duration
	now    func() time.Time
}

func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]memoryToken), ttl: ttl, now: time.Now}
}

func (s *MemoryTokenStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	entry, ok := s.tokens[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.tokens, sessionID)
		s.mu.Unlock()
		return "", nil
	}
	return entry.token, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, sessionID, token string) error {
	s.mu.Lock()
	s.tokens[sessionID] = memoryToken{token: token, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.tokens, sessionID)
	s.mu.Unlock()
	return nil
}

// SessionTokens binds a TokenStore to one session id.
type SessionTokens struct {
	store     TokenStore
	sessionID string
}

func NewSessionTokens(store TokenStore, sessionID string) *SessionTokens {
	return &SessionTokens{store: store, sessionID: sessionID}
}

func (t *SessionTokens) Token(ctx context.Context) (string, error) {
	return t.store.Get(ctx, t.sessionID)
}

func (t *SessionTokens) SetToken(ctx context.Context, token string) error {
	return t.store.Set(ctx, t.sessionID, token)
}

func (t *SessionTokens) ClearToken(ctx context.Context) error {
	return t.store.Delete(ctx, t.sessionID)
}

package birddog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/arcoro/birddoghr-go/pkg/secrets"
	"github.com/arcoro/birddoghr-go/pkg/utils"
)

// CredentialsFunc supplies account credentials immediately before a token
// request. It is invoked only when a fresh token is needed, so secret
// material is fetched as late as possible and never retained by the caller.
type CredentialsFunc func(ctx context.Context) (Credentials, error)

// TokenStore caches access tokens between calls. Implementations must be
// safe for concurrent use. A store never validates tokens; a stale entry is
// simply sent and rejected by the remote API with a 401.
type TokenStore interface {
	Get(ctx context.Context, key string) (token string, ok bool, err error)
	Put(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}

// MemoryTokenStore keeps tokens in-process with a fixed TTL.
type MemoryTokenStore struct {
	cache *secrets.Cache[string]
}

// NewMemoryTokenStore creates an in-process token store. ttl bounds how long
// a token is reused before a fresh one is acquired.
func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{cache: secrets.NewCache[string](ttl)}
}

func (s *MemoryTokenStore) Get(_ context.Context, key string) (string, bool, error) {
	token, ok := s.cache.Get(key)
	return token, ok, nil
}

func (s *MemoryTokenStore) Put(_ context.Context, key, token string) error {
	s.cache.Put(key, token)
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, key string) error {
	s.cache.Bust(key)
	return nil
}

// tokenKeyPrefix namespaces BirdDog tokens in a shared Redis instance.
const tokenKeyPrefix = "birddog:token:"

// RedisTokenStore shares tokens across processes via Redis.
type RedisTokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisTokenStore creates a Redis-backed token store with the given TTL.
func NewRedisTokenStore(rdb *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, ttl: ttl}
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	token, err := s.rdb.Get(ctx, tokenKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("token store get: %w", err)
	}
	return token, true, nil
}

func (s *RedisTokenStore) Put(ctx context.Context, key, token string) error {
	return s.rdb.Set(ctx, tokenKeyPrefix+key, token, s.ttl).Err()
}

func (s *RedisTokenStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, tokenKeyPrefix+key).Err()
}

// TokenSource is an optional, purely additive token cache layered over
// AcquireAccessToken. Callers who want one acquisition per call can skip it
// and pass tokens themselves; behavior of the API operations is unchanged
// either way.
type TokenSource struct {
	logger *zap.Logger
	client *Client
	key    string
	creds  CredentialsFunc
	store  TokenStore
	mu     sync.Mutex
}

// NewTokenSource wires a token cache for one account. key scopes the cached
// token (e.g. the account name); creds is consulted only on cache misses.
func NewTokenSource(logger *zap.Logger, client *Client, key string, creds CredentialsFunc, store TokenStore) *TokenSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenSource{
		logger: logger,
		client: client,
		key:    key,
		creds:  creds,
		store:  store,
	}
}

// Token returns a cached access token, acquiring a fresh one on miss. Store
// read failures degrade to a fresh acquisition rather than failing the call;
// the cache is an optimization, not a dependency.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("birddog.token_store_get_failed",
			zap.String("key", s.key),
			zap.Error(err))
	} else if ok {
		return token, nil
	}

	creds, err := s.creds(ctx)
	if err != nil {
		return "", fmt.Errorf("birddog: resolve credentials for %q: %w", s.key, err)
	}

	token, err = s.client.AcquireAccessToken(ctx, creds)
	if err != nil {
		return "", err
	}

	if err := s.store.Put(ctx, s.key, token); err != nil {
		s.logger.Warn("birddog.token_store_put_failed",
			zap.String("key", s.key),
			zap.Error(err))
	}

	s.logger.Info("birddog.token_refreshed",
		zap.String("key", s.key),
		zap.String("token", utils.MaskToken(token)))

	return token, nil
}

// Invalidate drops the cached token, forcing the next Token call to acquire
// a fresh one. Useful after the remote API rejects a token with 401.
func (s *TokenSource) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, s.key)
}

package birddog

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func staticCreds(creds Credentials) CredentialsFunc {
	return func(context.Context) (Credentials, error) { return creds, nil }
}

// countingTokenClient returns a Client whose accesstoken endpoint hands out
// token-1, token-2, ... and a pointer to the call counter.
func countingTokenClient(t *testing.T) (*Client, *int) {
	t.Helper()
	calls := 0
	c := newTestClient(func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusOK, fmt.Sprintf(`{"token":"token-%d"}`, calls)), nil
	})
	return c, &calls
}

// ─── TokenSource with in-process store ───────────────────────────────────────

func TestTokenSource_FetchesOnMissThenCaches(t *testing.T) {
	client, calls := countingTokenClient(t)
	ts := NewTokenSource(zap.NewNop(), client, "acme",
		staticCreds(Credentials{APIKey: "k", UserName: "u", Password: "p"}),
		NewMemoryTokenStore(time.Hour))

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, *calls)

	token, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token, "second call must reuse the cached token")
	assert.Equal(t, 1, *calls, "no second acquisition while cached")
}

func TestTokenSource_InvalidateForcesReacquisition(t *testing.T) {
	client, calls := countingTokenClient(t)
	ts := NewTokenSource(zap.NewNop(), client, "acme",
		staticCreds(Credentials{APIKey: "k", UserName: "u", Password: "p"}),
		NewMemoryTokenStore(time.Hour))

	_, err := ts.Token(context.Background())
	require.NoError(t, err)
	require.NoError(t, ts.Invalidate(context.Background()))

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
	assert.Equal(t, 2, *calls)
}

func TestTokenSource_CredentialsErrorPropagates(t *testing.T) {
	client, calls := countingTokenClient(t)
	ts := NewTokenSource(zap.NewNop(), client, "acme",
		func(context.Context) (Credentials, error) {
			return Credentials{}, fmt.Errorf("secret not found")
		},
		NewMemoryTokenStore(time.Hour))

	_, err := ts.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve credentials")
	assert.Equal(t, 0, *calls, "no token request without credentials")
}

func TestTokenSource_AcquisitionErrorPropagates(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"message":"bad key"}`), nil
	})
	ts := NewTokenSource(zap.NewNop(), client, "acme",
		staticCreds(Credentials{APIKey: "bad", UserName: "u", Password: "p"}),
		NewMemoryTokenStore(time.Hour))

	_, err := ts.Token(context.Background())
	require.Error(t, err)
}

// ─── Redis-backed store ───────────────────────────────────────────────────────

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisTokenStore_SharesTokensAcrossSources(t *testing.T) {
	rdb := newTestRedis(t)
	store := NewRedisTokenStore(rdb, time.Hour)

	clientA, callsA := countingTokenClient(t)
	clientB, callsB := countingTokenClient(t)
	creds := staticCreds(Credentials{APIKey: "k", UserName: "u", Password: "p"})

	tsA := NewTokenSource(zap.NewNop(), clientA, "acme", creds, store)
	tsB := NewTokenSource(zap.NewNop(), clientB, "acme", creds, store)

	token, err := tsA.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	// Second source sees the shared token without its own acquisition.
	token, err = tsB.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, *callsA)
	assert.Equal(t, 0, *callsB)
}

func TestRedisTokenStore_MissAfterDelete(t *testing.T) {
	rdb := newTestRedis(t)
	store := NewRedisTokenStore(rdb, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "acme", "tok-1"))

	token, ok, err := store.Get(ctx, "acme")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Delete(ctx, "acme"))
	_, ok, err = store.Get(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisTokenStore_KeysAreNamespaced(t *testing.T) {
	rdb := newTestRedis(t)
	store := NewRedisTokenStore(rdb, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "acme", "tok-1"))

	val, err := rdb.Get(ctx, "birddog:token:acme").Result()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", val)
}

func TestTokenSource_StoreGetFailureDegradesToFreshToken(t *testing.T) {
	rdb := newTestRedis(t)
	// Point the client at a closed connection to force store errors.
	require.NoError(t, rdb.Close())
	store := NewRedisTokenStore(rdb, time.Hour)

	client, calls := countingTokenClient(t)
	ts := NewTokenSource(zap.NewNop(), client, "acme",
		staticCreds(Credentials{APIKey: "k", UserName: "u", Password: "p"}), store)

	token, err := ts.Token(context.Background())
	require.NoError(t, err, "a broken cache must not fail the call")
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, *calls)
}

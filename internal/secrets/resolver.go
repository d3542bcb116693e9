package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	pkgsecrets "github.com/arcoro/birddoghr-go/pkg/secrets"
)

// service is the trailing secret-name segment identifying BirdDog HR entries.
const service = "birddog"

// AWSResolver resolves per-account configuration from AWS Secrets Manager,
// caching results locally to reduce API calls. It is generic over the
// resolved type T so the same logic can serve credentials and any future
// per-account settings.
//
// Secret naming convention: {env}/{account}/birddog
type AWSResolver[T any] struct {
	logger   *zap.Logger
	env      string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[T]
}

// NewAWSResolver constructs a cached multi-account resolver.
func NewAWSResolver[T any](
	logger *zap.Logger,
	env string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[T],
) *AWSResolver[T] {
	return &AWSResolver[T]{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

// cacheKey builds the in-memory cache key for an account.
func (r *AWSResolver[T]) cacheKey(account string) string {
	return strings.ToLower(fmt.Sprintf("%s|%s", account, service))
}

// secretName builds the AWS Secrets Manager key for an account.
// Pattern: {env}/{account}/birddog
func (r *AWSResolver[T]) secretName(account string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", r.env, account, service))
}

// Resolve fetches or caches config T for a given account.
// parse extracts T from the raw secret map; it should validate required
// fields. A nil cache disables local retention entirely, which is required
// when T carries raw credentials.
func (r *AWSResolver[T]) Resolve(ctx context.Context, account string, parse func(map[string]string) (T, error)) (T, error) {
	key := r.cacheKey(account)

	if r.cache != nil {
		if cfg, ok := r.cache.Get(key); ok {
			return cfg, nil
		}
	}

	secretName := r.secretName(account)
	secretMap, err := r.provider.GetSecret(ctx, secretName)
	if err != nil {
		r.logger.Warn("aws.secret_fetch_failed",
			zap.String("key", secretName),
			zap.Error(err))
		var zero T
		return zero, fmt.Errorf("resolve account config for %q: %w", account, err)
	}

	cfg, err := parse(secretMap)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("parse secret %q: %w", secretName, err)
	}

	if r.cache != nil {
		r.cache.Put(key, cfg)
	}

	r.logger.Info("aws.account_config_resolved",
		zap.String("account", account),
	)
	return cfg, nil
}

// DiscoverAccounts lists all accounts that have BirdDog secrets configured.
// It searches for secrets matching the prefix "{env}/" and ending with
// "/birddog", then extracts account names from the middle segment.
func (r *AWSResolver[T]) DiscoverAccounts(ctx context.Context) ([]string, error) {
	prefix := strings.ToLower(fmt.Sprintf("%s/", r.env))
	suffix := "/" + service

	names, err := r.provider.ListSecrets(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("discover accounts: %w", err)
	}

	var accounts []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, suffix) {
			continue
		}
		// Extract account: "{env}/{account}/birddog" → account
		trimmed := strings.TrimPrefix(lower, prefix)
		trimmed = strings.TrimSuffix(trimmed, suffix)
		if trimmed != "" && !strings.Contains(trimmed, "/") {
			accounts = append(accounts, trimmed)
		}
	}

	r.logger.Info("aws.accounts_discovered",
		zap.Int("count", len(accounts)),
		zap.Strings("accounts", accounts),
	)
	return accounts, nil
}

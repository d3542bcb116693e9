package birddog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	intsecrets "github.com/arcoro/birddoghr-go/internal/secrets"
	pkgsecrets "github.com/arcoro/birddoghr-go/pkg/secrets"
)

// CredentialsResolver fetches BirdDog account credentials from AWS Secrets
// Manager at call time. Nothing is cached locally: the password exists in
// memory only between the secret fetch and the token request it feeds.
//
// Secret naming convention: {env}/{account}/birddog
// Secret JSON format:       {"api_key": "...", "user_name": "...", "password": "..."}
type CredentialsResolver struct {
	inner *intsecrets.AWSResolver[Credentials]
}

// NewCredentialsResolver constructs a resolver for the given environment.
func NewCredentialsResolver(logger *zap.Logger, env string, provider pkgsecrets.Provider) *CredentialsResolver {
	// nil cache: credentials must not be retained between calls.
	inner := intsecrets.NewAWSResolver[Credentials](logger, env, provider, nil)
	return &CredentialsResolver{inner: inner}
}

// Resolve fetches the Credentials for a given account.
func (r *CredentialsResolver) Resolve(ctx context.Context, account string) (Credentials, error) {
	return r.inner.Resolve(ctx, account, parseCredentials)
}

// DiscoverAccounts lists all accounts that have BirdDog secrets configured.
func (r *CredentialsResolver) DiscoverAccounts(ctx context.Context) ([]string, error) {
	return r.inner.DiscoverAccounts(ctx)
}

// CredentialsFunc adapts the resolver for use with a TokenSource: the secret
// is fetched immediately before each token acquisition.
func (r *CredentialsResolver) CredentialsFunc(account string) CredentialsFunc {
	return func(ctx context.Context) (Credentials, error) {
		return r.Resolve(ctx, account)
	}
}

// parseCredentials extracts Credentials from the raw AWS secret map.
func parseCredentials(m map[string]string) (Credentials, error) {
	creds := Credentials{
		APIKey:   m["api_key"],
		UserName: m["user_name"],
		Password: m["password"],
	}
	if creds.APIKey == "" {
		return Credentials{}, fmt.Errorf("missing required field 'api_key'")
	}
	if creds.UserName == "" {
		return Credentials{}, fmt.Errorf("missing required field 'user_name'")
	}
	if creds.Password == "" {
		return Credentials{}, fmt.Errorf("missing required field 'password'")
	}
	return creds, nil
}

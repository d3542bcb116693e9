package secrets

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgsecrets "github.com/arcoro/birddoghr-go/pkg/secrets"
)

type fakeProvider struct {
	secrets map[string]map[string]string
	calls   int
}

func (p *fakeProvider) GetSecret(_ context.Context, key string) (map[string]string, error) {
	p.calls++
	if m, ok := p.secrets[key]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("secret %q not found", key)
}

func (p *fakeProvider) ListSecrets(_ context.Context, prefix string) ([]string, error) {
	var names []string
	for name := range p.secrets {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names, nil
}

type accountSettings struct {
	Region string
}

func parseSettings(m map[string]string) (accountSettings, error) {
	if m["region"] == "" {
		return accountSettings{}, fmt.Errorf("missing required field 'region'")
	}
	return accountSettings{Region: m["region"]}, nil
}

func TestResolve_CachesWhenCacheProvided(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/acme/birddog": {"region": "us-east-2"},
	}}
	r := NewAWSResolver(zap.NewNop(), "uat", provider,
		pkgsecrets.NewCache[accountSettings](time.Minute))

	for i := 0; i < 3; i++ {
		cfg, err := r.Resolve(context.Background(), "acme", parseSettings)
		require.NoError(t, err)
		assert.Equal(t, "us-east-2", cfg.Region)
	}
	assert.Equal(t, 1, provider.calls, "repeat resolutions served from cache")
}

func TestResolve_NilCacheFetchesEveryTime(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/acme/birddog": {"region": "us-east-2"},
	}}
	r := NewAWSResolver[accountSettings](zap.NewNop(), "uat", provider, nil)

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background(), "acme", parseSettings)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, provider.calls)
}

func TestResolve_ParseFailureNotCached(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/acme/birddog": {"other": "field"},
	}}
	r := NewAWSResolver(zap.NewNop(), "uat", provider,
		pkgsecrets.NewCache[accountSettings](time.Minute))

	_, err := r.Resolve(context.Background(), "acme", parseSettings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")

	_, err = r.Resolve(context.Background(), "acme", parseSettings)
	require.Error(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestResolve_NormalizesSecretName(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/acme/birddog": {"region": "us-east-2"},
	}}
	r := NewAWSResolver[accountSettings](zap.NewNop(), "UAT", provider, nil)

	_, err := r.Resolve(context.Background(), "Acme", parseSettings)
	require.NoError(t, err)
}

func TestDiscoverAccounts_FiltersByEnvAndService(t *testing.T) {
	provider := &fakeProvider{secrets: map[string]map[string]string{
		"uat/acme/birddog":   {"region": "r"},
		"uat/globex/birddog": {"region": "r"},
		"uat/acme/payroll":   {"region": "r"},
		"prod/acme/birddog":  {"region": "r"},
	}}
	r := NewAWSResolver[accountSettings](zap.NewNop(), "uat", provider, nil)

	accounts, err := r.DiscoverAccounts(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme", "globex"}, accounts)
}

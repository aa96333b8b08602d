package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/cwiesse/horarios-api/pkg/errors"
)

type memoryCacheRepo struct {
	store map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{store: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.store {
		if strings.HasPrefix(key, prefix) {
			delete(m.store, key)
		}
	}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	svc.Set(context.Background(), "sessions:all", []string{"a", "b"})

	var got []string
	require.True(t, svc.Get(context.Background(), "sessions:all", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	svc.Invalidate(context.Background(), "sessions:*")
	assert.False(t, svc.Get(context.Background(), "sessions:all", &got))
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	svc.Set(context.Background(), "k", "v")
	assert.Empty(t, repo.store)

	var got string
	assert.False(t, svc.Get(context.Background(), "k", &got))
}

func TestCacheServiceNilSafe(t *testing.T) {
	var svc *CacheService

	assert.False(t, svc.Enabled())
	assert.False(t, svc.Get(context.Background(), "k", nil))
	svc.Set(context.Background(), "k", "v")
	svc.Invalidate(context.Background(), "k:*")
}

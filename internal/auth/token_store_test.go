package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttl[key] = ttl
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestTokenStore_RefreshLifecycle(t *testing.T) {
	kv := newMemoryKV()
	store := NewTokenStore(kv)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "jti-1", "user-1", time.Hour))
	assert.Equal(t, time.Hour, kv.ttl["refresh_token:jti-1"])

	userID, err := store.GetRefreshToken(ctx, "jti-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, store.DeleteRefreshToken(ctx, "jti-1"))
	_, err = store.GetRefreshToken(ctx, "jti-1")
	assert.Error(t, err)
}

func TestTokenStore_Blacklist(t *testing.T) {
	kv := newMemoryKV()
	store := NewTokenStore(kv)
	ctx := context.Background()

	blacklisted, err := store.IsAccessTokenBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, store.BlacklistAccessToken(ctx, "jti-2", time.Minute))
	blacklisted, err = store.IsAccessTokenBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	require.NoError(t, store.BlacklistAccessToken(ctx, "jti-3", 0))
	_, ok := kv.data["blacklist:access_token:jti-3"]
	assert.False(t, ok, "expired tokens are not stored")
}

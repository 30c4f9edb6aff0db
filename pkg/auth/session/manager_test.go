package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
	ttl    map[string]time.Duration
	failOn error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memoryKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.values[key] = string(v)
	default:
		m.values[key] = fmt.Sprint(v)
	}
	m.ttl[key] = ttl
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return "", m.failOn
	}
	v, ok := m.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memoryKV) AccessSessionKey(id string) string { return "s:" + id }

func testManager(t *testing.T, kv *memoryKV) *Manager {
	t.Helper()
	m, err := newManager(kv, 2*time.Hour)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return m
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	m := testManager(t, kv)

	id, err := m.Create(ctx, "  owner@haven.test ")
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 2*time.Hour, kv.ttl["s:"+id])

	var stored record
	require.NoError(t, json.Unmarshal([]byte(kv.values["s:"+id]), &stored))
	assert.Equal(t, "owner@haven.test", stored.Email)
	assert.Equal(t, 2026, stored.CreatedAt.Year())

	live, err := m.HasSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, live)

	owner, err := m.Owner(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "owner@haven.test", owner)

	require.NoError(t, m.Revoke(ctx, id))
	live, err = m.HasSession(ctx, id)
	require.NoError(t, err)
	assert.False(t, live)
	_, err = m.Owner(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.NoError(t, m.Revoke(ctx, id), "revoking twice is harmless")
}

func TestSessionBlankInput(t *testing.T) {
	m := testManager(t, newMemoryKV())
	ctx := context.Background()

	_, err := m.Create(ctx, " ")
	assert.Error(t, err)
	_, err = m.HasSession(ctx, "")
	assert.Error(t, err)
	assert.Error(t, m.Revoke(ctx, " "))
	_, err = m.Owner(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionCorruptEntryCountsAsMissing(t *testing.T) {
	kv := newMemoryKV()
	kv.values["s:broken"] = "owner@haven.test"
	m := testManager(t, kv)

	live, err := m.HasSession(context.Background(), "broken")
	require.NoError(t, err)
	assert.False(t, live)
}

func TestSessionStoreFailureSurfaces(t *testing.T) {
	kv := newMemoryKV()
	kv.failOn = errors.New("redis down")
	m := testManager(t, kv)

	_, err := m.HasSession(context.Background(), "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
	assert.Contains(t, err.Error(), "redis down")
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{Secret: "s", ExpirationMinutes: 5})
	assert.Error(t, err)

	_, err = newManager(newMemoryKV(), 0)
	assert.Error(t, err)
}

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{cmd: mock}

	res, err := client.FixedWindowAllow(ctx, "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.Count)
	assert.Equal(t, int64(1), res.Remaining())
	assert.Equal(t, time.Minute, res.ResetIn)
	require.Len(t, mock.expireCalls, 1, "expire set on first increment")

	mock.ttl = 42 * time.Second
	res, err = client.FixedWindowAllow(ctx, "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(0), res.Remaining())
	assert.Equal(t, 42*time.Second, res.ResetIn)
	assert.Len(t, mock.expireCalls, 1, "expire should not be set again")

	res, err = client.FixedWindowAllow(ctx, "ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestFixedWindowRepairsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{cmd: mock}

	_, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)

	mock.ttl = -1
	res, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, res.ResetIn)
	require.Len(t, mock.expireCalls, 2, "expiry re-applied when the key has none")
	assert.Equal(t, "haven:rate_limit:login:ip:1.2.3.4", mock.expireCalls[1].key)
}

func TestSessionKeyLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &Client{cmd: newMockCmdable()}
	key := client.AccessSessionKey("jti-1")

	require.NoError(t, client.Set(ctx, key, "owner@haven.test", 10*time.Minute))
	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "owner@haven.test", got)

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.True(t, IsNil(err), "expected redis.Nil after delete, got %v", err)
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "haven:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	assert.Equal(t, "haven:rate_limit:scope", client.RateLimitKey("scope"))
	assert.Equal(t, "haven:session:access:abc", client.AccessSessionKey("abc"))
	assert.Equal(t, "haven:idempotency:id", client.IdempotencyKey(" ", "id"), "empty parts are skipped")
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.Ping(context.Background()))
	_, err := client.IncrWithTTL(context.Background(), "k", time.Second)
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/3", PoolSize: 7})
	require.NoError(t, err)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
}

var _ commands = (*mockCmdable)(nil)

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	ttl         time.Duration
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) TTL(context.Context, string) *redis.DurationCmd {
	return redis.NewDurationResult(m.ttl, nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

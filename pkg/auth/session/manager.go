package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	redisclient "github.com/havenfurnitures/storefront-api/pkg/redis"
)

var (
	// ErrSessionNotFound means the access id is unknown, revoked or expired.
	ErrSessionNotFound = errors.New("session not found")

	errBlankAccessID = errors.New("access id is required")
)

// backend is the part of the Redis client sessions are stored through.
type backend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is what the auth middleware consults on every request.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// record is the JSON value kept under each session key.
type record struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Manager keeps one Redis entry per admin login. The key is derived from the
// access token jti and expires together with the token.
type Manager struct {
	kv  backend
	ttl time.Duration
	now func() time.Time
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("session manager needs a redis client")
	}
	return newManager(client, cfg.AccessTTL())
}

func newManager(kv backend, ttl time.Duration) (*Manager, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &Manager{kv: kv, ttl: ttl, now: time.Now}, nil
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Create opens a session for email and returns the new access id.
func (m *Manager) Create(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("session owner email is required")
	}
	payload, err := json.Marshal(record{Email: email, CreatedAt: m.now().UTC()})
	if err != nil {
		return "", err
	}
	id := NewAccessID()
	if err := m.kv.Set(ctx, m.kv.AccessSessionKey(id), payload, m.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

func (m *Manager) load(ctx context.Context, accessID string) (record, error) {
	raw, err := m.kv.Get(ctx, m.kv.AccessSessionKey(accessID))
	if redisclient.IsNil(err) {
		return record{}, ErrSessionNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("load session: %w", err)
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Email == "" {
		// Unreadable entries count as missing.
		return record{}, ErrSessionNotFound
	}
	return rec, nil
}

// Owner returns the admin email bound to accessID.
func (m *Manager) Owner(ctx context.Context, accessID string) (string, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return "", ErrSessionNotFound
	}
	rec, err := m.load(ctx, accessID)
	if err != nil {
		return "", err
	}
	return rec.Email, nil
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return false, errBlankAccessID
	}
	_, err := m.load(ctx, accessID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrSessionNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Revoke ends the session. Revoking an unknown id is not an error.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	accessID = strings.TrimSpace(accessID)
	if accessID == "" {
		return errBlankAccessID
	}
	return m.kv.Del(ctx, m.kv.AccessSessionKey(accessID))
}

// NewAccessID mints the jti shared by a token and its session key.
func NewAccessID() string {
	return uuid.NewString()
}

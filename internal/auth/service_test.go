package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgAuth "github.com/havenfurnitures/storefront-api/pkg/auth"
	"github.com/havenfurnitures/storefront-api/pkg/auth/session"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/security"
)

var testJWT = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "haven-furnitures",
	ExpirationMinutes: 30,
}

func TestLoginMintsTokenBoundToSession(t *testing.T) {
	sessions := newStubSessions()
	svc := buildTestService(t, sessions)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Owner@Haven.test ", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", claims.Role)
	}
	if claims.Email != "owner@haven.test" {
		t.Fatalf("expected normalized email claim, got %s", claims.Email)
	}
	if owner := sessions.data[claims.ID]; owner != "owner@haven.test" {
		t.Fatalf("expected session keyed by jti, got %q", owner)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("unexpected token type %q", resp.TokenType)
	}
	if got := resp.ExpiresAt.Sub(claims.IssuedAt.Time); got != 30*time.Minute {
		t.Fatalf("expected 30m lifetime, got %s", got)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	sessions := newStubSessions()
	svc := buildTestService(t, sessions)

	cases := []LoginRequest{
		{Email: "owner@haven.test", Password: "wrong"},
		{Email: "intruder@haven.test", Password: "correct horse"},
		{Email: "", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", req.Email, err)
		}
	}
	if len(sessions.data) != 0 {
		t.Fatalf("no session should be created, got %d", len(sessions.data))
	}
}

func TestLoginSessionStoreFailure(t *testing.T) {
	sessions := newStubSessions()
	sessions.err = errors.New("redis down")
	svc := buildTestService(t, sessions)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "owner@haven.test", Password: "correct horse"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestSessionAndLogout(t *testing.T) {
	sessions := newStubSessions()
	svc := buildTestService(t, sessions)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "owner@haven.test", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWT, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	admin, err := svc.Session(ctx, claims.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if admin.Email != "owner@haven.test" || admin.Role != enums.RoleAdmin {
		t.Fatalf("unexpected admin %+v", admin)
	}

	if err := svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Session(ctx, claims.ID); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
	if err := svc.Logout(ctx, ""); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for empty id, got %v", err)
	}
}

func TestNewServiceRequiresAdmin(t *testing.T) {
	if _, err := NewService(ServiceParams{SessionManager: newStubSessions(), JWTConfig: testJWT}); err == nil {
		t.Fatalf("expected error without admin config")
	}
	if _, err := NewService(ServiceParams{Admin: config.AdminConfig{Email: "a@b.c", PasswordHash: "x"}}); err == nil {
		t.Fatalf("expected error without session manager")
	}
}

func buildTestService(t *testing.T, sessions *stubSessions) Service {
	t.Helper()
	hash, err := security.HashPassword("correct horse", config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Admin:          config.AdminConfig{Email: "owner@haven.test", PasswordHash: hash},
		SessionManager: sessions,
		JWTConfig:      testJWT,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubSessions struct {
	data map[string]string
	err  error
}

func newStubSessions() *stubSessions {
	return &stubSessions{data: map[string]string{}}
}

func (s *stubSessions) Create(_ context.Context, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	id := session.NewAccessID()
	s.data[id] = email
	return id, nil
}

func (s *stubSessions) Owner(_ context.Context, accessID string) (string, error) {
	owner, ok := s.data[accessID]
	if !ok {
		return "", session.ErrSessionNotFound
	}
	return owner, nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	delete(s.data, accessID)
	return nil
}

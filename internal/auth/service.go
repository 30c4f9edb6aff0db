package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/havenfurnitures/storefront-api/pkg/auth"
	"github.com/havenfurnitures/storefront-api/pkg/auth/session"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	sessionExpiredMessage     = "session expired"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, accessID string) error
	Session(ctx context.Context, accessID string) (*AdminDTO, error)
}

type sessionManager interface {
	Create(ctx context.Context, email string) (string, error)
	Owner(ctx context.Context, accessID string) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Admin          config.AdminConfig
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

type service struct {
	adminEmail   string
	passwordHash string
	session      sessionManager
	jwtCfg       config.JWTConfig
	now          func() time.Time
}

// NewService constructs the admin login service.
func NewService(params ServiceParams) (Service, error) {
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	email := normalizeEmail(params.Admin.Email)
	if email == "" {
		return nil, fmt.Errorf("admin email is required")
	}
	if strings.TrimSpace(params.Admin.PasswordHash) == "" {
		return nil, fmt.Errorf("admin password hash is required")
	}
	return &service{
		adminEmail:   email,
		passwordHash: strings.TrimSpace(params.Admin.PasswordHash),
		session:      params.SessionManager,
		jwtCfg:       params.JWTConfig,
		now:          time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	emailMatches := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	// The hash is always checked so unknown emails cost the same as bad passwords.
	passwordMatches, err := security.VerifyPassword(req.Password, s.passwordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !emailMatches || !passwordMatches {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	accessID, err := s.session.Create(ctx, s.adminEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session")
	}

	now := s.now().UTC().Truncate(time.Second)
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		Email: s.adminEmail,
		Role:  enums.RoleAdmin,
		JTI:   accessID,
	})
	if err != nil {
		_ = s.session.Revoke(ctx, accessID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   now.Add(s.jwtCfg.AccessTTL()),
		Admin:       AdminDTO{Email: s.adminEmail, Role: enums.RoleAdmin},
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Session resolves the administrator behind a live session.
func (s *service) Session(ctx context.Context, accessID string) (*AdminDTO, error) {
	owner, err := s.session.Owner(ctx, accessID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	if normalizeEmail(owner) != s.adminEmail {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, sessionExpiredMessage)
	}
	return &AdminDTO{Email: s.adminEmail, Role: enums.RoleAdmin}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

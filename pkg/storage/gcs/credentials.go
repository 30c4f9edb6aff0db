package gcs

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

const (
	storageScope      = "https://www.googleapis.com/auth/devstorage.read_write"
	defaultTokenURI   = "https://oauth2.googleapis.com/token"
	metadataTokenURL  = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	jwtBearerGrant    = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime = time.Hour
	refreshMargin     = time.Minute
)

type accessTokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// tokenFetcher performs one round trip for a fresh token.
type tokenFetcher func(ctx context.Context) (token string, expiresAt time.Time, err error)

// cachedSource hands out the last token until it is within refreshMargin of
// expiring.
type cachedSource struct {
	fetch tokenFetcher
	now   func() time.Time

	mu        sync.Mutex
	current   string
	expiresAt time.Time
}

func newCachedSource(fetch tokenFetcher) *cachedSource {
	return &cachedSource{fetch: fetch, now: time.Now}
}

func (s *cachedSource) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != "" && s.expiresAt.Sub(s.now()) > refreshMargin {
		return s.current, nil
	}
	tok, exp, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.current, s.expiresAt = tok, exp
	return tok, nil
}

func credentialsFromConfig(hc *http.Client, gcp config.GCPConfig) (accessTokenSource, error) {
	var raw []byte
	switch {
	case strings.TrimSpace(gcp.CredentialsJSON) != "":
		raw = []byte(gcp.CredentialsJSON)
	case strings.TrimSpace(gcp.ApplicationCredentials) != "":
		b, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("gcs: read credentials file: %w", err)
		}
		raw = b
	default:
		return metadataSource(hc), nil
	}
	src, err := serviceAccountSource(hc, raw)
	if err != nil {
		return nil, err
	}
	return src, nil
}

type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// serviceAccountSource trades a self-signed RS256 assertion for an access
// token (the OAuth two-legged JWT bearer flow).
func serviceAccountSource(hc *http.Client, raw []byte) (*cachedSource, error) {
	var key serviceAccountKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("gcs: parse service account: %w", err)
	}
	if key.ClientEmail == "" || key.PrivateKey == "" {
		return nil, errors.New("gcs: service account needs client_email and private_key")
	}
	if key.TokenURI == "" {
		key.TokenURI = defaultTokenURI
	}
	signer, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(key.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("gcs: parse private key: %w", err)
	}

	return newCachedSource(func(ctx context.Context) (string, time.Time, error) {
		assertion, err := assertionFor(key, signer, time.Now())
		if err != nil {
			return "", time.Time{}, err
		}
		form := url.Values{"grant_type": {jwtBearerGrant}, "assertion": {assertion}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, key.TokenURI, strings.NewReader(form.Encode()))
		if err != nil {
			return "", time.Time{}, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return redeem(hc, req)
	}), nil
}

// metadataSource asks the GCE/Cloud Run metadata server for the attached
// service account's token.
func metadataSource(hc *http.Client) *cachedSource {
	return newCachedSource(func(ctx context.Context) (string, time.Time, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataTokenURL, nil)
		if err != nil {
			return "", time.Time{}, err
		}
		req.Header.Set("Metadata-Flavor", "Google")
		return redeem(hc, req)
	})
}

type assertionClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func assertionFor(key serviceAccountKey, signer *rsa.PrivateKey, now time.Time) (string, error) {
	claims := assertionClaims{
		Scope: storageScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    key.ClientEmail,
			Audience:  jwt.ClaimStrings{key.TokenURI},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
		},
	}
	out, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(signer)
	if err != nil {
		return "", fmt.Errorf("gcs: sign assertion: %w", err)
	}
	return out, nil
}

func redeem(hc *http.Client, req *http.Request) (string, time.Time, error) {
	issued := time.Now()
	res, err := hc.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("gcs: token request: %w", err)
	}
	defer drain(res)
	if res.StatusCode != http.StatusOK {
		return "", time.Time{}, responseError("token exchange", res)
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(res.Body).Decode(&grant); err != nil {
		return "", time.Time{}, fmt.Errorf("gcs: decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", time.Time{}, errors.New("gcs: token response has no access_token")
	}
	return grant.AccessToken, issued.Add(time.Duration(grant.ExpiresIn) * time.Second), nil
}

// Package oidc verifies identity-provider tokens against the provider's
// published key set and fetches profile data from its userinfo endpoint.
//
// Every failure is reported as (nil, false); the cause is only logged.
package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const (
	defaultAlgorithm = "RS256"
	defaultTimeout   = 5 * time.Second
)

// Claims is the subset of an identity the resolver cares about. Empty
// strings mean the provider did not assert the field.
type Claims struct {
	Subject  string
	Email    string
	Name     string
	Nickname string
}

// Config describes the identity provider.
type Config struct {
	Domain   string
	Audience string
	// Scheme for issuer, JWKS and userinfo URLs; "https" when empty.
	Scheme     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Verifier struct {
	domain   string
	audience string
	scheme   string
	timeout  time.Duration
	client   *http.Client
	log      logging.Logger
}

func NewVerifier(cfg Config, log logging.Logger) *Verifier {
	v := &Verifier{
		domain:   cfg.Domain,
		audience: cfg.Audience,
		scheme:   cfg.Scheme,
		timeout:  cfg.Timeout,
		client:   cfg.HTTPClient,
		log:      log.With("module", "oidc"),
	}
	if v.scheme == "" {
		v.scheme = "https"
	}
	if v.timeout <= 0 {
		v.timeout = defaultTimeout
	}
	if v.client == nil {
		v.client = &http.Client{}
	}
	return v
}

// Enabled reports whether both domain and audience are configured.
func (v *Verifier) Enabled() bool {
	return v.domain != "" && v.audience != ""
}

// Provider names the identity provider for subject links.
func (v *Verifier) Provider() string {
	return v.domain
}

func (v *Verifier) Issuer() string {
	return fmt.Sprintf("%s://%s/", v.scheme, v.domain)
}

func (v *Verifier) JWKSURL() string {
	return v.Issuer() + ".well-known/jwks.json"
}

func (v *Verifier) UserInfoURL() string {
	return v.Issuer() + "userinfo"
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// Verify checks signature, audience, issuer and expiry of raw.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, bool) {
	if !v.Enabled() {
		return nil, false
	}

	claims, err := v.verify(ctx, raw)
	if err != nil {
		v.log.Warn(ctx, "external token rejected", "error", err)
		return nil, false
	}
	return claims, true
}

func (v *Verifier) verify(ctx context.Context, raw string) (*Claims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(raw, &tokenClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token header missing kid")
	}

	fetchCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	set, err := jwk.Fetch(fetchCtx, v.JWKSURL(), jwk.WithHTTPClient(v.client))
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	key, found := set.LookupKeyID(kid)
	if !found {
		return nil, fmt.Errorf("key id %q not found in jwks", kid)
	}

	alg := defaultAlgorithm
	if a, ok := key.Algorithm(); ok && a.String() != "" {
		alg = a.String()
	}

	var rawKey any
	if err := jwk.Export(key, &rawKey); err != nil {
		return nil, fmt.Errorf("export key: %w", err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{alg}),
		jwt.WithAudience(v.audience),
		jwt.WithIssuer(v.Issuer()),
		jwt.WithExpirationRequired(),
	)

	var tc tokenClaims
	if _, err := parser.ParseWithClaims(raw, &tc, func(*jwt.Token) (any, error) {
		return rawKey, nil
	}); err != nil {
		return nil, err
	}

	return &Claims{
		Subject:  tc.Subject,
		Email:    tc.Email,
		Name:     tc.Name,
		Nickname: tc.Nickname,
	}, nil
}

type userInfo struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
}

// UserInfo asks the provider for the profile behind accessToken.
func (v *Verifier) UserInfo(ctx context.Context, accessToken string) (*Claims, bool) {
	if !v.Enabled() {
		return nil, false
	}

	claims, err := v.userInfo(ctx, accessToken)
	if err != nil {
		v.log.Debug(ctx, "userinfo lookup failed", "error", err)
		return nil, false
	}
	return claims, true
}

func (v *Verifier) userInfo(ctx context.Context, accessToken string) (*Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.UserInfoURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var ui userInfo
	if err := json.NewDecoder(resp.Body).Decode(&ui); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return &Claims{Subject: ui.Sub, Email: ui.Email, Name: ui.Name, Nickname: ui.Nickname}, nil
}

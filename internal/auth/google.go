package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// googleIssuers are the issuer values Google puts in ID tokens
var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// Claims are the verified identity claims of a Google ID token
type Claims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

// GoogleVerifier verifies Google Identity Services credentials against the
// provider's published signing keys
type GoogleVerifier struct {
	clientID   string
	jwksURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	expiresAt time.Time

	// lastForced is when a fresh cache was last refetched for an unknown kid
	lastForced time.Time
}

// JWK represents a JSON Web Key
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
	Alg string `json:"alg"`
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

const (
	jwksCacheTTL = time.Hour

	// jwksMinRefresh limits refetches of a fresh cache caused by unknown kids
	jwksMinRefresh = time.Minute
)

// NewGoogleVerifier creates a verifier for tokens issued to clientID
func NewGoogleVerifier(clientID, jwksURL string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:   clientID,
		jwksURL:    jwksURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		keys:       make(map[string]*rsa.PublicKey),
	}
}

// Verify checks the credential's RS256 signature, issuer, audience and
// expiry, and only then returns its claims
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (*Claims, error) {
	if v.clientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}

	var claims googleClaims
	_, err := jwt.ParseWithClaims(credential, &claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		return v.publicKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	if !containsString(googleIssuers, claims.Issuer) {
		return nil, fmt.Errorf("invalid issuer: %s", claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &Claims{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// publicKey retrieves the signing key for kid, refreshing the cache when it has expired
func (v *GoogleVerifier) publicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	if time.Now().Before(v.expiresAt) {
		if key, ok := v.keys[kid]; ok {
			v.mu.RUnlock()
			return key, nil
		}
	}
	v.mu.RUnlock()

	if err := v.refreshJWKS(ctx, kid); err != nil {
		return nil, err
	}

	v.mu.RLock()
	key, ok := v.keys[kid]
	v.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("key not found: %s", kid)
	}
	return key, nil
}

// refreshJWKS fetches the key set when the cache has expired, or when it is
// fresh but lacks kid and no such refetch happened within jwksMinRefresh
func (v *GoogleVerifier) refreshJWKS(ctx context.Context, kid string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.Before(v.expiresAt) {
		// Another caller may have refreshed while we waited for the lock
		if _, ok := v.keys[kid]; ok {
			return nil
		}
		if now.Sub(v.lastForced) < jwksMinRefresh {
			return nil
		}
		v.lastForced = now
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("jwks request failed: %d: %s", resp.StatusCode, string(body))
	}

	var set JWKS
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey)
	for _, k := range set.Keys {
		if k.Kty != "RSA" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		key, err := parseRSAPublicKey(k)
		if err != nil {
			log.Printf("Warning: failed to parse JWKS key %s: %v", k.Kid, err)
			continue
		}
		keys[k.Kid] = key
	}
	if len(keys) == 0 {
		return errors.New("jwks contained no valid keys")
	}

	v.keys = keys
	v.expiresAt = time.Now().Add(jwksCacheTTL)
	return nil
}

func parseRSAPublicKey(k JWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode n: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode e: %w", err)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e == 0 {
		return nil, errors.New("zero exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

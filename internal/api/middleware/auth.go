// Package middleware's auth.go validates the bearer JWT per §6's auth
// contract, grounded on hubenschmidt-pina-colada's Auth0 JWKS middleware
// (internal/middleware/auth.go), adapted to echo and to this spec's own
// claim set (aud="authenticated", issued-within-24h, email-confirmed).
package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"jobscout/pkg/apperrors"
)

const (
	contextOwnerID = "owner_id"
	requiredAudience = "authenticated"
)

// Claims is the subset of claims this service validates.
type Claims struct {
	jwt.RegisteredClaims
	EmailConfirmed bool `json:"email_confirmed"`
}

// jwksCache memoizes the issuer's key set; refreshed lazily on lookup miss.
type jwksCache struct {
	mu     sync.RWMutex
	issuer string
	set    jwk.Set
}

func newJWKSCache() *jwksCache { return &jwksCache{} }

func (c *jwksCache) get(issuerURL string) (jwk.Set, error) {
	c.mu.RLock()
	if c.set != nil && c.issuer == issuerURL {
		defer c.mu.RUnlock()
		return c.set, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.set != nil && c.issuer == issuerURL {
		return c.set, nil
	}

	set, err := jwk.Fetch(context.Background(), issuerURL+"/.well-known/jwks.json")
	if err != nil {
		return nil, err
	}
	c.set = set
	c.issuer = issuerURL
	return set, nil
}

// Auth validates bearer tokens against issuerURL's JWKS and requires
// every claim in §6's auth contract. On success it stores the subject in
// echo.Context under contextOwnerID.
func Auth(issuerURL string) echo.MiddlewareFunc {
	cache := newJWKSCache()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractBearerToken(c)
			if err != nil {
				return unauthenticated(c, err.Error())
			}

			claims, err := validateToken(token, issuerURL, cache)
			if err != nil {
				return unauthenticated(c, "invalid token")
			}

			c.Set(contextOwnerID, claims.Subject)
			return next(c)
		}
	}
}

// OptionalAuth validates a bearer token when present but never rejects its
// absence; used for /scraper/quick.
func OptionalAuth(issuerURL string) echo.MiddlewareFunc {
	cache := newJWKSCache()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := extractBearerToken(c)
			if err != nil {
				return next(c)
			}
			if claims, err := validateToken(token, issuerURL, cache); err == nil {
				c.Set(contextOwnerID, claims.Subject)
			}
			return next(c)
		}
	}
}

// OwnerID retrieves the authenticated subject, or "" if unauthenticated.
func OwnerID(c echo.Context) string {
	if v, ok := c.Get(contextOwnerID).(string); ok {
		return v
	}
	return ""
}

func extractBearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("token is empty")
	}
	return token, nil
}

func validateToken(tokenString, issuerURL string, cache *jwksCache) (*Claims, error) {
	set, err := cache.get(issuerURL)
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("kid not found in token header")
		}
		key, found := set.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("key not found for kid: %s", kid)
		}
		var rawKey interface{}
		if err := key.Raw(&rawKey); err != nil {
			return nil, err
		}
		return rawKey, nil
	}, jwt.WithAudience(requiredAudience), jwt.WithIssuer(issuerURL), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing sub claim")
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > 24*time.Hour {
		return nil, fmt.Errorf("token issued more than 24h ago")
	}
	if !claims.EmailConfirmed {
		return nil, fmt.Errorf("email not confirmed")
	}

	return claims, nil
}

func unauthenticated(c echo.Context, reason string) error {
	appErr := apperrors.NewUnauthenticatedError(reason)
	return c.JSON(appErr.Kind.StatusCode(), map[string]string{"error": appErr.PublicMessage()})
}

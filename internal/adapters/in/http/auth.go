package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "fulfillment.actor"

var signingMethod = jwt.SigningMethodHS256

// Claims is the bearer token issued by the identity provider. The subject is
// the actor id; role is trusted as issued.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 bearer tokens against a shared secret.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) (*TokenVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Mint signs a token for actor valid for ttl. It is used by tooling and tests;
// production tokens come from the identity provider.
func (v *TokenVerifier) Mint(actor kernel.Actor, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: actor.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID().String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// Actor validates token and returns the actor it identifies.
// The system role is reserved for in-process work and never accepted from a token.
func (v *TokenVerifier) Actor(token string) (kernel.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...); err != nil {
		return kernel.Actor{}, err
	}

	role := kernel.Role(claims.Role)
	if role == kernel.RoleSystem {
		return kernel.Actor{}, errors.New("system role cannot be asserted by a token")
	}
	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

// Authenticate resolves the bearer token into a kernel.Actor stored on the
// echo context. Requests without a valid token are rejected with 401.
func Authenticate(verifier *TokenVerifier, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			token, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok {
				token, ok = strings.CutPrefix(raw, "bearer ")
			}
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			actor, err := verifier.Actor(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid bearer token").SetInternal(err)
			}

			c.Set(actorContextKey, actor)
			if log != nil {
				ctx := log.WithActor(c.Request().Context(), actor.ID().String(), actor.Role().String())
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorContextKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing actor")
	}
	return actor, nil
}

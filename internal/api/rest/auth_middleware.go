package rest

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
)

// RoleAdmin may trigger cross-check runs.
const RoleAdmin = "admin"

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   []byte
	Issuer      string
	TokenExpiry time.Duration
}

// Claims represents JWT claims
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

const contextKeyClaims contextKey = "claims"

// ClaimsFromContext returns the claims of an authenticated request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKeyClaims).(*Claims)
	return c, ok
}

// AuthMiddleware provides HMAC signed JWT bearer authentication
type AuthMiddleware struct {
	config *AuthConfig
	base   *BaseHandler
	tracer trace.Tracer
}

// NewAuthMiddleware creates a new auth middleware. Without a secret every
// protected request is rejected.
func NewAuthMiddleware(config *AuthConfig, base *BaseHandler) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
		base:   base,
		tracer: otel.Tracer("api.rest.auth"),
	}
}

// Require returns middleware that admits tokens carrying role. An empty role
// admits any valid token.
func (a *AuthMiddleware) Require(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := a.tracer.Start(r.Context(), "auth.middleware",
				trace.WithAttributes(attribute.String("auth.required_role", role)))
			defer span.End()

			token, err := extractToken(r)
			if err != nil {
				span.RecordError(err)
				a.base.WriteError(w, r, errors.NewUnauthorizedError("Invalid authorization header"))
				return
			}

			claims, err := a.ValidateToken(token)
			if err != nil {
				span.RecordError(err)
				a.base.WriteError(w, r, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			if role != "" && claims.Role != role {
				a.base.WriteError(w, r, errors.NewForbiddenError("Insufficient permissions"))
				return
			}

			span.SetAttributes(attribute.String("auth.subject", claims.Subject))
			ctx = context.WithValue(ctx, contextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ValidateToken checks the signature, issuer and expiry of token.
func (a *AuthMiddleware) ValidateToken(token string) (*Claims, error) {
	if len(a.config.JWTSecret) == 0 {
		return nil, stderrors.New("authentication is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.Issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.config.JWTSecret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, stderrors.New("token is not valid")
	}
	return claims, nil
}

// IssueToken signs a token for subject with role.
func (a *AuthMiddleware) IssueToken(subject, role string) (string, error) {
	if len(a.config.JWTSecret) == 0 {
		return "", stderrors.New("authentication is not configured")
	}
	expiry := a.config.TokenExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    a.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.config.JWTSecret)
}

func extractToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", stderrors.New("missing authorization header")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", stderrors.New("authorization header must be Bearer")
	}
	return strings.TrimSpace(token), nil
}

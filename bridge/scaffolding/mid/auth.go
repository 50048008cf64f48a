package mid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrazmi/tasktracker/bridge/scaffolding/errs"
	"github.com/jrazmi/tasktracker/infrastructure/web"
)

// Set of errors returned while verifying a bearer token.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// AuthConfig holds the token verification settings.
type AuthConfig struct {
	Secret   string `env:"AUTH_JWT_SECRET" required:"true"`
	Issuer   string `env:"AUTH_JWT_ISSUER" default:"tasktracker"`
	Audience string `env:"AUTH_JWT_AUDIENCE" default:"tasktracker-api"`
}

// Authenticator verifies HS256 tokens and extracts the owner id from the
// subject claim. No clock skew is tolerated.
type Authenticator struct {
	secret   []byte
	issuer   string
	audience string
	parser   *jwt.Parser
}

// NewAuthenticator constructs an Authenticator from cfg.
func NewAuthenticator(cfg AuthConfig) *Authenticator {
	return &Authenticator{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(0),
		),
	}
}

// Issue signs a token for subject valid for ttl.
func (a *Authenticator) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.issuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{a.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Subject validates tokenString and returns its subject.
func (a *Authenticator) Subject(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := a.parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Authenticate rejects requests without a valid bearer token and stores the
// token subject as the owner id.
func Authenticate(a *Authenticator) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			tokenString, err := bearerToken(r)
			if err != nil {
				return errs.New(errs.Unauthenticated, err)
			}

			subject, err := a.Subject(tokenString)
			if err != nil {
				return errs.New(errs.Unauthenticated, err)
			}

			return next(setOwnerID(ctx, subject), r)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

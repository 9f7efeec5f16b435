package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bitfsorg/libmint-go/account"
)

// DefaultIssuer is the issuer claim of tokens minted by this service.
const DefaultIssuer = "mintd"

// Claims are the access token claims. The subject is the caller account.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// NewTokenService returns a TokenService signing with key.
func NewTokenService(key []byte, issuer string) *TokenService {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenService{signingKey: key, issuer: issuer, now: time.Now}
}

// IssueToken returns a signed token naming caller, valid for ttl.
func (s *TokenService) IssueToken(caller account.ID, ttl time.Duration) (string, error) {
	if err := caller.Validate(); err != nil {
		return "", err
	}
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})
	return t.SignedString(s.signingKey)
}

// Verify checks the token and returns the caller it names.
func (s *TokenService) Verify(tokenString string) (account.ID, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	caller, err := account.Parse(claims.Subject)
	if err != nil {
		return "", fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	return caller, nil
}

type callerKey struct{}

// CallerFrom returns the authenticated caller stored by RequireAuth.
func CallerFrom(ctx context.Context) (account.ID, bool) {
	id, ok := ctx.Value(callerKey{}).(account.ID)
	return id, ok
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the request context.
func RequireAuth(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				logger.WarnContext(ctx, "unauthorized request", "path", r.URL.Path, "reason", "missing token")
				writeError(w, ErrMissingToken)
				return
			}
			caller, err := tokens.Verify(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized request", "path", r.URL.Path, "error", err)
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, callerKey{}, caller)))
		})
	}
}

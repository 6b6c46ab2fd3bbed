package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicbase/patients-be/internal/models"
)

// ErrInvalidToken is returned for every verification failure: bad
// signature, malformed structure, wrong token type or past expiry.
// Callers cannot tell which check failed.
var ErrInvalidToken = errors.New("invalid token")

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID    string      `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	TokenType string      `json:"token_type"`
	jwt.RegisteredClaims
}

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// ClaimsFromContext retrieves the verified claims stashed by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

// TokenCodec mints and verifies signed session tokens. The signing key
// and lifetimes are fixed at construction; the codec is safe for
// concurrent use.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenCodec creates a codec signing with the given secret.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (c *TokenCodec) issue(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// IssueAccess creates a new access token for a given user.
func (c *TokenCodec) IssueAccess(user models.User) (string, error) {
	return c.issue(user, TokenTypeAccess, c.accessTTL)
}

// IssueRefresh creates a new refresh token for a given user.
func (c *TokenCodec) IssueRefresh(user models.User) (string, error) {
	return c.issue(user, TokenTypeRefresh, c.refreshTTL)
}

// IssuePair mints the access/refresh token pair returned at login.
func (c *TokenCodec) IssuePair(user models.User) (access, refresh string, err error) {
	if access, err = c.IssueAccess(user); err != nil {
		return "", "", err
	}
	if refresh, err = c.IssueRefresh(user); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify parses and validates a token string of the expected type.
func (c *TokenCodec) Verify(tokenStr, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Middleware protects routes: it requires a valid bearer access token
// and stashes the verified claims in the request context.
func Middleware(codec *TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "Missing auth token")
				return
			}

			claims, err := codec.Verify(tokenStr, TokenTypeAccess)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid auth token")
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRecordManager gates the write/list patient endpoints: callers
// whose role cannot manage records get a 403. Runs after Middleware and
// before any repository lookup, so a non-doctor is denied even for ids
// that do not exist.
func RequireRecordManager() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Missing auth token")
				return
			}
			if !claims.Role.CanManageRecords() {
				writeError(w, http.StatusForbidden, "Access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Transcranial-Solutions/iconpreps/internal/domain/rating"
	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type voterKey struct{}

// VoterClaims are the JWT claims identifying a voter.
type VoterClaims struct {
	Username          string `json:"username,omitempty"`
	Level             int    `json:"level"`
	CanSubmitFeedback bool   `json:"can_submit_feedback"`
	jwt.RegisteredClaims
}

// VoterFromContext returns the authenticated voter, if present.
func VoterFromContext(ctx context.Context) (rating.Voter, bool) {
	voter, ok := ctx.Value(voterKey{}).(rating.Voter)
	return voter, ok
}

// WithVoter stores voter in ctx.
func WithVoter(ctx context.Context, voter rating.Voter) context.Context {
	return context.WithValue(ctx, voterKey{}, voter)
}

// IssueVoterToken signs an HS256 token for voter.
func IssueVoterToken(secret string, voter rating.Voter, ttl time.Duration, now time.Time) (string, error) {
	claims := VoterClaims{
		Username:          voter.Username,
		Level:             voter.Level,
		CanSubmitFeedback: voter.CanSubmitFeedback,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   voter.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseVoterToken validates an HS256 token and returns its voter. The
// username claim falls back to the subject.
func ParseVoterToken(secret, token string) (rating.Voter, error) {
	var claims VoterClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil || !parsed.Valid {
		return rating.Voter{}, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return rating.Voter{}, fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return rating.Voter{
		Username:          username,
		Level:             claims.Level,
		CanSubmitFeedback: claims.CanSubmitFeedback,
	}, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			voter, err := ParseVoterToken(secret, token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithVoter(r.Context(), voter)))
		})
	}
}

// OptionalAuthMiddleware attaches the voter when a bearer token is sent and
// rejects invalid tokens, but lets anonymous requests through.
func OptionalAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			voter, err := ParseVoterToken(secret, token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithVoter(r.Context(), voter)))
		})
	}
}

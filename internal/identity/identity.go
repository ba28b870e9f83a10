package identity

//go:generate mockgen -package=mocks -destination=mocks/mock_resolver.go github.com/KirkDiggler/quizroom/internal/identity Resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails parsing or validation
var ErrInvalidToken = apperr.New(apperr.KindValidation, "invalid_token", "invalid or expired token")

// Identity is the authenticated participant behind a connection or request
type Identity struct {
	ParticipantID string
	DisplayName   string
}

// Resolver turns a bearer token into an Identity
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// Claims is the token payload
type Claims struct {
	ParticipantID string `json:"participant_id"`
	DisplayName   string `json:"name"`
	jwt.RegisteredClaims
}

// Config holds configuration for the JWT resolver
type Config struct {
	// Secret signs and verifies HS256 tokens
	Secret []byte

	// Issuer is required on every token when set
	Issuer string

	Clock clock.Clock
}

// JWT resolves and issues HS256 tokens
type JWT struct {
	secret []byte
	issuer string
	clock  clock.Clock
}

// NewJWT creates a new JWT resolver
func NewJWT(cfg *Config) (*JWT, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if len(cfg.Secret) == 0 {
		return nil, errors.New("secret cannot be empty")
	}

	c := cfg.Clock
	if c == nil {
		c = &clock.DefaultClock{}
	}

	return &JWT{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		clock:  c,
	}, nil
}

// Resolve validates the token and returns its participant
func (j *JWT) Resolve(ctx context.Context, token string) (*Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, opts...)
	if err != nil {
		return nil, apperr.Wrap(ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	participantID := claims.ParticipantID
	if participantID == "" {
		participantID = claims.Subject
	}
	if participantID == "" {
		return nil, ErrInvalidToken
	}

	name := claims.DisplayName
	if name == "" {
		name = participantID
	}

	return &Identity{
		ParticipantID: participantID,
		DisplayName:   name,
	}, nil
}

// Issue signs a token for a participant
func (j *JWT) Issue(id *Identity, ttl time.Duration) (string, error) {
	if id == nil || id.ParticipantID == "" {
		return "", errors.New("identity and participant ID cannot be empty")
	}

	now := j.clock.Now()
	claims := &Claims{
		ParticipantID: id.ParticipantID,
		DisplayName:   id.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ParticipantID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

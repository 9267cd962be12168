package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sih-portal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// CookieName is the cookie carrying the participant session token
	CookieName = "sih_session"

	issuer = "sih-portal"
)

// ErrInvalidSession is returned for malformed, expired or forged tokens
var ErrInvalidSession = errors.New("invalid session token")

// Identity is the participant a session token was issued to
type Identity struct {
	Email string
	Name  string
}

// Claims are the JWT claims of a participant session
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// SessionService issues and verifies HS256 participant session tokens
type SessionService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewSessionService creates a session service signing with secret
func NewSessionService(secret string, ttl time.Duration, log *logger.Logger) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: log.Named("session"),
	}
}

// TTL is how long issued tokens stay valid
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the registered participant
func (s *SessionService) Issue(email, name string) (string, error) {
	now := s.now()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify parses tokenString and returns the identity it carries
func (s *SessionService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.WithError(err).Debug("Session token rejected")
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrInvalidSession
	}

	return &Identity{Email: claims.Email, Name: claims.Name}, nil
}

type identityKey struct{}

// WithIdentity returns a context carrying the participant identity
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the session middleware
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

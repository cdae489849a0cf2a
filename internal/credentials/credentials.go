// Package credentials supplies bearer credentials for the active session.
// The concrete identity provider sits behind the Accessor interface; the
// ledger client only ever asks for a token and attaches it to requests.
package credentials

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/Nike682631/robinhood/internal/errors"
)

// Accessor obtains a bearer credential for the current session.
type Accessor interface {
	// Credential returns a token valid for the active session, or
	// ErrUnauthenticated when no session is active.
	Credential(ctx context.Context) (string, error)
	// SignedIn reports whether a session is currently active.
	SignedIn() bool
}

// Static is an Accessor backed by a fixed token, typically one issued out of
// band. An empty token means no active session.
type Static struct {
	Token string
}

func (s Static) Credential(_ context.Context) (string, error) {
	if s.Token == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return s.Token, nil
}

func (s Static) SignedIn() bool { return s.Token != "" }

// Claims is the JWT claim set shared between the session accessor and the
// fake ledger's auth middleware.
type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

// Session mints short-lived HS256 tokens on demand for a signed-in user and
// re-mints once a token gets close to expiry, so every caller sees a fresh
// credential without coordinating refreshes.
type Session struct {
	mu     sync.Mutex
	secret []byte
	user   string
	expiry time.Duration

	token    string
	issuedAt time.Time

	now func() time.Time // test hook
}

// NewSession creates a session accessor for the given user. An empty user
// means no session: Credential fails with ErrUnauthenticated.
func NewSession(secret, user string, expiry time.Duration) *Session {
	return &Session{
		secret: []byte(secret),
		user:   user,
		expiry: expiry,
		now:    time.Now,
	}
}

func (s *Session) SignedIn() bool { return s.user != "" }

func (s *Session) Credential(_ context.Context) (string, error) {
	if s.user == "" {
		return "", apperrors.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reuse the cached token while it has at least half its lifetime left.
	if s.token != "" && s.now().Sub(s.issuedAt) < s.expiry/2 {
		return s.token, nil
	}

	now := s.now()
	claims := &Claims{
		User: s.user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "robinhood-session",
			Subject:   s.user,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrUnauthenticated, err)
	}

	s.token = token
	s.issuedAt = now
	return token, nil
}

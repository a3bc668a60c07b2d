// Package auth checks bearer credentials presented on mutating requests.
// There is no issuance, expiry of the static secret, or per-user identity.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/credit-service/internal/config"
)

// Errors exported by the auth package
var (
	ErrAuth            = errors.New("auth error")
	ErrMissingToken    = fmt.Errorf("%w: not authenticated", ErrAuth)
	ErrInvalidToken    = fmt.Errorf("%w: invalid token", ErrAuth)
	ErrNoAuthenticator = fmt.Errorf("%w: no credential check configured", ErrAuth)
)

// Authenticator accepts or rejects a bearer token
type Authenticator interface {
	Authenticate(token string) error
}

// StaticToken compares the token verbatim with a shared secret
type StaticToken struct {
	secret []byte
}

func NewStaticToken(secret string) *StaticToken {
	return &StaticToken{secret: []byte(secret)}
}

func (s *StaticToken) Authenticate(token string) error {
	if subtle.ConstantTimeCompare([]byte(token), s.secret) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// HashedToken compares the token against a bcrypt hash of the shared secret
type HashedToken struct {
	hash []byte
}

func NewHashedToken(hash string) *HashedToken {
	return &HashedToken{hash: []byte(hash)}
}

func (h *HashedToken) Authenticate(token string) error {
	if err := bcrypt.CompareHashAndPassword(h.hash, []byte(token)); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// JWTVerifier accepts HS256 tokens signed with a shared secret. Tokens must
// carry an exp claim that has not passed.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

func (v *JWTVerifier) Authenticate(token string) error {
	_, err := v.parser.Parse(token, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// Any accepts a token when at least one of its authenticators does
type Any []Authenticator

func (a Any) Authenticate(token string) error {
	if len(a) == 0 {
		return ErrNoAuthenticator
	}
	err := ErrInvalidToken
	for _, auth := range a {
		if err = auth.Authenticate(token); err == nil {
			return nil
		}
	}
	return err
}

// FromConfig builds the authenticator chain for the configured credentials
func FromConfig(cfg *config.Config) Authenticator {
	var chain Any
	if cfg.APIToken != "" {
		chain = append(chain, NewStaticToken(cfg.APIToken))
	}
	if cfg.APITokenHash != "" {
		chain = append(chain, NewHashedToken(cfg.APITokenHash))
	}
	if cfg.JWTSecret != "" {
		chain = append(chain, NewJWTVerifier(cfg.JWTSecret))
	}
	return chain
}

// BearerToken extracts the credential from an Authorization header value.
// The scheme is matched case-insensitively and everything after the first
// space is returned verbatim, so "Bearer" alone yields an empty token that
// no authenticator accepts.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	scheme, token, _ := strings.Cut(header, " ")
	if header == "" || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMissingToken
	}
	return token, nil
}

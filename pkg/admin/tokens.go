package admin

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is how long an admin token stays valid.
	DefaultTokenTTL = 24 * time.Hour

	tokenIssuer  = "mockapi"
	tokenSubject = "admin"
	secretLength = 32
)

// Token errors.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthConfig configures admin authentication.
type AuthConfig struct {
	// Password enables authentication when non-empty.
	Password string
	// Secret is the HS256 key. Empty means a random per-process key.
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

// Auth issues and validates admin tokens.
type Auth struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	parser   *jwt.Parser
}

// NewAuth creates an Auth from cfg.
func NewAuth(cfg AuthConfig) (*Auth, error) {
	a := &Auth{
		password: []byte(cfg.Password),
		secret:   cfg.Secret,
		ttl:      cfg.TTL,
		now:      cfg.Now,
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTokenTTL
	}
	if a.now == nil {
		a.now = time.Now
	}
	if len(a.secret) == 0 {
		a.secret = make([]byte, secretLength)
		if _, err := rand.Read(a.secret); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
	}
	a.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(tokenSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	return a, nil
}

// Enabled reports whether a password is configured.
func (a *Auth) Enabled() bool { return len(a.password) > 0 }

// CheckPassword compares password in constant time.
func (a *Auth) CheckPassword(password string) error {
	if !a.Enabled() {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(password), a.password) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// Issue signs a new token and returns it with its expiry.
func (a *Auth) Issue() (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Validate checks signature, issuer, subject and expiry.
func (a *Auth) Validate(token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	_, err := a.parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return nil
}

// Package jwt mints and verifies the admin tokens that guard snapshot refresh.
package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

const alg = "HS256"

// Config holds the admin token settings.
type Config struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`
}

// New returns the HS256 signer/verifier for c.JWTSecret.
func New(c *Config) (*jwtauth.JWTAuth, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return jwtauth.New(alg, []byte(c.JWTSecret), nil), nil
}

// VerifyToken checks the signature and expiry of token and returns its subject.
func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	return t.Subject(), nil
}

// NewToken creates a token valid for ttl. Subject is optional and ends up in
// refresh audit logs.
func NewToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, subject string) (string, error) {
	claims := map[string]interface{}{
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	if subject != "" {
		claims["sub"] = subject
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("can't encode token: %w", err)
	}
	return ts, nil
}

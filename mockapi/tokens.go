package mockapi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "mockapi"

var errStaleGeneration = errors.New("mockapi: token generation revoked")

// accessClaims are the claims carried by access tokens.
type accessClaims struct {
	gojwt.RegisteredClaims
	Generation int64 `json:"gen"`
}

// tokenIssuer signs access tokens and tracks live refresh tokens.
type tokenIssuer struct {
	secret []byte
	ttl    time.Duration

	mu         sync.Mutex
	generation int64
	refresh    map[string]string // refresh token -> subject
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{
		secret:     []byte(secret),
		ttl:        ttl,
		generation: 1,
		refresh:    make(map[string]string),
	}
}

// issue returns a fresh access/refresh pair for subject.
func (t *tokenIssuer) issue(subject string) (access, refresh string, err error) {
	t.mu.Lock()
	gen := t.generation
	refresh = uuid.NewString()
	t.refresh[refresh] = subject
	t.mu.Unlock()

	access, err = t.sign(subject, gen)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// rotate exchanges a refresh token for a new pair. The old refresh token
// stops working.
func (t *tokenIssuer) rotate(refresh string) (string, string, bool, error) {
	t.mu.Lock()
	subject, ok := t.refresh[refresh]
	if ok {
		delete(t.refresh, refresh)
	}
	t.mu.Unlock()
	if !ok {
		return "", "", false, nil
	}
	access, next, err := t.issue(subject)
	return access, next, true, err
}

// expire bumps the generation so every outstanding access token is rejected.
func (t *tokenIssuer) expire() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	return t.generation
}

func (t *tokenIssuer) currentGeneration() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}

func (t *tokenIssuer) sign(subject string, gen int64) (string, error) {
	now := time.Now()
	claims := &accessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
		Generation: gen,
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("mockapi: sign token: %w", err)
	}
	return signed, nil
}

// parse validates an access token and checks its generation.
func (t *tokenIssuer) parse(tokenString string) (*accessClaims, error) {
	claims := &accessClaims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, t.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("mockapi: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("mockapi: invalid token")
	}
	if claims.Generation != t.currentGeneration() {
		return nil, errStaleGeneration
	}
	return claims, nil
}

func (t *tokenIssuer) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("mockapi: unexpected signing method: %s", token.Method.Alg())
	}
	return t.secret, nil
}

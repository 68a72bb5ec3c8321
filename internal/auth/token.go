// Package auth verifies and issues the HS256 bearer tokens that carry a
// caller's identity claim.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rpggio/teamportal/internal/domain/identity"
)

var (
	// ErrInvalidToken indicates a malformed, expired or wrongly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidClaim indicates a verified token whose claim is unusable.
	ErrInvalidClaim = errors.New("invalid claim")
)

// Claims is the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	Role        identity.Role `json:"role"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	EmployeeRef string        `json:"employeeRef,omitempty"`
	ClientRef   string        `json:"clientRef,omitempty"`
}

// Identity converts the payload to an identity claim.
func (c *Claims) Identity() identity.Claim {
	return identity.Claim{
		Subject:     c.Subject,
		Role:        c.Role,
		Name:        c.Name,
		Email:       c.Email,
		EmployeeRef: c.EmployeeRef,
		ClientRef:   c.ClientRef,
	}
}

// Tokens signs and verifies bearer tokens with a shared secret.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token codec. An empty issuer skips issuer checks.
func NewTokens(secret, issuer string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Sign issues a token for claim.
func (t *Tokens) Sign(claim identity.Claim) (string, error) {
	if err := checkClaim(claim); err != nil {
		return "", err
	}
	now := t.now()
	payload := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   claim.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Role:        claim.Role,
		Name:        claim.Name,
		Email:       claim.Email,
		EmployeeRef: claim.EmployeeRef,
		ClientRef:   claim.ClientRef,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns the identity it carries.
func (t *Tokens) Verify(token string) (identity.Claim, error) {
	payload := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, payload, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return identity.Claim{}, ErrInvalidToken
	}
	if t.issuer != "" && !payload.VerifyIssuer(t.issuer, true) {
		return identity.Claim{}, ErrInvalidToken
	}

	claim := payload.Identity()
	if err := checkClaim(claim); err != nil {
		return identity.Claim{}, err
	}
	return claim, nil
}

// ResolveClaim implements the transport claim resolver.
func (t *Tokens) ResolveClaim(_ context.Context, token string) (identity.Claim, error) {
	return t.Verify(token)
}

func checkClaim(claim identity.Claim) error {
	if claim.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidClaim)
	}
	if !claim.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidClaim, claim.Role)
	}
	return nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrWrongTokenType = errors.New("wrong token type")
	ErrTokenRevoked   = errors.New("token revoked")
)

// TokenPair is returned on login.
type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Issuer mints HS256 access and refresh tokens for staff users.
type Issuer struct {
	cfg        JWTConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(cfg JWTConfig, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{cfg: cfg, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

func (i *Issuer) sign(subject, tokenType string, roles []string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Roles:     roles,
		TokenType: tokenType,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.SigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return s, exp, nil
}

// Access mints an access token carrying the staff role.
func (i *Issuer) Access(subject string) (string, time.Time, error) {
	return i.sign(subject, TokenAccess, []string{RoleStaff}, i.accessTTL)
}

// Pair mints an access and a refresh token for subject.
func (i *Issuer) Pair(subject string) (*TokenPair, error) {
	access, accessExp, err := i.Access(subject)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := i.sign(subject, TokenRefresh, nil, i.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ParseRefresh verifies a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(token string) (*Claims, error) {
	return i.cfg.parse(token, TokenRefresh)
}

package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Issuer signs access and refresh tokens with independent secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	now func() time.Time
}

func NewIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *Issuer) IssueAccess(claims AccessClaims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = i.registered(claims.UserID, ttl)
	return sign(claims, i.accessSecret)
}

func (i *Issuer) IssueRefresh(claims RefreshClaims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = i.registered(claims.UserID, ttl)
	return sign(claims, i.refreshSecret)
}

func (i *Issuer) VerifyAccess(token string) (*AccessClaims, error) {
	return AccessClaimsFromToken(token, i.accessSecret)
}

func (i *Issuer) VerifyRefresh(token string) (*RefreshClaims, error) {
	return RefreshClaimsFromToken(token, i.refreshSecret)
}

func (i *Issuer) registered(subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := i.now()
	if ttl < 0 {
		ttl = 0
	}
	return jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	if err := parse(tokenStr, accessSecret, &claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	return &claims, nil
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := parse(tokenStr, refreshSecret, &claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" || claims.RefreshID == "" {
		return nil, fmt.Errorf("%w: missing id or refresh_id claim", ErrInvalidToken)
	}
	return &claims, nil
}

func parse(tokenStr string, secret []byte, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return ErrInvalidToken
	}
	return nil
}

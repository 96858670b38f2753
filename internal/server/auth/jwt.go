// Package auth implements bearer-token issuance/validation and the
// role-hierarchy authorization checks.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/server/models"
)

// Claims is the decoded, verified payload of a bearer token. It is produced
// from an account snapshot at login time and only ever read afterwards.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64       `json:"account_id"`
	Role      models.Role `json:"role"`
}

// Issuer mints and validates HS256 bearer tokens. The signing key is
// process-wide configuration, loaded once at startup.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
}

func NewIssuer(secret []byte, lifetime time.Duration) *Issuer {
	return &Issuer{secret: secret, lifetime: lifetime}
}

// Issue produces a signed token encoding the account id, role, issue time,
// and expiry.
func (i *Issuer) Issue(accountID int64, role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
		AccountID: accountID,
		Role:      role,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks signature integrity and expiry. It returns
// common.ErrTokenExpired for tokens past their expiry and
// common.ErrTokenMalformed for every other defect, including tokens signed
// with a different key.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenMalformed
	}

	if !token.Valid {
		return nil, common.ErrTokenMalformed
	}

	return claims, nil
}

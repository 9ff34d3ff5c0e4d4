package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
)

// claims mirrors the identity at login time. Role and department are advisory;
// the auth middleware re-reads them from the users table.
type claims struct {
	UserID       int64       `json:"uid"`
	Role         domain.Role `json:"role"`
	DepartmentID *int64      `json:"dept,omitempty"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

func NewJWTIssuer(secret string, ttl time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source used for iat and exp.
func (i *JWTIssuer) WithClock(now func() time.Time) *JWTIssuer {
	i.now = now
	return i
}

func (i *JWTIssuer) Issue(identity domain.Identity) (string, error) {
	now := i.now()
	c := claims{
		UserID:       identity.UserID,
		Role:         identity.Role,
		DepartmentID: identity.DepartmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatInt(identity.UserID, 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *JWTIssuer) Verify(tokenString string) (domain.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if c.UserID <= 0 {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	return domain.Identity{
		UserID:       c.UserID,
		Role:         c.Role,
		DepartmentID: c.DepartmentID,
	}, nil
}

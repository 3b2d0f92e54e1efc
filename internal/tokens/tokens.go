package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "ACCESS"
	TypeRefresh Type = "REFRESH"
)

func (t Type) Valid() bool {
	return t == TypeAccess || t == TypeRefresh
}

var (
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired wraps ErrInvalidToken, errors.Is(err, ErrInvalidToken) holds for both.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)
	ErrEmptySecret  = errors.New("token secret is empty")
	ErrUnknownType  = errors.New("unknown token type")
)

type Claims struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens with a single secret.
type Codec struct {
	Secret []byte
	Now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{Secret: secret, Now: time.Now}
}

func (c *Codec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Codec) Issue(subjectID, subjectName string, expiresAt time.Time, typ Type) (string, error) {
	if len(c.Secret) == 0 {
		return "", ErrEmptySecret
	}
	if !typ.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	claims := Claims{
		Name: subjectName,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(c.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString(c.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Decode verifies signature, expiry and the type tag. Every failure is reported as
// ErrInvalidToken, expiry as ErrTokenExpired.
func (c *Codec) Decode(tokenStr string, typ Type) (*Claims, error) {
	if len(c.Secret) == 0 {
		return nil, ErrInvalidToken
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return c.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid || claims.Subject == "" || claims.Type != typ {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

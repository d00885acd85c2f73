package stub

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	apierr "github.com/termcurator/curate/pkg/api/types/errors"
)

const Issuer = "curate-stub"

var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies auth tokens of users, as HS256 JWS.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}
}

// WithNow replaces the clock, for tests.
func (t *Tokens) WithNow(now func() time.Time) *Tokens {
	return &Tokens{secret: t.secret, ttl: t.ttl, now: now}
}

// Issue creates a token for the user.
//
// # Returns
//
// - string: JWT token string
//
// - error: from [jwt.Token.SignedString]
func (t *Tokens) Issue(userName string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   userName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify verifies the token and returns the user name in it.
//
// # Returns
//
// - string: the user name
//
// - error: ErrInvalidToken when the token is malformed, forged, expired or issued by others.
func (t *Tokens) Verify(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

const keyUserName = "userName"

// Authenticated is an echo middleware which requires a valid token in the Authorization header.
//
// The token may be given as is, or with "Bearer " prefix.
// The user name in the token can be read by [UserName].
func (t *Tokens) Authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
		if token == "" {
			return apierr.Unauthorized("sign in with `curate init`")
		}
		if bare, ok := strings.CutPrefix(token, "Bearer "); ok {
			token = bare
		}
		userName, err := t.Verify(token)
		if err != nil {
			c.Logger().Debugf("token rejected: %s", err)
			return apierr.Unauthorized("the token is invalid or expired. sign in again with `curate init`")
		}
		c.Set(keyUserName, userName)
		return next(c)
	}
}

// UserName returns the name of the signed-in user.
func UserName(c echo.Context) string {
	if n, ok := c.Get(keyUserName).(string); ok {
		return n
	}
	return ""
}

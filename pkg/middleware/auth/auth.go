package auth

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/loja/pkg/tokens"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"

	tokenContextKey = "token"
	bearerPrefix    = "Bearer "
)

var (
	ErrUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	ErrForbidden    = echo.NewHTTPError(http.StatusForbidden, "insufficient role")
)

type Middleware struct {
	secret []byte
	jwt    echo.MiddlewareFunc
}

func New(secret []byte) *Middleware {
	m := &Middleware{secret: secret}
	m.jwt = echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenContextKey,
		TokenLookup:   "header:" + echo.HeaderAuthorization + ":" + bearerPrefix,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(tokens.AccessClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return ErrUnauthorized
		},
	})
	return m
}

// RequireAuth verifies the bearer token and stores user_id and role on the context.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.jwt(func(c echo.Context) error {
		token, ok := c.Get(tokenContextKey).(*jwt.Token)
		if !ok {
			return ErrUnauthorized
		}
		claims, ok := token.Claims.(*tokens.AccessClaims)
		if !ok || claims.Check() != nil {
			return ErrUnauthorized
		}
		setUserContext(c, claims)
		return next(c)
	})
}

// Optional attaches the caller identity when a valid bearer token is present
// and lets anonymous requests through. A present but invalid token is rejected.
func (m *Middleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return next(c)
		}
		raw, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || raw == "" {
			return ErrUnauthorized
		}
		claims, err := tokens.AccessClaimsFromToken(raw, m.secret)
		if err != nil {
			return ErrUnauthorized
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := Role(c)
			if !ok {
				return ErrUnauthorized
			}
			if !slices.ContainsFunc(roles, func(r string) bool { return strings.EqualFold(r, role) }) {
				return ErrForbidden
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) (string, bool) {
	s, ok := c.Get(ContextUserID).(string)
	return s, ok && s != ""
}

// Role returns the caller role lower-cased.
func Role(c echo.Context) (string, bool) {
	s, ok := c.Get(ContextRole).(string)
	return strings.ToLower(s), ok && s != ""
}

func HasRole(c echo.Context, role string) bool {
	r, ok := Role(c)
	return ok && strings.EqualFold(r, role)
}

func IsUnauthorized(err error) bool {
	var he *echo.HTTPError
	return errors.As(err, &he) && he.Code == http.StatusUnauthorized
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
}

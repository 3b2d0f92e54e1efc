package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_manager/internal/logging"
	"github.com/Skotchmaster/task_manager/internal/tokens"
)

const identityKey = "identity"

var errMissingIdentity = errors.New("no identity in context")

// RequireAccessToken accepts "Authorization: Bearer <token>" carrying a valid ACCESS token
// and stores its claims on the context. Failures answer 401 "Please authenticate".
func RequireAccessToken(codec *tokens.Codec) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  identityKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return codec.Decode(auth, tokens.TypeAccess)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logging.FromContext(c.Request().Context()).Warn("auth_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Please authenticate").SetInternal(err)
		},
	})
}

// Identity returns the claims stored by RequireAccessToken.
func Identity(c echo.Context) (*tokens.Claims, error) {
	claims, ok := c.Get(identityKey).(*tokens.Claims)
	if !ok || claims == nil {
		return nil, errMissingIdentity
	}
	return claims, nil
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/services"
)

// JWT verifies the Bearer token and attaches the resolved user to the echo
// context under "user". Websocket upgrades may carry the token in the
// "token" query parameter instead, since browsers cannot set headers there.
func JWT(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				token = c.QueryParam("token")
			}
			if token == "" {
				return apperrors.ErrUnauthorized
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

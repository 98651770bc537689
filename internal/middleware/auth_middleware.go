package middleware

import (
	"net/http"
	"upline/pkg/logger"
	"upline/pkg/session"
	"upline/pkg/utils"

	jsonres "upline/pkg/response"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates API requests from the session cookie. Unlike
// the page route guard this fully verifies signature and expiry; every
// state-changing endpoint sits behind it.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := session.Read(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Authorization token is missing", nil,
				))
			}

			claims, err := utils.ParseJWT(token)
			if err != nil {
				logger.Warn("Rejected session credential", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			if claims.UserID == 0 {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

// RequireRole gates an endpoint on the role claim set by AuthMiddleware.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "User not authenticated", nil,
				))
			}

			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			return c.JSON(http.StatusForbidden, jsonres.Error(
				"FORBIDDEN", "Insufficient role", nil,
			))
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/citygram/citygram-api/internal/core/ports"
)

// SessionCookieName is the cookie carrying the signed session token. The
// cookie is the only accepted transport: tokens are never read from headers.
const SessionCookieName = "token"

// Session validates the JWT session cookie and injects the authenticated
// user ID and role into the request context. On success the user's presence
// mark is refreshed best-effort; presence failures never reject a request.
func Session(jwtSecret string, presence ports.PresenceStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			userID, _ := claims["sub"].(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session claims")
			}

			c.Set("user_id", userID)
			c.Set("role", claims["role"])

			if presence != nil {
				_ = presence.Touch(c.Request().Context(), userID)
			}

			return next(c)
		}
	}
}

package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
	"github.com/Iftekhar-007/real-estate-server/store"
	"github.com/Iftekhar-007/real-estate-server/utils"
)

const identityKey = "identity"

// Authenticate verifies the bearer credential and resolves it to a local
// identity record. Only authentication happens here; role checks belong to
// the handlers, which derive a capability from the identity per call.
func Authenticate(users store.UserStore, tokens *utils.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return apperr.Auth("authorization header is required")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return apperr.Auth("invalid authorization header format")
			}

			claims, err := tokens.Validate(tokenParts[1])
			if err != nil {
				return apperr.Auth("invalid token")
			}

			user, err := users.FindByEmail(c.Request().Context(), claims.Email)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindNotFound {
					return apperr.Auth("user not found")
				}
				return err
			}

			c.Set(identityKey, user.Identity())
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity Authenticate attached to the request.
func CurrentIdentity(c echo.Context) models.Identity {
	id, _ := c.Get(identityKey).(models.Identity)
	return id
}

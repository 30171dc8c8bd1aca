package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"vpnshop/internal/apperr"
	"vpnshop/internal/auth"
	"vpnshop/internal/config"
	"vpnshop/internal/repository"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"
)

// Session resolves the session cookie into a user id. Requests without a valid
// session pass through anonymously; RequireUser rejects them where needed.
func Session(cfg *config.JWT, revocations auth.Revocations, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(auth.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := auth.ParseToken(cfg, cookie.Value)
			if err != nil {
				return next(c)
			}

			revoked, err := revocations.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				// treat the session as valid rather than logging everyone out
				logger.Warn("session revocation check failed", zap.Error(err))
			}
			if revoked {
				return next(c)
			}

			c.Set(userIDKey, claims.UserID)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := UserID(c); !ok {
				return apperr.E(apperr.ErrUnauthorized, "not authenticated")
			}
			return next(c)
		}
	}
}

// RequireAdmin reads the admin flag from storage on every request so a revoked
// admin loses access immediately.
func RequireAdmin(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserID(c)
			if !ok {
				return apperr.E(apperr.ErrUnauthorized, "not authenticated")
			}
			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if apperr.KindOf(err) == apperr.ErrNotFound {
					return apperr.E(apperr.ErrUnauthorized, "not authenticated")
				}
				return err
			}
			if !user.IsAdmin {
				return apperr.E(apperr.ErrForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(userIDKey).(uint)
	return id, ok && id != 0
}

func Claims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	return claims, ok
}

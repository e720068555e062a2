package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pistanero/storefront/internal/models"
)

const userIDKey = "userID"

// UserID returns the authenticated principal set by RequireUser, or zero.
func UserID(c echo.Context) uint {
	if v, ok := c.Get(userIDKey).(uint); ok {
		return v
	}
	return 0
}

func (t *TokenService) setSession(c echo.Context, newAccess, newRefresh string, userID uint) {
	if newRefresh != "" {
		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTokenTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTokenTTL)))
	}
	c.Set(userIDKey, userID)
}

// RequireUser rejects unauthenticated callers and rotates expired access
// tokens from the refresh cookie.
func (t *TokenService) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, userID, err := t.CheckCookie(c)
		if err != nil {
			return err
		}
		t.setSession(c, newAccess, newRefresh, userID)
		return next(c)
	}
}

// HasRole is the single authorization check every admin-gated route goes
// through: one user_roles lookup, done before any gated data is fetched.
func (t *TokenService) HasRole(ctx context.Context, userID uint, role string) (bool, error) {
	var n int64
	err := t.DB.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RequireAdmin gates before the handler runs; a non-admin never reaches
// the underlying query.
func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, userID, err := t.CheckCookie(c)
		if err != nil {
			return err
		}

		ok, err := t.HasRole(c.Request().Context(), userID, AdminRole)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "role lookup failed")
		}
		if !ok {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		t.setSession(c, newAccess, newRefresh, userID)
		return next(c)
	}
}

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/models"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	AdminRole = "admin"
)

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func SignAccessToken(userID uint, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(AccessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SignRefreshToken(userID uint, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(RefreshTokenTTL).Unix(),
		"typ": "refresh",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func SaveRefreshToken(db *gorm.DB, token string, userID uint) error {
	stored := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(RefreshTokenTTL).Unix(),
		Revoked:   false,
	}
	if err := db.Create(&stored).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func parseHMAC(raw string, secret []byte) (jwt.MapClaims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("cannot parse claims")
	}
	return claims, nil
}

func subject(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid subject claim")
	}
	return uint(sub), nil
}

// ValidateRefresh checks signature, typ and the stored row: the token must
// exist, not be revoked and not be expired.
func ValidateRefresh(raw string, secret []byte, db *gorm.DB) (jwt.MapClaims, error) {
	claims, err := parseHMAC(raw, secret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}
	if typ, ok := claims["typ"]; !ok || typ != "refresh" {
		return nil, errors.New("not a refresh token")
	}

	var stored models.RefreshToken
	if err := db.Where("token = ?", raw).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("refresh token not found")
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if stored.Revoked {
		return nil, errors.New("refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return nil, errors.New("refresh token expired")
	}

	return claims, nil
}

// RotateToken mints a fresh access/refresh pair from a valid refresh token
// and persists the new refresh token.
func (t *TokenService) RotateToken(rawToken string) (string, string, uint, error) {
	claims, err := ValidateRefresh(rawToken, t.RefreshSecret, t.DB)
	if err != nil {
		return "", "", 0, err
	}
	userID, err := subject(claims)
	if err != nil {
		return "", "", 0, err
	}

	newAccess, err := SignAccessToken(userID, t.JWTSecret)
	if err != nil {
		return "", "", 0, err
	}
	newRefresh, err := SignRefreshToken(userID, t.RefreshSecret)
	if err != nil {
		return "", "", 0, err
	}
	if err := SaveRefreshToken(t.DB, newRefresh, userID); err != nil {
		return "", "", 0, err
	}

	return newAccess, newRefresh, userID, nil
}

// CheckCookie resolves the caller from the access cookie, falling back to
// refresh rotation when the access token has expired. A non-empty
// newRefresh means fresh cookies must be set.
func (t *TokenService) CheckCookie(c echo.Context) (newAccess, newRefresh string, userID uint, err error) {
	asCookie, cerr := c.Cookie("accessToken")
	if cerr == nil {
		claims, perr := parseHMAC(asCookie.Value, t.JWTSecret)
		if perr == nil {
			userID, err = subject(claims)
			if err != nil {
				return "", "", 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			return asCookie.Value, "", userID, nil
		}
		if !errors.Is(perr, jwt.ErrTokenExpired) {
			return "", "", 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
	}

	rfCookie, cerr := c.Cookie("refreshToken")
	if cerr != nil {
		return "", "", 0, echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	newAccess, newRefresh, userID, err = t.RotateToken(rfCookie.Value)
	if err != nil {
		return "", "", 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	return newAccess, newRefresh, userID, nil
}

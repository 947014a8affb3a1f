package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gestionale/internal/access"
	"gestionale/internal/keys"
	"gestionale/internal/models"
	"gestionale/internal/utils/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var log = logger.New("auth_middleware")

const authContextKey = "authContext"

type AuthMiddleware struct {
	jwtSecret string
	db        *gorm.DB
	keyStore  *keys.Store
}

type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func NewAuthMiddleware(jwtSecret string, db *gorm.DB, keyStore *keys.Store) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		db:        db,
		keyStore:  keyStore,
	}
}

// Middleware authenticates the bearer token, verifies the session
// transaction and attaches an access.AuthContext to the request. Key
// scopes are loaded exactly once here for non-admins; every permission
// check downstream is pure.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			return m.validateJWT(c, tokenParts[1], next)
		}
	}
}

func (m *AuthMiddleware) validateJWT(c echo.Context, tokenString string, next echo.HandlerFunc) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
	}

	// Verify the session transaction still exists
	transaction := &models.AuthTransaction{}
	if err := m.db.Where("user_id = ? AND token = ?", claims.UserID, tokenString).First(transaction).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Session not found")
	}

	user := &models.User{}
	if err := m.db.Where("id = ? AND is_deleted = ?", claims.UserID, false).First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	auth := access.AuthContext{
		UserID:  user.ID,
		Role:    user.Role,
		IsAdmin: models.IsAdminRole(user.Role),
	}

	if !auth.IsAdmin {
		scopes, err := m.keyStore.LoadUserKeyScopes(c.Request().Context(), user.ID)
		if err != nil {
			return log.Error("failed to load key scopes for %s", err, user.ID)
		}
		auth.KeyScopes = scopes
	}

	c.Set(authContextKey, auth)
	c.Set("userID", user.ID)

	return next(c)
}

// GetAuthContext extracts the request's identity. The zero value is
// returned for unauthenticated contexts and denies everything.
func GetAuthContext(c echo.Context) access.AuthContext {
	if auth, ok := c.Get(authContextKey).(access.AuthContext); ok {
		return auth
	}
	return access.AuthContext{}
}

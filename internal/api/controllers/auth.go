package controllers

import (
	"net/http"
	"time"

	"gestionale/internal/api/validator"
	"gestionale/internal/models"
	"gestionale/internal/utils"
	"gestionale/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var log = logger.New("CONTROLLERS")

// AuthController issues and revokes sessions. Credential storage and the
// login flow are deliberately minimal: identity is mostly an input to the
// access engine, not this system's product.
type AuthController struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthController(db *gorm.DB, jwtSecret string) *AuthController {
	return &AuthController{db: db, jwtSecret: jwtSecret}
}

// Login exchanges email/password for a bearer token.
func (a *AuthController) Login(c echo.Context) error {
	var req validator.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := &models.User{}
	if err := a.db.Where("email = ? AND is_deleted = ?", req.Email, false).First(user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateJWT(*user, a.jwtSecret)
	if err != nil {
		return log.Error("failed to sign token for %s", err, user.Email)
	}

	transaction := &models.AuthTransaction{
		UserID:    user.ID,
		Token:     token,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := a.db.Create(transaction).Error; err != nil {
		return log.Error("failed to persist session for %s", err, user.Email)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout revokes the current session transaction.
func (a *AuthController) Logout(c echo.Context) error {
	userID, _ := c.Get("userID").(string)
	if userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	if err := a.db.Where("user_id = ?", userID).Delete(&models.AuthTransaction{}).Error; err != nil {
		return log.Error("failed to revoke sessions for %s", err, userID)
	}
	return c.NoContent(http.StatusNoContent)
}

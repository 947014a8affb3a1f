package models

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"gestionale/internal/config"
	console "gestionale/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("SEEDER")

// CreateAdminFromEnv creates the bootstrap admin account when
// ADMIN_EMAIL/ADMIN_PASSWORD are set and no such user exists yet.
func CreateAdminFromEnv(db *gorm.DB, cfg *config.Config) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := &User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Admin",
		Role:      UserRoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %v", err)
	}

	log.Success("Created admin user %s", email)
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"gestionale/internal/config"
	"gestionale/internal/models"
	"gestionale/internal/utils"
	"gestionale/internal/utils/logger"

	"github.com/joho/godotenv"
)

// Debug CLI for minting and inspecting bearer tokens. Tokens minted here
// skip the auth transaction table, so they only work against code paths
// that parse tokens directly.
func main() {
	var log = logger.New("helper")
	log.Info("🔑 Starting token helper CLI")

	err := godotenv.Load()
	if err != nil {
		log.Error("❌ Failed to load environment variables", err)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("❌ Failed to load configuration", err)
		return
	}

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("Enter 'm' to mint a token, 'p' to parse one, or 'q' to quit: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		if choice == "q" {
			log.Info("👋 Exiting helper CLI")
			break
		}

		if choice == "m" {
			fmt.Print("User ID: ")
			userID, _ := reader.ReadString('\n')
			fmt.Print("Email: ")
			email, _ := reader.ReadString('\n')
			fmt.Print("Role (ADMIN, SEGRETERIA, AGENTE, DOCENTE): ")
			role, _ := reader.ReadString('\n')

			user := models.User{
				Base:  models.Base{ID: strings.TrimSpace(userID)},
				Email: strings.TrimSpace(email),
				Role:  models.UserRole(strings.TrimSpace(role)),
			}
			token, err := utils.GenerateJWT(user, cfg.JWT.Secret)
			if err != nil {
				log.Error("❌ Failed to mint token", err)
			} else {
				log.Success("✅ Token: %s", token)
			}
		} else if choice == "p" {
			fmt.Print("Enter the token to parse: ")
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			claims, err := utils.ParseJWT(input, cfg.JWT.Secret)
			if err != nil {
				log.Error("❌ Failed to parse token", err)
			} else {
				log.Success("✅ user=%s email=%s role=%s admin=%v expires=%s",
					claims.UserID, claims.Email, claims.Role, claims.IsAdmin, claims.ExpiresAt)
			}
		} else {
			log.Warn("⚠️ Invalid choice. Please enter 'm', 'p', or 'q'.")
		}
	}
}

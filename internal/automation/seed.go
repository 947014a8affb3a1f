package automation

import (
	"fmt"

	"gestionale/internal/models"
	console "gestionale/internal/utils/logger"

	"gorm.io/gorm"
)

var seedLog = console.New("AUTOMATION-SEED")

// SeedOverrides makes sure every registered action has a RuleOverride
// row, enabled with defaults, so admins can toggle actions from day one.
func SeedOverrides(db *gorm.DB) error {
	for _, action := range Actions() {
		override := models.RuleOverride{
			ActionID: action.ID,
			Enabled:  true,
			SendMode: SendModeReferente,
		}
		if action.Visibility == "partecipanti" {
			override.SendMode = SendModePartecipanti
		}
		if err := db.Where(models.RuleOverride{ActionID: action.ID}).
			FirstOrCreate(&override).Error; err != nil {
			return fmt.Errorf("failed to seed override for %s: %v", action.ID, err)
		}
	}

	seedLog.Success("Seeded %d rule overrides", len(Actions()))
	return nil
}

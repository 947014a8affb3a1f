package automation

import (
	"context"
	"errors"

	"gestionale/internal/models"

	"gorm.io/gorm"
)

// OverrideStore reads and edits the persisted RuleOverride rows.
// Implements OverrideSource for the engine; the admin API uses the write
// side.
type OverrideStore struct {
	db *gorm.DB
}

func NewOverrideStore(db *gorm.DB) *OverrideStore {
	return &OverrideStore{db: db}
}

// Get returns the override for an action, or nil when none is persisted.
func (s *OverrideStore) Get(ctx context.Context, actionID string) (*models.RuleOverride, error) {
	var override models.RuleOverride
	err := s.db.WithContext(ctx).Where("action_id = ? AND is_deleted = ?", actionID, false).First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// List returns every persisted override.
func (s *OverrideStore) List(ctx context.Context) ([]models.RuleOverride, error) {
	var overrides []models.RuleOverride
	if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// Upsert creates or updates the override for an action. The action id
// must name a registered action.
func (s *OverrideStore) Upsert(ctx context.Context, override *models.RuleOverride) error {
	if _, ok := ActionByID(override.ActionID); !ok {
		return gorm.ErrRecordNotFound
	}

	existing, err := s.Get(ctx, override.ActionID)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.db.WithContext(ctx).Create(override).Error
	}

	override.ID = existing.ID
	return s.db.WithContext(ctx).Model(&models.RuleOverride{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"enabled":          override.Enabled,
			"send_mode":        override.SendMode,
			"subject_template": override.SubjectTemplate,
			"html_template":    override.HTMLTemplate,
		}).Error
}

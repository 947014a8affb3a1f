package records

// Dynamic business-record storage. Records are (domain, type slug, jsonb)
// rows; the registry's field catalog is the only schema. The save path is
// the automation engine's caller: load before-state, write, then hand the
// diff to the engine inline so jobs are enqueued before the save returns.

import (
	"context"
	"encoding/json"
	"time"

	"gestionale/internal/automation"
	"gestionale/internal/events"
	"gestionale/internal/models"
	"gestionale/internal/registry"
	"gestionale/internal/utils"
	console "gestionale/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("RECORDS")

type Service struct {
	db     *gorm.DB
	engine *automation.Engine
}

func NewService(db *gorm.DB, engine *automation.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// Create validates the field map against the registry and persists a new
// record, then runs automations with a nil before-state.
func (s *Service) Create(ctx context.Context, domain registry.Domain, slug string, data map[string]interface{}, userID string, startAt, endAt *time.Time, participants []string) (*models.RecordEntry, error) {
	def, ok := registry.GetResourceDef(domain, slug)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	filtered := filterFields(def, data)
	jsonData, err := utils.FieldMapToJSON(filtered)
	if err != nil {
		return nil, err
	}
	participantsJSON, err := json.Marshal(participants)
	if err != nil {
		return nil, err
	}

	entry := &models.RecordEntry{
		ScopeKind:    string(domain),
		TypeSlug:     slug,
		Data:         jsonData,
		StartAt:      startAt,
		EndAt:        endAt,
		Participants: participantsJSON,
		CreatedBy:    userID,
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}

	s.runAutomations(ctx, entry, filtered, nil, userID)
	events.Emit("record.created", entry)
	return entry, nil
}

// Update persists new field values for an existing record and runs
// automations against the before/after diff.
func (s *Service) Update(ctx context.Context, domain registry.Domain, slug, id string, data map[string]interface{}, userID string, startAt, endAt *time.Time) (*models.RecordEntry, error) {
	def, ok := registry.GetResourceDef(domain, slug)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	entry, err := s.Get(ctx, domain, slug, id)
	if err != nil {
		return nil, err
	}

	previous, err := utils.JSONToFieldMap(entry.Data)
	if err != nil {
		return nil, err
	}

	filtered := filterFields(def, data)
	jsonData, err := utils.FieldMapToJSON(filtered)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"data": jsonData}
	if startAt != nil {
		updates["start_at"] = startAt
	}
	if endAt != nil {
		updates["end_at"] = endAt
	}
	if err := s.db.WithContext(ctx).Model(entry).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	entry.Data = jsonData

	s.runAutomations(ctx, entry, filtered, previous, userID)
	events.Emit("record.updated", entry)
	return entry, nil
}

// runAutomations is fire-and-forget from the caller's point of view:
// the engine logs per-rule failures and never fails the save.
func (s *Service) runAutomations(ctx context.Context, entry *models.RecordEntry, data, previous map[string]interface{}, userID string) {
	if s.engine == nil {
		return
	}

	var participantIDs []string
	if len(entry.Participants) > 0 {
		if err := json.Unmarshal(entry.Participants, &participantIDs); err != nil {
			log.Warn("record %s has unreadable participants: %v", entry.ID, err)
		}
	}

	s.engine.RunAutoActionsOnSave(ctx, automation.SaveInput{
		ResourceTypeSlug:   entry.TypeSlug,
		ResourceID:         entry.ID,
		UserID:             userID,
		Data:               data,
		PreviousData:       previous,
		Participants:       participantIDs,
		ParticipantsDetail: s.loadParticipantsDetail(ctx, participantIDs),
	})
}

// loadParticipantsDetail resolves linked anagrafica records into plain
// field maps for template rendering. Unresolvable participants are
// dropped, not fatal.
func (s *Service) loadParticipantsDetail(ctx context.Context, ids []string) []map[string]interface{} {
	if len(ids) == 0 {
		return nil
	}
	var entries []models.RecordEntry
	err := s.db.WithContext(ctx).
		Where("id IN ? AND scope_kind = ? AND is_deleted = ?", ids, string(registry.DomainAnagrafica), false).
		Find(&entries).Error
	if err != nil {
		log.Warn("failed to load participant details: %v", err)
		return nil
	}

	details := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		data, err := utils.JSONToFieldMap(entry.Data)
		if err != nil {
			continue
		}
		data["id"] = entry.ID
		details = append(details, data)
	}
	return details
}

// Get loads one record of a type.
func (s *Service) Get(ctx context.Context, domain registry.Domain, slug, id string) (*models.RecordEntry, error) {
	var entry models.RecordEntry
	err := s.db.WithContext(ctx).
		Where("id = ? AND scope_kind = ? AND type_slug = ? AND is_deleted = ?", id, string(domain), slug, false).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns records of a type. When onlyIDs is non-nil the result is
// restricted to those ids: own-only roles pass their key scopes here.
func (s *Service) List(ctx context.Context, domain registry.Domain, slug string, onlyIDs []string, page, limit int) ([]models.RecordEntry, int64, error) {
	var entries []models.RecordEntry
	var total int64

	query := s.db.WithContext(ctx).Model(&models.RecordEntry{}).
		Where("scope_kind = ? AND type_slug = ? AND is_deleted = ?", string(domain), slug, false)
	if onlyIDs != nil {
		if len(onlyIDs) == 0 {
			return []models.RecordEntry{}, 0, nil
		}
		query = query.Where("id IN ?", onlyIDs)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Delete soft-deletes a record.
func (s *Service) Delete(ctx context.Context, domain registry.Domain, slug, id string) error {
	result := s.db.WithContext(ctx).Model(&models.RecordEntry{}).
		Where("id = ? AND scope_kind = ? AND type_slug = ? AND is_deleted = ?", id, string(domain), slug, false).
		Updates(map[string]interface{}{"deleted_at": time.Now(), "is_deleted": true})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	events.Emit("record.deleted", id)
	return nil
}

// Exists implements keys.TargetFinder: the key store validates grant
// targets against live records.
func (s *Service) Exists(ctx context.Context, domain registry.Domain, slug, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.RecordEntry{}).
		Where("id = ? AND scope_kind = ? AND type_slug = ? AND is_deleted = ?", id, string(domain), slug, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// filterFields keeps only the keys the registry catalog allows. Unknown
// keys are dropped silently.
func filterFields(def *registry.ResourceDef, data map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(data))
	for key, value := range data {
		if def.HasField(key) {
			filtered[key] = value
		}
	}
	return filtered
}

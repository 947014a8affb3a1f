package keys

import (
	"context"
	"errors"

	"gestionale/internal/access"
	"gestionale/internal/models"
	"gestionale/internal/registry"
	console "gestionale/internal/utils/logger"

	"gorm.io/gorm"
)

var log = console.New("KEYS")

// ErrDuplicate is returned when the (user, domain, slug, resource) tuple
// already exists. Re-linking is a conflict, never a silent success.
var ErrDuplicate = errors.New("resource key already exists")

// ErrTargetNotFound is returned when the record the key should point at
// does not exist at creation time. Existence is not re-validated later;
// cascading deletion is the record store's job.
var ErrTargetNotFound = errors.New("resource key target not found")

// ErrUnknownScope is returned for a domain/slug pair the registry does
// not know.
var ErrUnknownScope = errors.New("unknown scope for resource key")

// TargetFinder checks that the record a key is being created against
// exists in its domain collection.
type TargetFinder interface {
	Exists(ctx context.Context, domain registry.Domain, slug, resourceID string) (bool, error)
}

// Store persists explicit per-user access grants. Reads are per-request
// and loaded once into the AuthContext; concurrent creates of the same
// tuple are resolved by the unique index, not by locking here.
type Store struct {
	db      *gorm.DB
	targets TargetFinder
}

func NewStore(db *gorm.DB, targets TargetFinder) *Store {
	return &Store{db: db, targets: targets}
}

// Create links a user to one record. Fails with ErrTargetNotFound when
// the record is missing and ErrDuplicate when the tuple already exists.
func (s *Store) Create(ctx context.Context, userID string, domain registry.Domain, slug, resourceID string) (*models.ResourceKey, error) {
	if _, ok := registry.GetResourceDef(domain, slug); !ok {
		return nil, ErrUnknownScope
	}

	exists, err := s.targets.Exists(ctx, domain, slug, resourceID)
	if err != nil {
		return nil, log.Error("failed to check key target %s/%s/%s", err, domain, slug, resourceID)
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	key := &models.ResourceKey{
		UserID:     userID,
		ScopeKind:  string(domain),
		ScopeSlug:  slug,
		ResourceID: resourceID,
	}
	if err := s.db.WithContext(ctx).Create(key).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return key, nil
}

// Delete removes a grant by tuple.
func (s *Store) Delete(ctx context.Context, userID string, domain registry.Domain, slug, resourceID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND scope_kind = ? AND scope_slug = ? AND resource_id = ?",
			userID, string(domain), slug, resourceID).
		Delete(&models.ResourceKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByID removes a grant by its row id.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ResourceKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns every grant held by a user.
func (s *Store) List(ctx context.Context, userID string) ([]models.ResourceKey, error) {
	var keysList []models.ResourceKey
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&keysList).Error; err != nil {
		return nil, err
	}
	return keysList, nil
}

// LoadUserKeyScopes builds the nested scope mapping consumed by the
// access engine. Called once per authenticated request for non-admins.
func (s *Store) LoadUserKeyScopes(ctx context.Context, userID string) (access.KeyScopes, error) {
	keysList, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	scopes := make(access.KeyScopes)
	for _, key := range keysList {
		scopes.Add(registry.Domain(key.ScopeKind), key.ScopeSlug, key.ResourceID)
	}
	return scopes, nil
}

package credentials

import (
	"context"
	"errors"
	"sync"

	"feedbridge/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists one access credential per store. Last write wins.
type Store interface {
	Save(ctx context.Context, storeID, accessToken, scope string) error
	Load(ctx context.Context, storeID string) (string, bool, error)
	Exists(ctx context.Context, storeID string) (bool, error)
	Delete(ctx context.Context, storeID string) error
}

// GormStore keeps credentials in the store_credentials table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Save(ctx context.Context, storeID, accessToken, scope string) error {
	credential := &models.StoreCredential{
		StoreID:     storeID,
		AccessToken: accessToken,
		Scope:       scope,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "updated_at"}),
		}).
		Create(credential).Error
}

func (s *GormStore) Load(ctx context.Context, storeID string) (string, bool, error) {
	var credential models.StoreCredential
	err := s.db.WithContext(ctx).Where("store_id = ?", storeID).First(&credential).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return credential.AccessToken, true, nil
}

func (s *GormStore) Exists(ctx context.Context, storeID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.StoreCredential{}).
		Where("store_id = ?", storeID).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) Delete(ctx context.Context, storeID string) error {
	return s.db.WithContext(ctx).Where("store_id = ?", storeID).
		Delete(&models.StoreCredential{}).Error
}

// MemoryStore is a process-lifetime credential store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) Save(ctx context.Context, storeID, accessToken, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[storeID] = accessToken
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, storeID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[storeID]
	return token, ok, nil
}

func (s *MemoryStore) Exists(ctx context.Context, storeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[storeID]
	return ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, storeID)
	return nil
}

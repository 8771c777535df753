package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreCredential is the live access credential for one connected store.
// One row per store; reinstalling overwrites it, uninstalling deletes it.
type StoreCredential struct {
	ID          string    `json:"id" gorm:"primary_key"`
	StoreID     string    `json:"store_id" gorm:"unique;not null"`
	AccessToken string    `json:"access_token" gorm:"not null"`
	Scope       string    `json:"scope"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *StoreCredential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

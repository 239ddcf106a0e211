package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var APIKeyTable = "api_keys"

type APIKey struct {
	SecretKey uuid.UUID `gorm:"type:uuid;primaryKey" json:"secret_key"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (k *APIKey) BeforeCreate(*gorm.DB) error {
	if k.SecretKey == uuid.Nil {
		k.SecretKey = uuid.New()
	}
	return nil
}

type APIKeys []*APIKey

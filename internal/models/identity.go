package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var IdentityTable = "identities"

type ProviderType string

const (
	ProviderTwitch  ProviderType = "twitch"
	ProviderSteam   ProviderType = "steam"
	ProviderLocal   ProviderType = "local"
	ProviderDiscord ProviderType = "discord"
)

// Identity links a user to an external login provider.
type Identity struct {
	ID                   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderType         ProviderType `gorm:"type:text;index:idx_identities_provider;not null" json:"provider_type"`
	ProviderHash         string       `gorm:"index:idx_identities_provider;not null" json:"provider_hash"`
	ProviderAccessToken  *string      `json:"provider_access_token,omitempty"`
	ProviderRefreshToken *string      `json:"provider_refresh_token,omitempty"`
	UserID               uuid.UUID    `gorm:"type:uuid;index;not null" json:"user_id"`
}

func (i *Identity) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Identities []*Identity

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var UserTable = "users"

type User struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string      `gorm:"not null" json:"name"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
	Roles      []*Role     `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	Identities []*Identity `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"identities,omitempty"`
	APIKeys    []*APIKey   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"api_keys,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasRole reports whether the user holds the named role. Roles must be
// preloaded.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r != nil && r.Name == name {
			return true
		}
	}
	return false
}

type Users []*User

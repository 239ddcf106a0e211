package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var RoleTable = "roles"

// SuperUserRole is seeded by migration and grants every permission.
const SuperUserRole = "superuser"

type Role struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string        `gorm:"uniqueIndex;not null" json:"name"`
	Permissions []*Permission `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"permissions,omitempty"`
}

func (r *Role) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Roles []*Role

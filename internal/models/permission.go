package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var PermissionTable = "permissions"

// Action is a bitmask of operations a permission grants on an entity.
type Action int

const (
	ActionNone  Action = 0
	ActionRead  Action = 1 << 0
	ActionWrite Action = 1 << 1
)

type Permission struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null" json:"name"`
	RoleID   uuid.UUID `gorm:"type:uuid;index;not null" json:"role_id"`
	EntityID string    `gorm:"index;not null" json:"entity_id"`
	Actions  Action    `gorm:"not null;default:0" json:"actions"`
}

func (p *Permission) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Allows reports whether every bit of a is granted.
func (p *Permission) Allows(a Action) bool {
	return p.Actions&a == a
}

type Permissions []*Permission

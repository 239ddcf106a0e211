package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var SessionTable = "sessions"

// Session is a persisted HTTP session. Destroyed sessions are soft
// deleted through DestroyedAt.
type Session struct {
	ID          string         `gorm:"type:varchar(255);primaryKey" json:"id"`
	ExpiredAt   int64          `gorm:"index;not null" json:"expired_at"`
	JSON        datatypes.JSON `gorm:"column:json;type:text;not null" json:"json"`
	DestroyedAt gorm.DeletedAt `gorm:"index" json:"destroyed_at,omitempty"`
}

// Expired reports whether the session has expired at now.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiredAt <= now.UnixMilli()
}

type Sessions []*Session

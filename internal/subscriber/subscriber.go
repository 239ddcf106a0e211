// Package subscriber attaches entity event listeners to a database
// handle through gorm callbacks.
package subscriber

import (
	"github.com/nodecg/nodecg/internal/metrics"
	"github.com/nodecg/nodecg/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Subscriber observes entity events on a handle.
type Subscriber interface {
	Name() string
	Register(db *gorm.DB) error
}

// Default returns the subscribers attached to every nodecg database.
func Default() []Subscriber {
	return []Subscriber{Audit{}}
}

// RegisterAll attaches each subscriber to db in order.
func RegisterAll(db *gorm.DB, subscribers []Subscriber) error {
	for _, s := range subscribers {
		if err := s.Register(db); err != nil {
			return errors.Wrapf(err, "failed to register subscriber %s", s.Name())
		}
	}
	return nil
}

// Audit counts and logs every successful entity write.
type Audit struct{}

func (Audit) Name() string {
	return "audit"
}

func (a Audit) Register(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().After("gorm:create").Register("nodecg:audit_create", a.observe("create")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("nodecg:audit_update", a.observe("update")); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("nodecg:audit_delete", a.observe("delete"))
}

func (Audit) observe(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement == nil || tx.Statement.Table == "" {
			return
		}
		if tx.RowsAffected <= 0 {
			return
		}

		table := tx.Statement.Table
		metrics.EntityWritesTotal.WithLabelValues(table, operation).Add(float64(tx.RowsAffected))
		log.Debug("entity write", "table", table, "operation", operation, "rows", tx.RowsAffected)
	}
}

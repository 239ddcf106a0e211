// Package migration applies versioned SQL scripts to a database, once
// each and in order.
//
// Scripts are discovered in a Source by glob and must be named
// YYYYMMDDHHMMSS_comment.sql. Every applied script is recorded in the
// migrations table in the same transaction that ran it, so a failing
// script leaves neither its changes nor its record behind.
package migration

import (
	"context"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/nodecg/nodecg/internal/metrics"
	"github.com/nodecg/nodecg/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Table holds one row per applied migration.
const Table = "migrations"

var reFilename = regexp.MustCompile(`^(\d{14})_(.+)\.sql$`)

// Record is a row of the migrations table.
type Record struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"not null"`
	Path      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (Record) TableName() string {
	return Table
}

// Source locates migration scripts.
type Source struct {
	FS    fs.FS
	Globs []string
}

// Script is a migration discovered in a Source.
type Script struct {
	ID   int64
	Name string
	Path string
}

// Status describes which scripts of a source have been applied.
type Status struct {
	Applied []Record
	Pending []Script
}

// Discover lists the scripts matched by the source's globs, ordered by
// ID. Files whose names do not follow the migration pattern are skipped.
func Discover(src Source) ([]Script, error) {
	if src.FS == nil {
		return nil, nil
	}

	globs := src.Globs
	if len(globs) == 0 {
		globs = []string{"**/*.sql"}
	}

	seen := map[int64]string{}
	scripts := []Script{}

	for _, pattern := range globs {
		matches, err := doublestar.Glob(src.FS, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid migration glob %q", pattern)
		}

		for _, match := range matches {
			m := reFilename.FindStringSubmatch(path.Base(match))
			if m == nil {
				log.Debug("skipping non-migration file", "path", match)
				continue
			}

			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid migration id in %q", match)
			}

			if existing, ok := seen[id]; ok {
				if existing == match {
					continue
				}
				return nil, errors.Errorf("duplicate migration id %d: %q and %q", id, existing, match)
			}
			seen[id] = match

			scripts = append(scripts, Script{ID: id, Name: m[2], Path: match})
		}
	}

	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].ID < scripts[j].ID
	})

	return scripts, nil
}

// Run applies every pending script of src and returns the records it
// wrote. It stops at the first failing script.
func Run(ctx context.Context, db *gorm.DB, src Source) ([]Record, error) {
	db = db.WithContext(ctx)

	scripts, err := Discover(src)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, errors.Wrap(err, "failed to create migrations table")
	}

	applied, err := appliedIDs(db)
	if err != nil {
		return nil, err
	}

	records := []Record{}
	for _, s := range scripts {
		if _, ok := applied[s.ID]; ok {
			continue
		}

		log.Info("applying migration", "id", s.ID, "name", s.Name)

		record, err := apply(db, src.FS, s)
		if err != nil {
			return records, errors.Wrapf(err, "migration %s failed", s.Path)
		}

		metrics.MigrationsAppliedTotal.Inc()
		records = append(records, record)
	}

	return records, nil
}

func apply(db *gorm.DB, fsys fs.FS, s Script) (Record, error) {
	body, err := fs.ReadFile(fsys, s.Path)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		ID:        s.ID,
		Name:      s.Name,
		Path:      s.Path,
		AppliedAt: time.Now().UTC(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(body)).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})

	return record, err
}

// Inspect reports applied and pending scripts without changing the
// database.
func Inspect(ctx context.Context, db *gorm.DB, src Source) (*Status, error) {
	db = db.WithContext(ctx)

	scripts, err := Discover(src)
	if err != nil {
		return nil, err
	}

	status := &Status{Applied: []Record{}, Pending: []Script{}}

	if db.Migrator().HasTable(Table) {
		if err := db.Order("id").Find(&status.Applied).Error; err != nil {
			return nil, errors.Wrap(err, "failed to read migrations table")
		}
	}

	applied := make(map[int64]struct{}, len(status.Applied))
	for _, r := range status.Applied {
		applied[r.ID] = struct{}{}
	}

	for _, s := range scripts {
		if _, ok := applied[s.ID]; !ok {
			status.Pending = append(status.Pending, s)
		}
	}

	return status, nil
}

func appliedIDs(db *gorm.DB) (map[int64]struct{}, error) {
	var ids []int64
	if err := db.Model(&Record{}).Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "failed to read migrations table")
	}

	applied := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		applied[id] = struct{}{}
	}
	return applied, nil
}

// Package sqlite builds gorm dialectors for the nodecg database and
// classifies errors returned by the SQLite driver.
package sqlite

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Memory is the storage target that selects a private in-memory database.
const Memory = ":memory:"

type pragma struct {
	name  string
	value string
}

func persistentPragmas(busyTimeout time.Duration) []pragma {
	return []pragma{
		{name: "_foreign_keys", value: "1"},
		{name: "_busy_timeout", value: fmt.Sprint(busyTimeout.Milliseconds())},
		{name: "_journal_mode", value: "WAL"},
		{name: "_synchronous", value: "NORMAL"},
	}
}

func readOnlyPragmas(busyTimeout time.Duration) []pragma {
	return []pragma{
		{name: "mode", value: "ro"},
		{name: "_busy_timeout", value: fmt.Sprint(busyTimeout.Milliseconds())},
	}
}

var memoryPragmas = []pragma{
	{name: "mode", value: "memory"},
	{name: "cache", value: "shared"},
	{name: "_foreign_keys", value: "1"},
}

// IsMemory reports whether target names an in-memory database.
func IsMemory(target string) bool {
	return target == Memory || strings.HasPrefix(target, "file::memory:") || strings.Contains(target, "mode=memory")
}

// DSN returns the go-sqlite3 connection string for target. The in-memory
// marker becomes a uniquely named shared-cache database so that every
// pooled connection sees the same data.
func DSN(target string, busyTimeout time.Duration) string {
	if target == Memory {
		return build("file:"+uuid.NewString(), memoryPragmas)
	}
	if IsMemory(target) {
		return target
	}
	return build(fileURI(target), persistentPragmas(busyTimeout))
}

// ReadOnlyDSN returns a connection string that opens the file at target
// without write access and without changing its journal mode.
func ReadOnlyDSN(target string, busyTimeout time.Duration) string {
	return build(fileURI(target), readOnlyPragmas(busyTimeout))
}

// fileURI percent-escapes path so characters such as '#', '?' and '%'
// stay part of the file name.
func fileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

func build(base string, pragmas []pragma) string {
	values := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		values = append(values, url.QueryEscape(p.name)+"="+url.QueryEscape(p.value))
	}
	return base + "?" + strings.Join(values, "&")
}

// Open returns a gorm dialector for target.
func Open(target string, busyTimeout time.Duration) gorm.Dialector {
	return gormsqlite.Open(DSN(target, busyTimeout))
}

// OpenReadOnly returns a gorm dialector that only reads the file at target.
func OpenReadOnly(target string, busyTimeout time.Duration) gorm.Dialector {
	return gormsqlite.Open(ReadOnlyDSN(target, busyTimeout))
}

// Version returns the version of the linked SQLite library.
func Version() string {
	v, _, _ := sqlite3.Version()
	return v
}

// IsBusy reports whether err was caused by another connection holding a
// lock on the database.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// IsConstraint reports whether err is a constraint violation.
func IsConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

package db

import (
	"os"
	"time"

	"github.com/nodecg/nodecg/internal/migration"
	"github.com/nodecg/nodecg/internal/models"
	"github.com/nodecg/nodecg/internal/subscriber"
	"github.com/nodecg/nodecg/migrations"
	"github.com/nodecg/nodecg/pkg/env"
	"github.com/nodecg/nodecg/pkg/sqlite"
)

// Mode selects where the database lives.
type Mode int

const (
	// Production stores the database in the configured file.
	Production Mode = iota
	// Test uses a fresh in-memory database.
	Test
)

func (m Mode) String() string {
	switch m {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}

// Config describes the database a Provider opens.
type Config struct {
	Mode        Mode
	Path        string
	Entities    []interface{}
	Migrations  migration.Source
	Subscribers []subscriber.Subscriber
	Logging     bool
	BusyTimeout time.Duration
}

// Options is the configuration resolved when the handle is opened.
type Options struct {
	Target        string
	Synchronize   bool
	MigrationsRun bool
	Logging       bool
}

// Resolve computes the options the handle will be opened with. In
// production mode the schema is synchronized only when the database
// file does not exist yet.
func (c Config) Resolve() Options {
	opts := Options{
		Target:        c.Path,
		MigrationsRun: true,
		Logging:       c.Logging,
	}

	if c.Mode == Test {
		opts.Target = sqlite.Memory
		opts.Synchronize = true
		return opts
	}

	opts.Synchronize = !fileExists(c.Path)
	return opts
}

// ConfigFromEnv returns the configuration of the process-wide database.
func ConfigFromEnv(vars env.Environment) (Config, error) {
	path, err := vars.DatabaseFile()
	if err != nil {
		return Config{}, err
	}

	mode := Production
	if vars.Test.Enabled() {
		mode = Test
	}

	return Config{
		Mode:        mode,
		Path:        path,
		Entities:    models.All,
		Migrations:  migrations.Source(),
		Subscribers: subscriber.Default(),
		Logging:     vars.DBLogging,
		BusyTimeout: vars.DBBusyTimeout,
	}, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nodecg/nodecg/internal/metrics"
	"github.com/nodecg/nodecg/internal/migration"
	"github.com/nodecg/nodecg/internal/subscriber"
	"github.com/nodecg/nodecg/pkg/log"
	"github.com/nodecg/nodecg/pkg/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	dirPermissions     = 0750
	defaultBusyTimeout = 5 * time.Second
)

// Provider opens a database handle on first use and hands out the same
// handle on every later call. Failed opens are not cached.
type Provider struct {
	cfg Config

	mu     sync.RWMutex
	handle *gorm.DB
	opts   Options
}

// NewProvider returns a provider for cfg. Nothing is opened until
// Connection is called.
func NewProvider(cfg Config) *Provider {
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = defaultBusyTimeout
	}
	return &Provider{cfg: cfg}
}

// Connection returns the provider's handle, opening it on first use.
// Concurrent first callers wait for a single open.
func (p *Provider) Connection(ctx context.Context) (*gorm.DB, error) {
	p.mu.RLock()
	handle := p.handle
	p.mu.RUnlock()

	if handle != nil {
		return handle, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != nil {
		return p.handle, nil
	}

	opts := p.cfg.Resolve()

	handle, err := p.open(ctx, opts)
	if err != nil {
		var cerr *ConnectionError
		if errors.As(err, &cerr) {
			metrics.ConnectionErrorsTotal.WithLabelValues(cerr.Op).Inc()
		}
		return nil, err
	}

	p.handle = handle
	p.opts = opts
	metrics.ConnectionsOpenedTotal.WithLabelValues(p.cfg.Mode.String()).Inc()

	return handle, nil
}

// Options returns the resolved options of the open handle and whether a
// handle has been opened.
func (p *Provider) Options() (Options, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.opts, p.handle != nil
}

// Close closes the handle if one is open. A later Connection call opens
// a new one.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == nil {
		return nil
	}

	sqlDB, err := p.handle.DB()
	if err != nil {
		return err
	}

	p.handle = nil
	p.opts = Options{}

	return sqlDB.Close()
}

func (p *Provider) open(ctx context.Context, opts Options) (*gorm.DB, error) {
	fail := func(op string, err error) error {
		switch {
		case sqlite.IsBusy(err):
			log.Error("database is locked by another process", "target", opts.Target, "op", op)
		case sqlite.IsConstraint(err):
			log.Error("database constraint violated", "target", opts.Target, "op", op, "error", err)
		}
		return &ConnectionError{Op: op, Target: opts.Target, Err: err}
	}

	if p.cfg.Mode == Test {
		log.Warn("using in-memory test database")
	} else if err := os.MkdirAll(filepath.Dir(opts.Target), dirPermissions); err != nil {
		return nil, fail(OpOpen, err)
	}

	level := gormlogger.Silent
	if opts.Logging {
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(sqlite.Open(opts.Target, p.cfg.BusyTimeout), &gorm.Config{
		Logger: log.NewGormLogger(opts.Logging).LogMode(level),
	})
	if err != nil {
		if gdb != nil {
			if sqlDB, dbErr := gdb.DB(); dbErr == nil {
				sqlDB.Close()
			}
		}
		return nil, fail(OpOpen, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fail(OpOpen, err)
	}

	// sqlite allows a single writer; an in-memory database also
	// disappears once its last connection closes.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	ok := false
	defer func() {
		if !ok {
			sqlDB.Close()
		}
	}()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fail(OpOpen, err)
	}

	log.Debug("opened database", "target", opts.Target, "sqlite", sqlite.Version(), "synchronize", opts.Synchronize)

	gdb = gdb.WithContext(ctx)

	if opts.Synchronize {
		log.Info("synchronizing database schema", "target", opts.Target, "entities", len(p.cfg.Entities))
		if err := gdb.AutoMigrate(p.cfg.Entities...); err != nil {
			return nil, fail(OpSynchronize, err)
		}
	}

	if opts.MigrationsRun {
		if _, err := migration.Run(ctx, gdb, p.cfg.Migrations); err != nil {
			return nil, fail(OpMigrate, err)
		}
	}

	if err := subscriber.RegisterAll(gdb, p.cfg.Subscribers); err != nil {
		return nil, fail(OpSubscribe, err)
	}

	ok = true

	return gdb.WithContext(context.Background()), nil
}

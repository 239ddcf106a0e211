package db

import (
	"context"
	"sync"

	"github.com/nodecg/nodecg/pkg/env"
	"gorm.io/gorm"
)

var (
	defaultOnce     sync.Once
	defaultProvider *Provider
	defaultErr      error
)

// Default returns the process-wide provider, configured from the
// environment on first use.
func Default() (*Provider, error) {
	defaultOnce.Do(func() {
		cfg, err := ConfigFromEnv(env.Variables())
		if err != nil {
			defaultErr = err
			return
		}
		defaultProvider = NewProvider(cfg)
	})
	return defaultProvider, defaultErr
}

// Connection returns the process-wide database handle.
func Connection(ctx context.Context) (*gorm.DB, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	return p.Connection(ctx)
}

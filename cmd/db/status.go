package db

import (
	"context"
	"os"
	"time"

	"github.com/nodecg/nodecg/internal/migration"
	"github.com/nodecg/nodecg/internal/models"
	"github.com/nodecg/nodecg/migrations"
	"github.com/nodecg/nodecg/pkg/db"
	"github.com/nodecg/nodecg/pkg/env"
	"github.com/nodecg/nodecg/pkg/log"
	"github.com/nodecg/nodecg/pkg/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the state of the on-disk database",
	Long:    "Reports entity tables and applied or pending migrations of the on-disk database without modifying it.",
	Example: "nodecg db status -o yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := db.ConfigFromEnv(env.Variables())
		if err != nil {
			return err
		}

		r, err := inspect(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), statusOutput, r)
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format: text, json or yaml")
}

type report struct {
	Mode        string           `json:"mode" yaml:"mode"`
	Path        string           `json:"path" yaml:"path"`
	Initialized bool             `json:"initialized" yaml:"initialized"`
	Tables      []tableStatus    `json:"tables,omitempty" yaml:"tables,omitempty"`
	Migrations  []migrationState `json:"migrations,omitempty" yaml:"migrations,omitempty"`
}

type tableStatus struct {
	Name    string `json:"name" yaml:"name"`
	Present bool   `json:"present" yaml:"present"`
}

type migrationState struct {
	ID        int64      `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	AppliedAt *time.Time `json:"applied_at,omitempty" yaml:"applied_at,omitempty"`
}

func inspect(ctx context.Context, cfg db.Config) (*report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	r := &report{Mode: cfg.Mode.String(), Path: cfg.Path}

	if _, err := os.Stat(cfg.Path); err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.OpenReadOnly(cfg.Path, cfg.BusyTimeout), &gorm.Config{
		Logger: log.NewGormLogger(false),
	})
	if err != nil {
		return nil, err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	gdb = gdb.WithContext(ctx)

	for _, table := range models.Tables {
		present := gdb.Migrator().HasTable(table)
		r.Initialized = r.Initialized || present
		r.Tables = append(r.Tables, tableStatus{Name: table, Present: present})
	}

	status, err := migration.Inspect(ctx, gdb, migrations.Source())
	if err != nil {
		return nil, err
	}

	for _, applied := range status.Applied {
		at := applied.AppliedAt
		r.Migrations = append(r.Migrations, migrationState{ID: applied.ID, Name: applied.Name, AppliedAt: &at})
	}
	for _, pending := range status.Pending {
		r.Migrations = append(r.Migrations, migrationState{ID: pending.ID, Name: pending.Name})
	}

	return r, nil
}

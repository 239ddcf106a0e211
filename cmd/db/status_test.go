package db

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nodecg/nodecg/internal/models"
	"github.com/nodecg/nodecg/internal/subscriber"
	"github.com/nodecg/nodecg/migrations"
	"github.com/nodecg/nodecg/pkg/db"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type StatusSuite struct {
	suite.Suite
	cfg db.Config
}

func TestStatusSuite(t *testing.T) {
	suite.Run(t, new(StatusSuite))
}

func (s *StatusSuite) SetupTest() {
	s.cfg = db.Config{
		Mode:        db.Production,
		Path:        filepath.Join(s.T().TempDir(), "db", "nodecg.sqlite3"),
		Entities:    models.All,
		Migrations:  migrations.Source(),
		Subscribers: subscriber.Default(),
	}
}

func (s *StatusSuite) create() {
	p := db.NewProvider(s.cfg)
	_, err := p.Connection(context.Background())
	s.Require().NoError(err)
	s.Require().NoError(p.Close())
}

func (s *StatusSuite) TestInspectMissingDatabase() {
	r, err := inspect(context.Background(), s.cfg)
	s.Require().NoError(err)
	s.False(r.Initialized)
	s.Empty(r.Tables)
	s.NoFileExists(s.cfg.Path)
}

func (s *StatusSuite) TestInspectCreatedDatabase() {
	s.create()

	r, err := inspect(context.Background(), s.cfg)
	s.Require().NoError(err)
	s.True(r.Initialized)
	s.Equal("production", r.Mode)
	s.Len(r.Tables, len(models.Tables))
	for _, t := range r.Tables {
		s.True(t.Present, t.Name)
	}

	s.Require().Len(r.Migrations, 2)
	for _, m := range r.Migrations {
		s.NotNil(m.AppliedAt, m.Name)
	}
}

func (s *StatusSuite) TestInspectLeavesDatabaseUntouched() {
	s.cfg.Path = filepath.Join(s.T().TempDir(), "C#shows", "nodecg.sqlite3")
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.cfg.Path), 0o750))

	gdb, err := gorm.Open(gormsqlite.Open(s.cfg.Path), &gorm.Config{})
	s.Require().NoError(err)
	s.Require().NoError(gdb.AutoMigrate(models.All...))
	sqlDB, err := gdb.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	r, err := inspect(context.Background(), s.cfg)
	s.Require().NoError(err)
	s.True(r.Initialized)
	s.Require().Len(r.Migrations, 2)
	for _, m := range r.Migrations {
		s.Nil(m.AppliedAt, m.Name)
	}

	s.NoFileExists(s.cfg.Path + "-wal")

	gdb, err = gorm.Open(gormsqlite.Open(s.cfg.Path), &gorm.Config{})
	s.Require().NoError(err)
	var mode string
	s.Require().NoError(gdb.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	s.Equal("delete", mode)
	s.False(gdb.Migrator().HasTable("migrations"))
	sqlDB, err = gdb.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *StatusSuite) TestRenderFormats() {
	s.create()

	r, err := inspect(context.Background(), s.cfg)
	s.Require().NoError(err)

	var out bytes.Buffer
	s.Require().NoError(render(&out, "json", r))
	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(out.Bytes(), &decoded))
	s.Equal(true, decoded["initialized"])

	out.Reset()
	s.Require().NoError(render(&out, "yaml", r))
	decoded = map[string]any{}
	s.Require().NoError(yaml.Unmarshal(out.Bytes(), &decoded))
	s.Equal("production", decoded["mode"])

	out.Reset()
	s.Require().NoError(render(&out, "text", r))
	s.Contains(out.String(), "seed_superuser_role")
	s.Contains(out.String(), "api_keys")

	s.Error(render(&out, "xml", r))
}

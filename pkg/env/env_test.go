package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type EnvTestSuite struct {
	suite.Suite
}

func (s *EnvTestSuite) SetupTest() {
	for _, key := range []string{
		"NODECG_LOG_LEVEL",
		"NODECG_TEST",
		"NODECG_ROOT",
		"NODECG_DB_PATH",
		"NODECG_DB_LOGGING",
		"NODECG_DB_BUSY_TIMEOUT",
	} {
		s.T().Setenv(key, "")
		os.Unsetenv(key)
	}
	variables = new(Environment)
}

func (s *EnvTestSuite) TestProcess() {
	assert.Nil(s.T(), Process())
	assert.NotNil(s.T(), Variables())
	assert.Equal(s.T(), "info", Variables().LogLevel)
	assert.False(s.T(), Variables().Test.Enabled())
	assert.Equal(s.T(), "db/nodecg.sqlite3", Variables().DBPath)
	assert.False(s.T(), Variables().DBLogging)
	assert.Equal(s.T(), 5*time.Second, Variables().DBBusyTimeout)
}

func (s *EnvTestSuite) TestProcessTestFlag() {
	for value, expected := range map[string]bool{
		"true":  true,
		"TRUE":  true,
		"True":  true,
		"false": false,
		"1":     false,
		"yes":   false,
	} {
		s.T().Setenv("NODECG_TEST", value)
		variables = new(Environment)
		require.Nil(s.T(), Process())
		assert.Equal(s.T(), expected, Variables().Test.Enabled(), value)
	}
}

func (s *EnvTestSuite) TestProcessInvalidTypeFailure() {
	s.T().Setenv("NODECG_DB_BUSY_TIMEOUT", "not_a_duration")
	assert.NotNil(s.T(), Process())
}

func (s *EnvTestSuite) TestProcessInvalidLogLevelFailure() {
	s.T().Setenv("NODECG_LOG_LEVEL", "bogus")
	assert.NotNil(s.T(), Process())
}

func (s *EnvTestSuite) TestDatabaseFile() {
	root := s.T().TempDir()

	e := Environment{Root: root, DBPath: "db/nodecg.sqlite3"}
	path, err := e.DatabaseFile()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), filepath.Join(root, "db", "nodecg.sqlite3"), path)

	abs := filepath.Join(root, "elsewhere.sqlite3")
	e.DBPath = abs
	path, err = e.DatabaseFile()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), abs, path)
}

func (s *EnvTestSuite) TestRootPathDefaultsToWorkingDirectory() {
	wd, err := os.Getwd()
	require.NoError(s.T(), err)

	root, err := Environment{}.RootPath()
	require.NoError(s.T(), err)
	assert.Equal(s.T(), wd, root)
}

func TestEnvTestSuite(t *testing.T) {
	suite.Run(t, new(EnvTestSuite))
}

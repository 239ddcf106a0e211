package env

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/nodecg/nodecg/pkg/log"
	"github.com/pkg/errors"
)

var variables = new(Environment)

// Process the environment variables set for nodecg.
func Process() error {
	if err := envconfig.Process("nodecg", variables); err != nil {
		return errors.Wrap(err, "failed to process environment variables")
	}

	// set the log level
	if err := log.SetLevel(variables.LogLevel); err != nil {
		return errors.Wrap(err, "failed to set log level")
	}

	return nil
}

// Variables returns the processed environment variables.
func Variables() Environment {
	return *variables
}

// Environment defines the environment variables used
// by nodecg.
type Environment struct {
	LogLevel      string        `default:"info" envconfig:"LOG_LEVEL"`
	Test          Flag          `envconfig:"TEST"`
	Root          string        `default:"" envconfig:"ROOT"`
	DBPath        string        `default:"db/nodecg.sqlite3" envconfig:"DB_PATH"`
	DBLogging     bool          `default:"false" envconfig:"DB_LOGGING"`
	DBBusyTimeout time.Duration `default:"5s" envconfig:"DB_BUSY_TIMEOUT"`
}

// RootPath returns the absolute application root. An unset root
// resolves to the working directory.
func (e Environment) RootPath() (string, error) {
	root := e.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "failed to resolve working directory")
		}
		root = wd
	}
	return filepath.Abs(root)
}

// DatabaseFile returns the absolute path of the on-disk database.
func (e Environment) DatabaseFile() (string, error) {
	if filepath.IsAbs(e.DBPath) {
		return filepath.Clean(e.DBPath), nil
	}

	root, err := e.RootPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, e.DBPath), nil
}

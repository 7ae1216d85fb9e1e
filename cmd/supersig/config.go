package main

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/iov-one/supersig/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the process configuration, read from the environment.
type Config struct {
	// Home is the directory holding the state database.
	Home string `env:"SUPERSIG_HOME"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `env:"SUPERSIG_LOG_LEVEL" envDefault:"info"`
	// Journal is the path of the event journal. Relative paths are
	// resolved against Home. "off" disables it.
	Journal string `env:"SUPERSIG_JOURNAL" envDefault:"events.db"`
	// Debug prints errors with their stack trace.
	Debug bool `env:"SUPERSIG_DEBUG"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, errors.Wrapf(errors.ErrInput, "parse env: %s", err)
	}
	if c.Home == "" {
		c.Home = filepath.Join(os.ExpandEnv("$HOME"), ".supersig")
	}
	return c, nil
}

// JournalPath returns the path of the event journal, or an empty string if
// journaling is disabled.
func (c Config) JournalPath() string {
	switch {
	case c.Journal == "" || c.Journal == "off":
		return ""
	case filepath.IsAbs(c.Journal):
		return c.Journal
	default:
		return filepath.Join(c.Home, c.Journal)
	}
}

// StatePath returns the path of the state database.
func (c Config) StatePath() string {
	return filepath.Join(c.Home, "state")
}

// Logger returns a logger writing to stdout, filtered by LogLevel.
func (c Config) Logger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "supersig")
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}

package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/grailbio/base/log"
	"github.com/mitchellh/go-homedir"
	"github.com/vaughan0/go-ini"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ConfigFilename is the optional ini file read from the home directory.
const ConfigFilename = "e2estore.ini"

// Config holds runtime wiring options for building the app. Zero fields are
// unset.
type Config struct {
	Home             string `env:"E2ESTORE_HOME"`              // data directory, e.g. $HOME/.e2estore
	Backend          string `env:"E2ESTORE_BACKEND"`           // file or sqlite
	LogLevel         string `env:"E2ESTORE_LOG_LEVEL"`         // off, error, info or debug
	FlushParallelism int    `env:"E2ESTORE_FLUSH_PARALLELISM"` // concurrent flushes and checks
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		Home:             "~/.e2estore",
		Backend:          BackendFile,
		LogLevel:         "info",
		FlushParallelism: 8,
	}
}

// LoadConfig resolves the configuration. Sources in increasing precedence
// are the defaults, <home>/e2estore.ini, the environment and flags. The home
// directory itself is taken from flags, then the environment, then the
// default, since it locates the ini file.
func LoadConfig(flags Config) (Config, error) {
	var fromEnv Config
	if err := env.Parse(&fromEnv); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Home = firstNonEmpty(flags.Home, fromEnv.Home, cfg.Home)
	home, err := homedir.Expand(cfg.Home)
	if err != nil {
		return Config{}, err
	}
	cfg.Home = home

	if err := applyIni(&cfg, filepath.Join(cfg.Home, ConfigFilename)); err != nil {
		return Config{}, err
	}
	cfg.merge(fromEnv)
	cfg.merge(flags)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports unusable settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.FlushParallelism < 1 {
		return fmt.Errorf("flush parallelism must be positive, got %d", c.FlushParallelism)
	}
	return nil
}

// merge overwrites c with every set field of o except Home.
func (c *Config) merge(o Config) {
	if o.Backend != "" {
		c.Backend = o.Backend
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.FlushParallelism != 0 {
		c.FlushParallelism = o.FlushParallelism
	}
}

// applyIni overlays the ini file at path, if there is one.
func applyIni(c *Config, path string) error {
	f, err := ini.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if v, ok := f.Get("store", "backend"); ok {
		c.Backend = v
	}
	if v, ok := f.Get("store", "flushparallelism"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: [store] flushparallelism: %w", path, err)
		}
		c.FlushParallelism = n
	}
	if v, ok := f.Get("log", "level"); ok {
		c.LogLevel = v
	}
	return nil
}

// ParseLevel maps a level name to a log.Level.
func ParseLevel(s string) (log.Level, error) {
	switch s {
	case "off":
		return log.Off, nil
	case "error":
		return log.Error, nil
	case "info":
		return log.Info, nil
	case "debug":
		return log.Debug, nil
	}
	return log.Off, fmt.Errorf("invalid log level %q", s)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package config loads ballotgrid.toml.
//
// Settings come from, in increasing precedence: built-in defaults, the TOML
// file, and environment variables. A .env file in the working directory is
// loaded into the environment first. Connection strings are usually
// supplied through the environment:
//
//	BALLOTGRID_REDIS_URL   overrides [cache] redis_url
//	BALLOTGRID_MONGO_URI   overrides [store] mongo_uri
//	BALLOTGRID_ADDR        overrides [server] addr
//
// Example file:
//
//	[ballot]
//	paper = "legal"
//	columns = 3
//
//	[rotation]
//	strategy = "statutory"
//	start_letter = "K"
//
//	[cache]
//	backend = "redis"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/ballotgrid/pkg/ballot"
	bgerrors "github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

// Backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Environment variables.
const (
	EnvRedisURL = "BALLOTGRID_REDIS_URL"
	EnvMongoURI = "BALLOTGRID_MONGO_URI"
	EnvAddr     = "BALLOTGRID_ADDR"
)

// DefaultAddr is the API listen address.
const DefaultAddr = ":8080"

// DefaultOracleCapacity bounds concurrent layout measurements.
const DefaultOracleCapacity = 4

// Config is the decoded configuration.
type Config struct {
	Ballot      Ballot           `toml:"ballot"`
	Rotation    Rotation         `toml:"rotation"`
	Calibration grid.Calibration `toml:"calibration"`
	Cache       Cache            `toml:"cache"`
	Store       Store            `toml:"store"`
	Oracle      Oracle           `toml:"oracle"`
	Server      Server           `toml:"server"`
}

// Ballot holds layout settings.
type Ballot struct {
	// Paper overrides the election's paper size when set.
	Paper          string  `toml:"paper"`
	Columns        int     `toml:"columns"`
	MeasureColumns int     `toml:"measure_columns"`
	Gap            float64 `toml:"gap"`
}

// Rotation selects the candidate rotation strategy.
type Rotation struct {
	Strategy    string `toml:"strategy"`
	StartLetter string `toml:"start_letter"`

	// Advance moves the start one candidate further for each precinct,
	// beginning Cycle candidates past StartLetter. Otherwise every precinct
	// starts at StartLetter.
	Advance bool `toml:"advance"`
	Cycle   int  `toml:"cycle"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`

	// Prefix namespaces every key, for backends shared between deployments.
	Prefix string `toml:"prefix"`
}

// Store selects the election store backend.
type Store struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Oracle bounds the measurement oracle.
type Oracle struct {
	Capacity int `toml:"capacity"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Ballot: Ballot{
			Columns:        ballot.DefaultColumns,
			MeasureColumns: ballot.DefaultMeasureColumns,
			Gap:            ballot.DefaultGap,
		},
		Rotation: Rotation{Strategy: rotation.NameIdentity, StartLetter: "A"},
		Cache:    Cache{Backend: BackendFile},
		Store:    Store{Backend: BackendFile},
		Oracle:   Oracle{Capacity: DefaultOracleCapacity},
		Server:   Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/ballotgrid/config.toml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "ballotgrid", "config.toml")
}

// Load reads the configuration. An empty path tries DefaultPath and uses
// the defaults when it does not exist; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, bgerrors.Wrap(bgerrors.ErrCodeInvalidConfig, err, "load .env")
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return nil, bgerrors.Wrap(bgerrors.ErrCodeInvalidConfig, err, "read config").With("path", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return nil, bgerrors.New(bgerrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String()).
					With("path", path)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values and backend requirements.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return bgerrors.New(bgerrors.ErrCodeInvalidConfig, format, args...)
	}
	if c.Ballot.Paper != "" {
		if _, err := grid.ParsePaperSize(c.Ballot.Paper); err != nil {
			return invalid("ballot.paper: %v", err)
		}
	}
	if _, err := c.RotationStrategy(); err != nil {
		return invalid("rotation.strategy: %v", err)
	}
	if c.Rotation.Cycle < 0 {
		return invalid("rotation.cycle must not be negative")
	}
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend (or set %s)", EnvRedisURL)
		}
	default:
		return invalid("unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case BackendFile:
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return invalid("store.mongo_uri is required for the mongo backend (or set %s)", EnvMongoURI)
		}
	default:
		return invalid("unknown store.backend %q", c.Store.Backend)
	}
	if c.Oracle.Capacity < 1 {
		return invalid("oracle.capacity must be at least 1")
	}
	return nil
}

// RotationStrategy returns the configured rotation strategy.
func (c *Config) RotationStrategy() (rotation.Strategy, error) {
	letter := c.Rotation.StartLetter
	if letter == "" {
		letter = "A"
	}
	var rule rotation.StartRule = rotation.LetterRule{Letter: letter}
	if c.Rotation.Advance {
		rule = rotation.CycleOffsetRule{Letter: letter, Cycle: c.Rotation.Cycle}
	}
	return rotation.Parse(c.Rotation.Strategy, rule)
}

// BallotOptions returns layout options for the ballot package.
func (c *Config) BallotOptions() ballot.Options {
	return ballot.Options{
		Columns:        c.Ballot.Columns,
		MeasureColumns: c.Ballot.MeasureColumns,
		Gap:            c.Ballot.Gap,
	}
}

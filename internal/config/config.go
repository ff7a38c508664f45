// Package config resolves runtime settings. Sources are applied in order:
// built-in defaults, the YAML config file, a .env file, environment
// variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/vitalflow/internal/constants"
	"github.com/julianstephens/vitalflow/internal/utils"
)

// DefaultFile is the config file read when --config is not given.
const DefaultFile = "~/.config/vitalflow/config.yaml"

var ErrInvalidConfig = errors.New("invalid configuration")

type Coach struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	APIKey  string        `yaml:"apiKey"`
}

type Config struct {
	Store    string `yaml:"store"`
	IDScheme string `yaml:"idScheme"`
	Timezone string `yaml:"timezone"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"logLevel"`
	Coach    Coach  `yaml:"coach"`
}

// Flags carries the command-line values. Empty strings and false leave the
// resolved value alone.
type Flags struct {
	Store    string
	IDScheme string
	Timezone string
	Debug    bool
	LogLevel string
}

func Default() *Config {
	return &Config{
		Store:    constants.DefaultConfigPath,
		IDScheme: constants.DefaultIDScheme,
		Timezone: constants.DefaultTimezone,
		LogLevel: "info",
		Coach: Coach{
			Model:   constants.DefaultCoachModel,
			Timeout: constants.DefaultCoachTimeout,
		},
	}
}

// Load resolves the configuration. A missing file at DefaultFile is not an
// error; a missing file the user named explicitly is.
func Load(path string, flags Flags) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.readFile(ExpandPath(path), explicit); err != nil {
		return nil, err
	}

	if err := loadDotenv(); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	cfg.applyFlags(flags)
	cfg.Store = ExpandPath(cfg.Store)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// loadDotenv reads VITALFLOW_DOTENV, or .env in the working directory.
// godotenv never overrides variables that are already set.
func loadDotenv() error {
	file := os.Getenv(constants.EnvDotenvPath)
	explicit := file != ""
	if !explicit {
		file = constants.DefaultDotenvFile
	}
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", file, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(constants.EnvStore); ok && v != "" {
		c.Store = v
	}
	if v, ok := lookup(constants.EnvIDScheme); ok && v != "" {
		c.IDScheme = v
	}
	if v, ok := lookup(constants.EnvTimezone); ok && v != "" {
		c.Timezone = v
	}
	if v, ok := lookup(constants.EnvDebug); ok {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
	if v, ok := lookup(constants.EnvCoachModel); ok && v != "" {
		c.Coach.Model = v
	}
	if v, ok := lookup(constants.EnvGeminiAPIKey); ok && v != "" {
		c.Coach.APIKey = v
	}
}

func (c *Config) applyFlags(f Flags) {
	if f.Store != "" {
		c.Store = f.Store
	}
	if f.IDScheme != "" {
		c.IDScheme = f.IDScheme
	}
	if f.Timezone != "" {
		c.Timezone = f.Timezone
	}
	if f.Debug {
		c.Debug = true
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Store) == "" {
		errs = append(errs, errors.New("store location is empty"))
	}
	switch c.IDScheme {
	case constants.IDSchemeSequence, constants.IDSchemeUUID:
	default:
		errs = append(errs, fmt.Errorf("unknown id scheme %q", c.IDScheme))
	}
	if !utils.ValidateTimezone(c.Timezone) {
		errs = append(errs, fmt.Errorf("unknown timezone %q", c.Timezone))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.Coach.Timeout <= 0 {
		errs = append(errs, errors.New("coach timeout must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ConfigDir is the directory holding logs, backups and the lockfile. For a
// Postgres store it falls back to the default config directory.
func (c *Config) ConfigDir() string {
	if IsPostgres(c.Store) {
		return filepath.Dir(ExpandPath(constants.DefaultConfigPath))
	}
	return filepath.Dir(c.Store)
}

func IsPostgres(location string) bool {
	return strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://")
}

// ExpandPath replaces a leading ~ with the home directory. Connection
// strings are returned unchanged.
func ExpandPath(path string) string {
	if IsPostgres(path) || (path != "~" && !strings.HasPrefix(path, "~/")) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

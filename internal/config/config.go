// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The same file drives both binaries: the contacts client reads the
// backend and fetch sections, the dev roster server reads the storage
// and http_server sections.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Deployment targets understood by Backend.Target.
const (
	TargetEmulator = "emulator"
	TargetDevice   = "device"
	TargetCustom   = "custom"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true" validate:"oneof=dev staging prod"`

	Backend Backend `yaml:"backend"`
	Fetch   Fetch   `yaml:"fetch"`

	// StoragePath is the filesystem path to the dev server's SQLite file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	// SeedPath is a YAML roster loaded into storage at server startup.
	SeedPath string `yaml:"seed_path" env:"SEED_PATH"`

	DBPool DBPool `yaml:"db_pool"`

	HTTPServer `yaml:"http_server"`
}

// Backend selects where the roster lives. The base URL is chosen once
// per process from Target; it is never re-derived per request.
type Backend struct {
	Target string `yaml:"target" env:"BACKEND_TARGET" env-default:"emulator" validate:"oneof=emulator device custom"`

	// EmulatorURL reaches the host machine's loopback from an emulator.
	EmulatorURL string `yaml:"emulator_url" env:"BACKEND_EMULATOR_URL" env-default:"http://10.0.2.2:8082/api" validate:"omitempty,url"`

	// DeviceURL is the backend's LAN address as seen by a physical device.
	DeviceURL string `yaml:"device_url" env:"BACKEND_DEVICE_URL" env-default:"http://192.168.1.10:8082/api" validate:"omitempty,url"`

	// BaseURL is used verbatim when Target is "custom".
	BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" validate:"omitempty,url"`
}

// Fetch tunes the client's request and retry policy.
type Fetch struct {
	Timeout     time.Duration `yaml:"timeout"      env:"FETCH_TIMEOUT"      env-default:"10s" validate:"gt=0"`
	MaxRetries  int           `yaml:"max_retries"  env:"FETCH_MAX_RETRIES"  env-default:"2"   validate:"gte=0"`
	BaseBackoff time.Duration `yaml:"base_backoff" env:"FETCH_BASE_BACKOFF" env-default:"1s"  validate:"gt=0"`
}

// DBPool sets the dev server's SQLite connection pool limits.
type DBPool struct {
	MaxOpen     int           `yaml:"max_open"     env:"DB_POOL_MAX_OPEN"     env-default:"5"   validate:"gte=0"`
	MaxIdle     int           `yaml:"max_idle"     env:"DB_POOL_MAX_IDLE"     env-default:"0"   validate:"gte=0"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"DB_POOL_IDLE_TIMEOUT" env-default:"10s" validate:"gte=0"`
}

// HTTPServer holds settings specific to the dev HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// BaseURL resolves the backend base URL for the configured target.
func (c *Config) BaseURL() (string, error) {
	var url string
	switch c.Backend.Target {
	case TargetEmulator:
		url = c.Backend.EmulatorURL
	case TargetDevice:
		url = c.Backend.DeviceURL
	case TargetCustom:
		url = c.Backend.BaseURL
	default:
		return "", fmt.Errorf("config: unknown backend target %q", c.Backend.Target)
	}
	if url == "" {
		return "", fmt.Errorf("config: no base url configured for target %q", c.Backend.Target)
	}
	return url, nil
}

// Validate checks the validate:"..." rules on the whole tree.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("config: invalid field %s (%s)", verrs[0].Namespace(), verrs[0].ActualTag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file, applies env overrides and
	// env-default values, and enforces env-required:"true".
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

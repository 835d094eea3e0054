// Package config handles loading and validating service configuration.
// The file path is taken from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// With neither set, configuration is read from the environment alone,
// which is how the services run in containers.
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

// Storage drivers.
const (
	DriverMongo  = "mongodb"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure. Every field maps to a key
// in the YAML file and can be overridden by the env:"..." variable.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	HTTPServer HTTPServer `yaml:"http_server"`
	Storage    Storage    `yaml:"storage"`
	Auth       Auth       `yaml:"auth"`
}

// HTTPServer holds settings for the HTTP listener.
type HTTPServer struct {
	Addr            string        `yaml:"address"          env:"HTTP_SERVER_ADDR"             env-default:"localhost:8082" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"HTTP_SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Storage selects and configures the document store.
//
// ConnectTimeout and OperationTimeout are handed to the database client;
// zero leaves the client's own default in place.
type Storage struct {
	Driver           string        `yaml:"driver"            env:"STORAGE_DRIVER"            env-default:"mongodb" validate:"oneof=mongodb sqlite"`
	URI              string        `yaml:"uri"               env:"MONGO_URI"                 validate:"required_if=Driver mongodb"`
	Database         string        `yaml:"database"          env:"MONGO_DATABASE"            env-default:"sorting-waste-app"`
	Path             string        `yaml:"path"              env:"STORAGE_PATH"              validate:"required_if=Driver sqlite"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"   env:"STORAGE_CONNECT_TIMEOUT"   env-default:"10s"`
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"STORAGE_OPERATION_TIMEOUT"`
}

// Auth configures credential handling.
type Auth struct {
	// BcryptCost is the work factor for password hashes; 0 selects the
	// library default.
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" validate:"omitempty,gte=4,lte=31"`
}

// Load reads the config at path, or the environment alone when path is
// empty, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config and
// loads it. It exits the process on failure, so callers never see an
// invalid config.
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

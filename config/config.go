package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var TributaryDir = func() string {
	home, err := homedir.Dir()
	if err != nil {
		panic(fmt.Sprintf("couldn't get user home directory: %s", err))
	}
	return filepath.Join(home, ".tributary")
}()

type Config struct {
	Databases []DatabaseConfig `yaml:"databases"`
}

type DatabaseConfig struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Config yaml.Node `yaml:"config"`
}

// DatabaseSpecificConfig is implemented by each database type's
// configuration struct, registered through RegisterDatabaseType.
type DatabaseSpecificConfig interface {
	Validate() error
}

var databaseTypes = map[string]func() DatabaseSpecificConfig{}

func RegisterDatabaseType(name string, constructor func() DatabaseSpecificConfig) {
	if _, ok := databaseTypes[name]; ok {
		panic(fmt.Sprintf("database type '%s' registered twice", name))
	}
	databaseTypes[name] = constructor
}

// TypedConfig decodes the type-specific configuration section of a database
// entry into the struct registered for its type.
func (config *DatabaseConfig) TypedConfig() (DatabaseSpecificConfig, error) {
	constructor, ok := databaseTypes[config.Type]
	if !ok {
		return nil, errors.Errorf("unknown database type: '%s'", config.Type)
	}
	out := constructor()
	if !config.Config.IsZero() {
		if err := config.Config.Decode(out); err != nil {
			return nil, errors.Wrap(err, "couldn't decode database configuration")
		}
	}
	if err := out.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid configuration for database '%s'", config.Name)
	}
	return out, nil
}

// Read loads the configuration from TRIBUTARY_CONFIG if set, falling back
// to ~/.tributary/tributary.yml. A missing file is an empty configuration.
func Read() (*Config, error) {
	path := os.Getenv("TRIBUTARY_CONFIG")
	if path == "" {
		path = filepath.Join(TributaryDir, "tributary.yml")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, errors.Wrap(err, "couldn't open configuration file")
	}
	defer f.Close()

	var config Config
	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	return &config, nil
}

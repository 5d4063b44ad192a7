// Package config handles loading and saving of the gltfscene tool settings.
package config

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	gltfscene "github.com/flywave/go-gltfscene"
)

// Config holds all tool settings.
type Config struct {
	Load    gltfscene.Options `yaml:"load"`
	Logging LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the library's default load options.
func Default() *Config {
	return &Config{
		Load: *gltfscene.DefaultOptions(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing config %s", path)
}

// Options returns the load options with log attached.
func (c *Config) Options(log *zap.Logger) *gltfscene.Options {
	opts := c.Load
	opts.Logger = log
	return &opts
}

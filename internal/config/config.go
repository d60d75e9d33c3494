package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"roundtable/internal"
)

// EnvVar names the environment variable holding an explicit config path
const EnvVar = "ROUNDTABLE_CONFIG"

// DefaultFile is looked up in the working directory when EnvVar is unset
const DefaultFile = ".roundtable.yaml"

// Config holds the driver settings that can live in a YAML file
type Config struct {
	LogLevel     string `yaml:"log_level"`
	Color        bool   `yaml:"color"`
	Prompt       string `yaml:"prompt"`
	MaxCallDepth int    `yaml:"max_call_depth"`
}

// Default returns the settings used when no file is present
func Default() Config {
	return Config{
		LogLevel:     "warn",
		Color:        true,
		Prompt:       "> ",
		MaxCallDepth: internal.DefaultMaxCallDepth,
	}
}

// Locate returns the config path to read and whether it was named explicitly.
// flagPath wins over EnvVar, which wins over DefaultFile.
func Locate(flagPath string) (string, bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if path := os.Getenv(EnvVar); path != "" {
		return path, true
	}
	return DefaultFile, false
}

// Resolve loads the file Locate picks. Only the implicit DefaultFile may be absent.
func Resolve(flagPath string) (Config, error) {
	path, explicit := Locate(flagPath)
	if explicit {
		return Load(path)
	}
	return LoadIfExists(path)
}

// LoadIfExists is Load, except that a missing file yields the defaults
func LoadIfExists(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads path on top of the defaults. An empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Level parses LogLevel as a logrus level
func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}

func (c Config) validate() error {
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.MaxCallDepth > internal.MaxCallDepthLimit {
		return fmt.Errorf("max_call_depth must be at most %d, got %d", internal.MaxCallDepthLimit, c.MaxCallDepth)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

package cliconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFileNames are looked up in the working directory when no
// config file is named explicitly.
var DefaultConfigFileNames = []string{"mockapi.yaml", "mockapi.yml"}

// ConfigError is a config file that could not be parsed.
type ConfigError struct {
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

// LoadFile reads a YAML config file. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}

	// A second pass over the raw mapping records which keys were present.
	var keys map[string]yaml.Node
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, &ConfigError{Path: path, Message: err.Error()}
	}
	cfg.setFields = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.setFields[k] = true
	}
	cfg.ConfigFile = path
	return &cfg, nil
}

// FindDefaultFile returns the first of DefaultConfigFileNames present in dir,
// or "".
func FindDefaultFile(dir string) string {
	for _, name := range DefaultConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Options control Load.
type Options struct {
	// ConfigFile names the YAML file explicitly. A missing explicit file is an
	// error; the default file names are optional.
	ConfigFile string
	// Dir is searched for the default file names. Empty means the working
	// directory.
	Dir string
	// Lookup reads the environment. Nil means os.LookupEnv.
	Lookup LookupFunc
	// Flags holds values given on the command line. Only keys marked with
	// MarkSet are applied.
	Flags *Config
}

// Load merges defaults, the config file, the environment and flags, in that
// order, and validates the result.
func Load(opts Options) (*Config, error) {
	cfg := NewDefault()

	env, err := LoadEnv(opts.Lookup)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	path := opts.ConfigFile
	if path == "" && opts.Flags != nil && opts.Flags.isSet("configFile") {
		path = opts.Flags.ConfigFile
	}
	if path == "" && env.isSet("configFile") {
		path = env.ConfigFile
	}
	if path == "" {
		path = FindDefaultFile(opts.Dir)
	}
	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, file, SourceFile)
		cfg.ConfigFile = path
	}

	Merge(cfg, env, SourceEnv)
	Merge(cfg, opts.Flags, SourceFlag)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MarkSet records that key was explicitly given, so Merge applies it even
// when the value is zero.
func (c *Config) MarkSet(key string) {
	if c.setFields == nil {
		c.setFields = make(map[string]bool)
	}
	c.setFields[key] = true
}

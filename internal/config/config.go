// Package config loads testbin.yaml, the manifest of test binaries a suite
// builds through the testbin CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/testbin/internal/foundation/errors"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "testbin.yaml"

// Config is the decoded configuration file.
type Config struct {
	// Cargo overrides the cargo executable.
	Cargo string `yaml:"cargo,omitempty"`
	// BaseDir is the directory binaries' dirs are relative to. Relative
	// values are resolved against the configuration file's directory.
	BaseDir  string            `yaml:"base_dir,omitempty"`
	Env      map[string]string `yaml:"env,omitempty"`
	Binaries []Binary          `yaml:"binaries"`
}

// Binary is one configured test binary.
type Binary struct {
	Name              string   `yaml:"name"`
	Dir               string   `yaml:"dir,omitempty"`
	Profile           string   `yaml:"profile,omitempty"`
	Features          []string `yaml:"features,omitempty"`
	NoDefaultFeatures bool     `yaml:"no_default_features,omitempty"`
	AllFeatures       bool     `yaml:"all_features,omitempty"`
	Args              []string `yaml:"args,omitempty"`
}

// Find returns the configured binary called name.
func (c *Config) Find(name string) (Binary, bool) {
	for _, b := range c.Binaries {
		if b.Name == name {
			return b, true
		}
	}
	return Binary{}, false
}

// Names returns the configured binary names in file order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Binaries))
	for _, b := range c.Binaries {
		names = append(names, b.Name)
	}
	return names
}

// EnvList returns Env as sorted KEY=VALUE entries.
func (c *Config) EnvList() []string {
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}

// Load reads, expands, defaults and validates the configuration at path.
// .env files next to the working directory are loaded first; variables
// already set in the environment take precedence.
func Load(path string) (*Config, error) {
	if _, err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithCause(err).
				WithContext("config", path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("config", path).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
			WithContext("config", path).
			Build()
	}

	applyDefaults(&cfg, filepath.Dir(path))

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills in directories: BaseDir relative to configDir and each
// binary's Dir defaulting to its name, relative to BaseDir.
func applyDefaults(cfg *Config, configDir string) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = configDir
	} else if !filepath.IsAbs(cfg.BaseDir) {
		cfg.BaseDir = filepath.Join(configDir, cfg.BaseDir)
	}
	for i := range cfg.Binaries {
		b := &cfg.Binaries[i]
		if b.Dir == "" {
			b.Dir = b.Name
		}
		if !filepath.IsAbs(b.Dir) {
			b.Dir = filepath.Join(cfg.BaseDir, b.Dir)
		}
	}
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists").
			WithContext("config", path).
			WithDetail("use --force to overwrite").
			Build()
	}

	example := Config{
		BaseDir: "testbins",
		Env:     map[string]string{"RUSTFLAGS": "-Awarnings"},
		Binaries: []Binary{
			{Name: "does-build"},
			{Name: "feature-test", Profile: "release", Features: []string{"working"}, NoDefaultFeatures: true},
		},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("config", path).
			Build()
	}
	return nil
}

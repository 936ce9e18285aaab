package bshell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

const (
	EnvConfig   = "BSHELL_CONFIG"
	EnvPrompt   = "BSHELL_PROMPT"
	EnvHistory  = "BSHELL_HISTORY"
	EnvLog      = "BSHELL_LOG"
	EnvLogLevel = "BSHELL_LOG_LEVEL"

	DefaultPrompt     = "(>**)> "
	ConfigurationName = ".bshell.yaml"
	HistoryName       = ".bshell_history.db"
)

// Config holds the shell's settings. An empty History or LogFile disables
// that feature.
type Config struct {
	Prompt   string `json:"prompt" validate:"max=256"`
	History  string `json:"history"`
	LogFile  string `json:"log_file"`
	LogLevel string `json:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	cfg := &Config{
		Prompt:   DefaultPrompt,
		LogLevel: "info",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.History = filepath.Join(home, HistoryName)
	}
	return cfg
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return validate.Struct(c)
}

// LoadConfig builds the configuration from the defaults, the YAML file
// named by BSHELL_CONFIG (or ~/.bshell.yaml when present), and the
// BSHELL_* environment variables, in that order.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	path, explicit := os.LookupEnv(EnvConfig)
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ConfigurationName)
		}
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPrompt); ok {
		c.Prompt = v
	}
	if v, ok := os.LookupEnv(EnvHistory); ok {
		c.History = v
	}
	if v, ok := os.LookupEnv(EnvLog); ok {
		c.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
}

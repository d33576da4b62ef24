package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstructure/pkg/form"
	"github.com/goliatone/go-formstructure/pkg/logging"
	"github.com/goliatone/go-formstructure/pkg/resource"
)

// Config drives how the CLI builds its repository, helper and logger.
type Config struct {
	ContainerTypes    []string  `json:"containerTypes" yaml:"containerTypes"`
	FieldTypePrefixes []string  `json:"fieldTypePrefixes" yaml:"fieldTypePrefixes"`
	DefaultActionType string    `json:"defaultActionType" yaml:"defaultActionType"`
	UserGeneratedRoot string    `json:"userGeneratedRoot" yaml:"userGeneratedRoot"`
	SearchPaths       []string  `json:"searchPaths" yaml:"searchPaths"`
	Log               LogConfig `json:"log" yaml:"log"`
}

// LogConfig selects the logger level and encoder.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ContainerTypes:    append([]string(nil), form.DefaultContainerTypes...),
		FieldTypePrefixes: []string{form.DefaultFieldTypePrefix},
		DefaultActionType: form.DefaultActionType,
		UserGeneratedRoot: form.DefaultUserGeneratedRoot,
		SearchPaths:       []string{"/apps", "/libs"},
		Log: LogConfig{
			Level:  string(logging.LevelWarn),
			Format: logging.FormatConsole,
		},
	}
}

// Load reads a YAML or JSON config file, applying defaults for missing keys.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte, source string) (Config, error) {
	cfg := Default()
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", source, err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem in cfg.
func Validate(cfg Config) error {
	var errs []error
	if len(cfg.ContainerTypes) == 0 {
		errs = append(errs, ValidationError{Field: "containerTypes", Message: "at least one container type is required"})
	}
	if len(cfg.FieldTypePrefixes) == 0 {
		errs = append(errs, ValidationError{Field: "fieldTypePrefixes", Message: "at least one prefix is required"})
	}
	if strings.TrimSpace(cfg.DefaultActionType) == "" {
		errs = append(errs, ValidationError{Field: "defaultActionType", Message: "must not be empty"})
	}
	if resource.CleanPath(cfg.UserGeneratedRoot) == "" {
		errs = append(errs, ValidationError{Field: "userGeneratedRoot", Message: "must be an absolute path"})
	}
	for idx, p := range cfg.SearchPaths {
		if resource.CleanPath(p) == "" {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("searchPaths[%d]", idx), Message: "must be an absolute path"})
		}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Log.Format)) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, ValidationError{Field: "log.format", Message: fmt.Sprintf("unsupported format %q", cfg.Log.Format)})
	}
	return errors.Join(errs...)
}

// HelperOptions converts cfg into form options.
func (c Config) HelperOptions() []form.Option {
	return []form.Option{
		form.WithContainerTypes(c.ContainerTypes...),
		form.WithFieldTypePrefixes(c.FieldTypePrefixes...),
		form.WithDefaultActionType(c.DefaultActionType),
		form.WithUserGeneratedRoot(c.UserGeneratedRoot),
	}
}

// TreeOptions converts cfg into resource options.
func (c Config) TreeOptions() []resource.Option {
	if len(c.SearchPaths) == 0 {
		return nil
	}
	return []resource.Option{resource.WithSearchPaths(c.SearchPaths...)}
}

// LoggingConfig converts cfg into a logging configuration.
func (c Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:  logging.Level(c.Log.Level),
		Format: c.Log.Format,
	}
}

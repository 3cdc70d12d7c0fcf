// Package config loads formflow settings from an optional YAML file and
// FORMFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/sink"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMFLOW_"

// Config holds runtime settings shared by the CLI commands.
type Config struct {
	// BaseURL is the form service root, e.g. http://localhost:8080.
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Output selects how submitted answers are printed: json, form or pretty.
	Output string `yaml:"output"`

	// FormsDir holds structure files for serve; empty serves the bundled
	// samples.
	FormsDir string `yaml:"forms_dir"`
	Listen   string `yaml:"listen"`
	Metrics  bool   `yaml:"metrics"`

	// PushGateway, when set, receives the session metrics of a run once the
	// form is done.
	PushGateway string `yaml:"push_gateway"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:   "http://localhost:8080",
		Timeout:   15 * time.Second,
		LogLevel:  "info",
		LogFormat: string(logging.FormatText),
		Output:    string(sink.OutputFormatPrettyText),
		Listen:    ":8080",
		Metrics:   true,
	}
}

// Load starts from Default, overlays the YAML file at path when path is not
// empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BASE_URL":     &c.BaseURL,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
		"OUTPUT":       &c.Output,
		"FORMS_DIR":    &c.FormsDir,
		"LISTEN":       &c.Listen,
		"PUSH_GATEWAY": &c.PushGateway,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "METRICS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sMETRICS: %w", EnvPrefix, err)
		}
		c.Metrics = b
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("config: base_url %q must be an absolute http(s) URL", c.BaseURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("config: timeout must be positive, got %s", c.Timeout))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if _, err := sink.ParseOutputFormat(c.Output); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	if c.PushGateway != "" {
		if u, err := url.Parse(c.PushGateway); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("config: push_gateway %q must be an absolute http(s) URL", c.PushGateway))
		}
	}
	if strings.TrimSpace(c.Listen) == "" {
		errs = append(errs, errors.New("config: listen address is required"))
	}
	return errors.Join(errs...)
}

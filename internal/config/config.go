// Package config loads client configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Repository Repository `yaml:"repository"`
	Spool      Spool      `yaml:"spool"`
	Journal    Journal    `yaml:"journal"`
}

// Repository configures the REST transport.
type Repository struct {
	BaseURL  string   `yaml:"base_url"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	Timeout  Duration `yaml:"timeout"`
}

// Duration parses YAML scalars like "30s" or "2m" into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Spool configures the content spool backend.
type Spool struct {
	Driver string `yaml:"driver"` // memory|fs|s3 (default memory)
	FSRoot string `yaml:"fs_root"`
	S3     S3     `yaml:"s3"`
}

// S3 configures the S3 spool driver.
type S3 struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	PathStyle       bool   `yaml:"path_style"`
}

// Journal configures the sync journal backend.
type Journal struct {
	Driver string `yaml:"driver"` // none|memory|sqlite|postgres (default none)
	Path   string `yaml:"path"`   // driver=sqlite
	DSN    string `yaml:"dsn"`    // driver=postgres
}

// Environment overrides applied after the file is read:
//
//	FEDSTREAM_BASE_URL, FEDSTREAM_USER, FEDSTREAM_PASSWORD
//	FEDSTREAM_SPOOL_DRIVER, FEDSTREAM_SPOOL_FS_ROOT
//	FEDSTREAM_JOURNAL_DRIVER, FEDSTREAM_JOURNAL_PATH, FEDSTREAM_JOURNAL_DSN

// Load reads the YAML document at path and applies environment overrides.
// An empty path skips the file and builds the configuration from the
// environment alone.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfEnv(&c.Repository.BaseURL, "FEDSTREAM_BASE_URL")
	setIfEnv(&c.Repository.User, "FEDSTREAM_USER")
	setIfEnv(&c.Repository.Password, "FEDSTREAM_PASSWORD")
	setIfEnv(&c.Spool.Driver, "FEDSTREAM_SPOOL_DRIVER")
	setIfEnv(&c.Spool.FSRoot, "FEDSTREAM_SPOOL_FS_ROOT")
	setIfEnv(&c.Journal.Driver, "FEDSTREAM_JOURNAL_DRIVER")
	setIfEnv(&c.Journal.Path, "FEDSTREAM_JOURNAL_PATH")
	setIfEnv(&c.Journal.DSN, "FEDSTREAM_JOURNAL_DSN")
}

func (c Config) validate() error {
	if c.Repository.BaseURL == "" {
		return fmt.Errorf("config: repository base_url required")
	}
	switch c.Spool.Driver {
	case "", "memory", "fs", "s3":
	default:
		return fmt.Errorf("config: unknown spool driver %q", c.Spool.Driver)
	}
	switch c.Journal.Driver {
	case "", "none", "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown journal driver %q", c.Journal.Driver)
	}
	return nil
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Package config loads the console's settings. Values are layered:
// built-in defaults, then an optional .env file, then the TOML config file
// (with an optional named profile applied on top), then DATEADMIN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DATEADMIN_"

type Config struct {
	APIURL         string        `toml:"api_url" env:"API_URL"`                 // DATEADMIN_API_URL
	MediaBaseURL   string        `toml:"media_base_url" env:"MEDIA_BASE_URL"`   // DATEADMIN_MEDIA_BASE_URL (default: API origin)
	APIPrefix      string        `toml:"api_prefix" env:"API_PREFIX"`           // DATEADMIN_API_PREFIX (default "/api")
	PageSize       int           `toml:"page_size" env:"PAGE_SIZE"`             // DATEADMIN_PAGE_SIZE (default 10)
	ToastDuration  time.Duration `toml:"toast_duration" env:"TOAST_DURATION"`   // DATEADMIN_TOAST_DURATION (default 5s)
	RequestTimeout time.Duration `toml:"request_timeout" env:"REQUEST_TIMEOUT"` // DATEADMIN_REQUEST_TIMEOUT (default 30s)
	NATSURL        string        `toml:"nats_url" env:"NATS_URL"`               // DATEADMIN_NATS_URL (optional, empty = no events)
	SessionFile    string        `toml:"session_file" env:"SESSION_FILE"`       // DATEADMIN_SESSION_FILE
	LogLevel       string        `toml:"log_level" env:"LOG_LEVEL"`             // DATEADMIN_LOG_LEVEL (default "warn")

	Export ExportConfig `toml:"export" envPrefix:"EXPORT_"`

	// Profiles are named overrides selected with Options.Profile.
	Profiles map[string]Profile `toml:"profiles"`
}

// ExportConfig configures the S3 export destination.
type ExportConfig struct {
	S3Bucket   string `toml:"s3_bucket" env:"S3_BUCKET"`     // enables S3 when set
	S3Region   string `toml:"s3_region" env:"S3_REGION"`     // default "us-east-1"
	S3Endpoint string `toml:"s3_endpoint" env:"S3_ENDPOINT"` // custom endpoint for MinIO
	S3Key      string `toml:"s3_key" env:"S3_KEY"`           // default "dateadmin/export.jsonl"
}

// Profile is a named backend, e.g. staging or production.
type Profile struct {
	APIURL       string `toml:"api_url"`
	MediaBaseURL string `toml:"media_base_url,omitempty"`
	NATSURL      string `toml:"nats_url,omitempty"`
	SessionFile  string `toml:"session_file,omitempty"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:         "http://localhost:5000/api",
		APIPrefix:      "/api",
		PageSize:       10,
		ToastDuration:  5 * time.Second,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "warn",
		Export: ExportConfig{
			S3Region: "us-east-1",
			S3Key:    "dateadmin/export.jsonl",
		},
	}
}

// Options control where Load looks.
type Options struct {
	// Path is the TOML file. Empty means DefaultPath; a missing file is not
	// an error.
	Path string
	// EnvFiles are .env files to load. Empty means ".env" in the working
	// directory, if present.
	EnvFiles []string
	// Profile selects an entry of [profiles].
	Profile string
}

// DefaultPath returns ~/.config/dateadmin/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dateadmin", "config.toml"), nil
}

// Load builds the configuration.
func Load(opts Options) (*Config, error) {
	c := Default()

	if err := loadDotEnv(opts.EnvFiles); err != nil {
		return nil, err
	}

	path := opts.Path
	if path == "" {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	if opts.Profile != "" {
		p, ok := c.Profiles[opts.Profile]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", opts.Profile)
		}
		c.applyProfile(p)
	}

	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadDotEnv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

func (c *Config) applyProfile(p Profile) {
	if p.APIURL != "" {
		c.APIURL = p.APIURL
	}
	if p.MediaBaseURL != "" {
		c.MediaBaseURL = p.MediaBaseURL
	}
	if p.NATSURL != "" {
		c.NATSURL = p.NATSURL
	}
	if p.SessionFile != "" {
		c.SessionFile = p.SessionFile
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url %q is not an absolute URL", c.APIURL)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be 1 or greater, got %d", c.PageSize)
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast_duration must be positive, got %s", c.ToastDuration)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// MediaBase returns the URL media paths are resolved against: the
// configured media_base_url, or the origin of api_url.
func (c *Config) MediaBase() string {
	if c.MediaBaseURL != "" {
		return c.MediaBaseURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

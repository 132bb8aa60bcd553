package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment variable, e.g. TMS_DATABASE_URL.
const envPrefix = "TMS"

// defaults holds the value of every optional setting.
var defaults = map[string]any{
	"server.port":                    8080,
	"server.log_level":               "info",
	"server.base_url":                "http://localhost:8080",
	"server.request_timeout_seconds": 10,

	"database.max_open_conns":            10,
	"database.max_idle_conns":            5,
	"database.conn_max_lifetime_minutes": 5,

	"auth.token_lifetime_minutes":              43200,
	"auth.bcrypt_cost":                         10,
	"auth.verification_token_lifetime_minutes": 60,
	"auth.reset_token_lifetime_minutes":        60,

	"mail.host":     "",
	"mail.port":     587,
	"mail.username": "",
	"mail.password": "",
	"mail.from":     "no-reply@tms.local",

	"jobs.queue_size":            100,
	"jobs.worker_count":          2,
	"jobs.stuck_job_age_minutes": 30,

	"scheduler.token_sweep_spec":   "@every 15m",
	"scheduler.job_purge_spec":     "@daily",
	"scheduler.job_retention_days": 7,
}

// requiredKeys have no default and must be bound to the environment explicitly,
// otherwise viper does not see them during Unmarshal.
var requiredKeys = []string{
	"database.url",
	"auth.jwt_secret",
}

// Loader reads configuration from an optional config file and the environment.
// Keeping the viper instance around allows the file to be watched for changes.
type Loader struct {
	v        *viper.Viper
	validate *validator.Validate
}

// NewLoader creates a Loader that looks for config.{yaml,json,toml,...} in the
// working directory and ./config, with TMS_ environment variables taking
// precedence over file values.
func NewLoader() *Loader {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{
		v:        v,
		validate: validator.New(),
	}
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return NewLoader().Load()
}

// Load reads the config file (if any), binds the environment and returns the
// validated configuration.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, key := range requiredKeys {
		if err := l.v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	return l.decode()
}

// SetConfigFile makes the loader read the given file instead of searching the
// default locations.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// ConfigFileUsed returns the path of the config file that was read, or an
// empty string when configuration came from the environment only.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch re-reads the config file whenever it changes and passes the new,
// validated configuration to onChange. Invalid edits are logged and ignored.
// It returns false when no config file is in use.
func (l *Loader) Watch(onChange func(*Config)) bool {
	if l.v.ConfigFileUsed() == "" {
		return false
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			slog.Warn("ignoring invalid configuration change",
				slog.String("file", e.Name),
				slog.String("error", err.Error()))
			return
		}
		slog.Info("configuration file changed", slog.String("file", e.Name))
		onChange(cfg)
	})
	l.v.WatchConfig()

	return true
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := l.validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	Mail      MailConfig      `mapstructure:"mail"`
	Jobs      JobsConfig      `mapstructure:"jobs"      validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// BaseURL is the externally reachable address used to build links in emails.
	BaseURL               string `mapstructure:"base_url"                validate:"required,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// TokenLifetimeMinutes is the lifetime of a session token.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	BcryptCost           int `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`

	VerificationTokenLifetimeMinutes int `mapstructure:"verification_token_lifetime_minutes" validate:"gt=0"`
	ResetTokenLifetimeMinutes        int `mapstructure:"reset_token_lifetime_minutes"        validate:"gt=0"`
}

// MailConfig configures outbound email. When Host is empty, messages are
// written to the log instead of being delivered.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"required,email"`
}

// JobsConfig contains settings for the background job runner.
type JobsConfig struct {
	QueueSize          int `mapstructure:"queue_size"            validate:"gt=0"`
	WorkerCount        int `mapstructure:"worker_count"          validate:"gt=0"`
	StuckJobAgeMinutes int `mapstructure:"stuck_job_age_minutes" validate:"gt=0"`
}

// SchedulerConfig contains cron specs for periodic maintenance.
type SchedulerConfig struct {
	TokenSweepSpec   string `mapstructure:"token_sweep_spec"   validate:"required"`
	JobPurgeSpec     string `mapstructure:"job_purge_spec"     validate:"required"`
	JobRetentionDays int    `mapstructure:"job_retention_days" validate:"gt=0"`
}

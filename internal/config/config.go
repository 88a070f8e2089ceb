package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AuthMode string

const (
	AuthModeNone AuthMode = "none" // No authentication required (default)
	AuthModeJWT  AuthMode = "jwt"  // Bearer tokens issued by POST /api/auth/login
)

type (
	Config struct {
		HTTP
		Audit
		Global
		Database
		Tasks
		Auth
		Upload
		RateLimit
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	Audit struct {
		Dir             string // Optional directory for JSON import logs
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupEnabled  bool
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path     string
		LogLevel string // gorm logger level: silent, error, warn, info
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Auth struct {
		Mode              AuthMode
		JWTSecret         string
		JWTIssuer         string
		TokenExpiry       time.Duration
		BcryptCost        int
		MinPasswordLength int // Characters, not bytes
	}
	Upload struct {
		MaxFileSize int64 // Bytes per uploaded JSON file
		MaxFiles    int   // Files per multi-file request
	}
	RateLimit struct {
		MaxUploads int           // Uploads per client within Window
		Window     time.Duration
	}
	Log struct {
		Level       string // debug, info, warn, error
		Development bool   // Human-readable console output
	}
)

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_level", "warn")
	v.SetDefault("audit_dir", "")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_enabled", true)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Auth defaults
	v.SetDefault("auth_mode", "none")
	v.SetDefault("auth_jwt_secret", "")
	v.SetDefault("auth_jwt_issuer", "hanzi")
	v.SetDefault("auth_token_expiry", "24h")
	v.SetDefault("auth_bcrypt_cost", DefaultBcryptCost)
	v.SetDefault("auth_min_password_length", DefaultMinPasswordLength)

	// Upload defaults
	v.SetDefault("upload_max_file_size", DefaultMaxFileSize)
	v.SetDefault("upload_max_files", DefaultMaxFiles)
	v.SetDefault("upload_rate_limit_max", 20)
	v.SetDefault("upload_rate_limit_window", "15m")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Audit: Audit{
			Dir:             v.GetString("AUDIT_DIR"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupEnabled:  v.GetBool("AUDIT_CLEANUP_ENABLED"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:     v.GetString("DATABASE_PATH"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			Mode:              AuthMode(v.GetString("AUTH_MODE")),
			JWTSecret:         v.GetString("AUTH_JWT_SECRET"),
			JWTIssuer:         v.GetString("AUTH_JWT_ISSUER"),
			TokenExpiry:       v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:        v.GetInt("AUTH_BCRYPT_COST"),
			MinPasswordLength: v.GetInt("AUTH_MIN_PASSWORD_LENGTH"),
		},
		Upload: Upload{
			MaxFileSize: v.GetInt64("UPLOAD_MAX_FILE_SIZE"),
			MaxFiles:    v.GetInt("UPLOAD_MAX_FILES"),
		},
		RateLimit: RateLimit{
			MaxUploads: v.GetInt("UPLOAD_RATE_LIMIT_MAX"),
			Window:     v.GetDuration("UPLOAD_RATE_LIMIT_WINDOW"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Auth.Mode {
	case AuthModeNone:
	case AuthModeJWT:
		if len(c.Auth.JWTSecret) < MinJWTSecretLength {
			errs = append(errs, fmt.Errorf("AUTH_JWT_SECRET must be at least %d characters in jwt mode", MinJWTSecretLength))
		}
		if c.Auth.TokenExpiry <= 0 {
			errs = append(errs, errors.New("AUTH_TOKEN_EXPIRY must be positive"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode))
	}

	if c.Auth.MinPasswordLength < 8 {
		errs = append(errs, errors.New("AUTH_MIN_PASSWORD_LENGTH must be at least 8"))
	}

	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_FILE_SIZE must be positive"))
	}
	if c.Upload.MaxFiles <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_FILES must be positive"))
	}
	if c.RateLimit.MaxUploads <= 0 {
		errs = append(errs, errors.New("UPLOAD_RATE_LIMIT_MAX must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("UPLOAD_RATE_LIMIT_WINDOW must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("DATABASE_PATH must not be empty"))
	}

	return errors.Join(errs...)
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	S3         S3Config
	CORS       CORSConfig
	Recognizer RecognizerConfig
	Queue      QueueConfig
	Workflow   WorkflowConfig
	Email      EmailConfig
	Client     ClientConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for scan storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RecognizerConfig holds settings for the vision-LLM document recognizer.
type RecognizerConfig struct {
	APIKey       string `mapstructure:"api_key"`
	Endpoint     string `mapstructure:"endpoint"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// QueueConfig holds recognition queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// WorkflowConfig holds delivery workflow poller settings.
type WorkflowConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxPollAttempts  int `mapstructure:"max_poll_attempts"`
}

// EmailConfig holds delivery notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	ManagerTo   string `mapstructure:"manager_to"`
}

// ClientConfig holds settings for the deliveryctl API client.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// Load reads configuration from environment variables with the LOCUS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LOCUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "locus")
	v.SetDefault("db.password", "locus_secret")
	v.SetDefault("db.name", "locus_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "locus")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "locus-scans")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)
	v.SetDefault("s3.presign_expiry", 3600)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173")

	// Recognizer defaults
	v.SetDefault("recognizer.api_key", "")
	v.SetDefault("recognizer.endpoint", "")
	v.SetDefault("recognizer.default_model", "qwen-vl-max")
	v.SetDefault("recognizer.max_retries", 2)
	v.SetDefault("recognizer.timeout_secs", 120)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 3)

	// Workflow defaults: 5s interval as the dashboards poll, bounded so a
	// stuck job cannot spin forever.
	v.SetDefault("workflow.poll_interval_secs", 5)
	v.SetDefault("workflow.max_poll_attempts", 60)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "noreply@locus.local")
	v.SetDefault("email.manager_to", "")

	// Client defaults
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.token", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "LOCUS_SERVER_PORT",
		"server.read_timeout":         "LOCUS_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "LOCUS_SERVER_WRITE_TIMEOUT",
		"server.environment":          "LOCUS_SERVER_ENVIRONMENT",
		"db.host":                     "LOCUS_DB_HOST",
		"db.port":                     "LOCUS_DB_PORT",
		"db.user":                     "LOCUS_DB_USER",
		"db.password":                 "LOCUS_DB_PASSWORD",
		"db.name":                     "LOCUS_DB_NAME",
		"db.sslmode":                  "LOCUS_DB_SSLMODE",
		"db.max_open":                 "LOCUS_DB_MAX_OPEN",
		"db.max_idle":                 "LOCUS_DB_MAX_IDLE",
		"jwt.secret":                  "LOCUS_JWT_SECRET",
		"jwt.access_expiry":           "LOCUS_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":          "LOCUS_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                  "LOCUS_JWT_ISSUER",
		"s3.region":                   "LOCUS_S3_REGION",
		"s3.bucket":                   "LOCUS_S3_BUCKET",
		"s3.endpoint":                 "LOCUS_S3_ENDPOINT",
		"s3.access_key":               "LOCUS_S3_ACCESS_KEY",
		"s3.secret_key":               "LOCUS_S3_SECRET_KEY",
		"s3.max_file_size_mb":         "LOCUS_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":           "LOCUS_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":        "LOCUS_CORS_ALLOWED_ORIGINS",
		"recognizer.api_key":          "LOCUS_RECOGNIZER_API_KEY",
		"recognizer.endpoint":         "LOCUS_RECOGNIZER_ENDPOINT",
		"recognizer.default_model":    "LOCUS_RECOGNIZER_DEFAULT_MODEL",
		"recognizer.max_retries":      "LOCUS_RECOGNIZER_MAX_RETRIES",
		"recognizer.timeout_secs":     "LOCUS_RECOGNIZER_TIMEOUT_SECS",
		"queue.poll_interval_secs":    "LOCUS_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":           "LOCUS_QUEUE_MAX_RETRIES",
		"queue.concurrency":           "LOCUS_QUEUE_CONCURRENCY",
		"workflow.poll_interval_secs": "LOCUS_WORKFLOW_POLL_INTERVAL_SECS",
		"workflow.max_poll_attempts":  "LOCUS_WORKFLOW_MAX_POLL_ATTEMPTS",
		"email.provider":              "LOCUS_EMAIL_PROVIDER",
		"email.region":                "LOCUS_EMAIL_REGION",
		"email.from_address":          "LOCUS_EMAIL_FROM_ADDRESS",
		"email.manager_to":            "LOCUS_EMAIL_MANAGER_TO",
		"client.base_url":             "LOCUS_CLIENT_BASE_URL",
		"client.token":                "LOCUS_CLIENT_TOKEN",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LOCUS_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LOCUS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Recognizer = RecognizerConfig{
		APIKey:       v.GetString("recognizer.api_key"),
		Endpoint:     v.GetString("recognizer.endpoint"),
		DefaultModel: v.GetString("recognizer.default_model"),
		MaxRetries:   v.GetInt("recognizer.max_retries"),
		TimeoutSecs:  v.GetInt("recognizer.timeout_secs"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Workflow = WorkflowConfig{
		PollIntervalSecs: v.GetInt("workflow.poll_interval_secs"),
		MaxPollAttempts:  v.GetInt("workflow.max_poll_attempts"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		ManagerTo:   v.GetString("email.manager_to"),
	}
	cfg.Client = ClientConfig{
		BaseURL: v.GetString("client.base_url"),
		Token:   v.GetString("client.token"),
	}

	return cfg, nil
}

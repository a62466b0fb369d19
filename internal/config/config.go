package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the resolved application configuration
type Config struct {
	Env           string              `yaml:"env" env:"APP_ENV"`
	Server        ServerConfig        `yaml:"server" envPrefix:"SERVER_"`
	Database      DatabaseConfig      `yaml:"database" envPrefix:"DB_"`
	Redis         RedisConfig         `yaml:"redis" envPrefix:"REDIS_"`
	JWT           JWTConfig           `yaml:"jwt" envPrefix:"JWT_"`
	Storage       StorageConfig       `yaml:"storage" envPrefix:"STORAGE_"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch" envPrefix:"ES_"`
	CORS          CORSConfig          `yaml:"cors" envPrefix:"CORS_"`
	Checkout      CheckoutConfig      `yaml:"checkout" envPrefix:"CHECKOUT_"`
	Notify        NotifyConfig        `yaml:"notify" envPrefix:"NOTIFY_"`
	Video         VideoConfig         `yaml:"video" envPrefix:"VIDEO_"`
	Tracing       TracingConfig       `yaml:"tracing" envPrefix:"OTEL_"`
	Schedule      ScheduleConfig      `yaml:"schedule" envPrefix:"SCHEDULE_"`
	DM            DMConfig            `yaml:"dm" envPrefix:"DM_"`
	Cron          CronConfig          `yaml:"cron" envPrefix:"CRON_"`
}

// ServerConfig HTTP 서버 설정
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig MySQL 설정. Driver "sqlite" is accepted for local runs.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" env:"DRIVER"`
	Host            string        `yaml:"host" env:"HOST"`
	Port            int           `yaml:"port" env:"PORT"`
	User            string        `yaml:"user" env:"USER"`
	Password        string        `yaml:"password" env:"PASSWORD"`
	Name            string        `yaml:"name" env:"NAME"`
	Path            string        `yaml:"path" env:"PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

// DSN returns the MySQL data source name
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis 설정
type RedisConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	PoolSize int    `yaml:"pool_size" env:"POOL_SIZE"`
}

// JWTConfig 토큰 설정 (seconds)
type JWTConfig struct {
	Secret    string `yaml:"secret" env:"SECRET"`
	ExpiresIn int    `yaml:"expires_in" env:"EXPIRES_IN"`
	RefreshIn int    `yaml:"refresh_in" env:"REFRESH_IN"`
}

// StorageConfig S3-compatible object storage
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled" env:"ENABLED"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	Region          string `yaml:"region" env:"REGION"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	CDNURL          string `yaml:"cdn_url" env:"CDN_URL"`
	BasePath        string `yaml:"base_path" env:"BASE_PATH"`
	ForcePathStyle  bool   `yaml:"force_path_style" env:"FORCE_PATH_STYLE"`
}

// ElasticsearchConfig optional notice search index
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled" env:"ENABLED"`
	Addresses []string `yaml:"addresses" env:"ADDRESSES" envSeparator:","`
	Username  string   `yaml:"username" env:"USERNAME"`
	Password  string   `yaml:"password" env:"PASSWORD"`
	Index     string   `yaml:"index" env:"INDEX"`
}

// CORSConfig allowed origins (comma separated)
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins" env:"ALLOW_ORIGINS"`
}

// CheckoutConfig payment server endpoint that returns checkout redirect URLs
type CheckoutConfig struct {
	Endpoint      string        `yaml:"endpoint" env:"ENDPOINT"`
	SuccessURL    string        `yaml:"success_url" env:"SUCCESS_URL"`
	CancelURL     string        `yaml:"cancel_url" env:"CANCEL_URL"`
	WebhookSecret string        `yaml:"webhook_secret" env:"WEBHOOK_SECRET"`
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// NotifyConfig registration notification transport
type NotifyConfig struct {
	Transport string        `yaml:"transport" env:"TRANSPORT"` // "http" | "kafka" | "" (disabled)
	Endpoint  string        `yaml:"endpoint" env:"ENDPOINT"`
	Brokers   []string      `yaml:"brokers" env:"BROKERS" envSeparator:","`
	Topic     string        `yaml:"topic" env:"TOPIC"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// VideoConfig external video host used for archive uploads
type VideoConfig struct {
	Endpoint string        `yaml:"endpoint" env:"ENDPOINT"`
	Token    string        `yaml:"token" env:"TOKEN"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// TracingConfig OpenTelemetry exporter
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" env:"ENABLED"`
	Endpoint    string  `yaml:"endpoint" env:"EXPORTER_OTLP_ENDPOINT"`
	SampleRatio float64 `yaml:"sample_ratio" env:"TRACES_SAMPLER_ARG"`
}

// ScheduleConfig calendar and visibility settings
type ScheduleConfig struct {
	Timezone         string   `yaml:"timezone" env:"TIMEZONE"`
	PrivilegedGroups []uint64 `yaml:"privileged_groups" env:"PRIVILEGED_GROUPS" envSeparator:","`
}

// DMConfig inbox paging
type DMConfig struct {
	ThreadPageSize  int `yaml:"thread_page_size" env:"THREAD_PAGE_SIZE"`
	MessagePageSize int `yaml:"message_page_size" env:"MESSAGE_PAGE_SIZE"`
}

// CronConfig periodic jobs (robfig/cron spec strings, empty disables)
type CronConfig struct {
	ReconcileSpec string `yaml:"reconcile_spec" env:"RECONCILE_SPEC"`
	ReindexSpec   string `yaml:"reindex_spec" env:"REINDEX_SPEC"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Env: "local",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			User:            "eventhub",
			Name:            "eventhub",
			Path:            "eventhub.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT:   JWTConfig{ExpiresIn: 900, RefreshIn: 7 * 24 * 3600},
		Storage: StorageConfig{
			Region: "ap-northeast-1",
		},
		Elasticsearch: ElasticsearchConfig{Index: "notices"},
		Checkout:      CheckoutConfig{Timeout: 10 * time.Second},
		Notify:        NotifyConfig{Timeout: 5 * time.Second, Topic: "registrations"},
		Video:         VideoConfig{Timeout: 15 * time.Second},
		Tracing:       TracingConfig{SampleRatio: 1},
		Schedule: ScheduleConfig{Timezone: "Asia/Tokyo"},
		DM: DMConfig{ThreadPageSize: 20, MessagePageSize: 20},
		Cron: CronConfig{
			ReconcileSpec: "@every 5m",
			ReindexSpec:   "@hourly",
		},
	}
}

// Load reads the YAML file at path (if present) over the defaults,
// then applies EVENTHUB_* environment variables and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deploys
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "EVENTHUB_"}); err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		if !c.IsDevelopment() {
			return errors.New("jwt.secret is required")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	switch c.Notify.Transport {
	case "", "http", "kafka":
	default:
		return fmt.Errorf("unsupported notify transport %q", c.Notify.Transport)
	}
	if c.DM.MessagePageSize < 1 {
		c.DM.MessagePageSize = 20
	}
	if c.DM.ThreadPageSize < 1 {
		c.DM.ThreadPageSize = 20
	}
	return nil
}

// IsDevelopment reports local/dev environments
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || c.Env == "local" || c.Env == "development" || c.Env == "dev"
}

// Location returns the schedule timezone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogResolved logs the resolved non-secret settings
func LogResolved(c *Config) {
	pkglogger.GetLogger().Info().
		Str("env", c.Env).
		Int("port", c.Server.Port).
		Str("db_driver", c.Database.Driver).
		Str("db_host", c.Database.Host).
		Str("redis", fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)).
		Bool("storage", c.Storage.Enabled).
		Bool("elasticsearch", c.Elasticsearch.Enabled).
		Str("notify", c.Notify.Transport).
		Bool("tracing", c.Tracing.Enabled).
		Str("timezone", c.Schedule.Timezone).
		Msg("config resolved")
}

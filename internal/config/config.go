package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"resumeforge/internal/render"
	"resumeforge/internal/schema"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Render   RenderConfig   `mapstructure:"render"`
	Export   ExportConfig   `mapstructure:"export"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int    `mapstructure:"port"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
	SeedBuiltins   bool   `mapstructure:"seed_builtins"`
}

// Origins 返回逗号分隔的 WebSocket 允许来源列表。
func (a APIConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(a.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr 返回 host:port 形式的地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// RenderConfig 是渲染引擎的环境配置，会被显式传给 render.Options。
type RenderConfig struct {
	DateFormat         string `mapstructure:"date_format"`
	PresentLabel       string `mapstructure:"present_label"`
	DateRangeSeparator string `mapstructure:"date_range_separator"`
	FontFamily         string `mapstructure:"font_family"`
}

// ExportConfig 控制文档导出任务。
type ExportConfig struct {
	BrowserBin     string        `mapstructure:"browser_bin"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`
	LinkTTL        time.Duration `mapstructure:"link_ttl"`
	MaxRetry       int           `mapstructure:"max_retry"`
	Concurrency    int           `mapstructure:"concurrency"`
	// RateLimit 为每个用户每分钟可提交的导出任务数，0 表示不限制。
	RateLimit int `mapstructure:"rate_limit"`
	// MetricsPort 是 worker 暴露 /metrics 的端口，0 表示不暴露。
	MetricsPort int `mapstructure:"metrics_port"`
}

// DSN builds a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.allowed_origins", "http://localhost:5173")
	v.SetDefault("api.seed_builtins", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resumeforge")
	v.SetDefault("database.user", "resumeforge")
	v.SetDefault("database.password", "resumeforge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumeforge")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("render.date_format", "MMM YYYY")
	v.SetDefault("render.present_label", "Present")
	v.SetDefault("render.date_range_separator", " – ")
	v.SetDefault("render.font_family", "Helvetica")
	v.SetDefault("export.browser_timeout", 30*time.Second)
	v.SetDefault("export.link_ttl", 15*time.Minute)
	v.SetDefault("export.max_retry", 3)
	v.SetDefault("export.concurrency", 4)
	v.SetDefault("export.rate_limit", 10)
	v.SetDefault("export.metrics_port", 9091)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                    "API_PORT",
		"api.allowed_origins":         "API_ALLOWED_ORIGINS",
		"api.seed_builtins":           "API_SEED_BUILTINS",
		"database.host":               "DATABASE_HOST",
		"database.port":               "DATABASE_PORT",
		"database.name":               "POSTGRES_DB",
		"database.user":               "POSTGRES_USER",
		"database.password":           "POSTGRES_PASSWORD",
		"database.sslmode":            "DATABASE_SSLMODE",
		"redis.host":                  "REDIS_HOST",
		"redis.port":                  "REDIS_PORT",
		"minio.endpoint":              "MINIO_ENDPOINT",
		"minio.public_endpoint":       "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":         "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":     "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":               "MINIO_USE_SSL",
		"minio.bucket":                "MINIO_BUCKET",
		"minio.region":                "MINIO_REGION",
		"minio.bucket_lookup":         "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":    "MINIO_AUTO_CREATE_BUCKET",
		"render.date_format":          "RENDER_DATE_FORMAT",
		"render.present_label":        "RENDER_PRESENT_LABEL",
		"render.date_range_separator": "RENDER_DATE_RANGE_SEPARATOR",
		"render.font_family":          "RENDER_FONT_FAMILY",
		"export.browser_bin":          "EXPORT_BROWSER_BIN",
		"export.browser_timeout":      "EXPORT_BROWSER_TIMEOUT",
		"export.link_ttl":             "EXPORT_LINK_TTL",
		"export.max_retry":            "EXPORT_MAX_RETRY",
		"export.concurrency":          "EXPORT_CONCURRENCY",
		"export.rate_limit":           "EXPORT_RATE_LIMIT",
		"export.metrics_port":         "EXPORT_METRICS_PORT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.PublicEndpoint == "" {
		return errors.New("minio public endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Export.LinkTTL <= 0 {
		return errors.New("export link ttl must be positive")
	}
	if cfg.Export.MaxRetry < 0 {
		return errors.New("export max retry must not be negative")
	}
	if cfg.Export.Concurrency <= 0 {
		return errors.New("export concurrency must be positive")
	}
	if cfg.Export.RateLimit < 0 {
		return errors.New("export rate limit must not be negative")
	}
	return nil
}

// Options 把部署配置转换为渲染选项；空值沿用引擎默认值。
func (r RenderConfig) Options() render.Options {
	opts := render.DefaultOptions()
	if r.PresentLabel != "" {
		opts.PresentLabel = r.PresentLabel
	}
	if r.DateRangeSeparator != "" {
		opts.DateRangeSeparator = r.DateRangeSeparator
	}
	if f := schema.DateFormat(r.DateFormat); schema.ValidDateFormat(f) {
		opts.Defaults.DateFormat = f
	}
	if r.FontFamily != "" {
		opts.Defaults.FontFamily = r.FontFamily
	}
	return opts
}

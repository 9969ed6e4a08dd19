package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	httpapi "github.com/jekabolt/grbpwr-dashboard/internal/api/http"
	"github.com/jekabolt/grbpwr-dashboard/internal/auth/jwt"
	"github.com/jekabolt/grbpwr-dashboard/internal/dashboard"
	"github.com/jekabolt/grbpwr-dashboard/internal/ratelimit"
	"github.com/jekabolt/grbpwr-dashboard/internal/snapshot"
	"github.com/jekabolt/grbpwr-dashboard/internal/source"
	"github.com/jekabolt/grbpwr-dashboard/log"
	"github.com/spf13/viper"
)

// Config represents the global configuration for the service.
type Config struct {
	Logger    log.Config       `mapstructure:"logger"`
	HTTP      httpapi.Config   `mapstructure:"http"`
	Auth      jwt.Config       `mapstructure:"auth"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
	Source    source.Config    `mapstructure:"source"`
	Refresh   snapshot.Config  `mapstructure:"refresh"`
	Dashboard dashboard.Config `mapstructure:"dashboard"`
}

// LoadConfig loads the configuration from a file and/or environment variables.
// Environment variables take precedence over config file values.
// Nested keys use double underscore, e.g. SOURCE__MYSQL__DSN for source.mysql.dsn;
// the flat names bound in bindEnvVars work too.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	setDefaults(v)
	bindEnvVars(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/config/grbpwr-dashboard")
		v.AddConfigPath("/etc/grbpwr-dashboard")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	// DSN can be assembled from MYSQL_* parts when not given whole
	if config.Source.MySQL.DSN == "" {
		host := os.Getenv("MYSQL_HOST")
		port := os.Getenv("MYSQL_PORT")
		user := os.Getenv("MYSQL_USER")
		password := os.Getenv("MYSQL_PASSWORD")
		database := os.Getenv("MYSQL_DATABASE")
		if host != "" && user != "" && database != "" {
			if port == "" {
				port = "3306"
			}
			config.Source.MySQL.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8&parseTime=false",
				user, password, host, port, database)
		}
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.request_timeout", 60*time.Second)
	v.SetDefault("auth.jwt_ttl", 24*time.Hour)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("rate_limit.max_requests", 5)
	v.SetDefault("source.kind", source.KindDir)
	v.SetDefault("source.dir.path", "./data")
	v.SetDefault("refresh.worker_interval", time.Duration(0))

	dc := dashboard.DefaultConfig()
	v.SetDefault("dashboard.default_status", dc.DefaultStatus)
	v.SetDefault("dashboard.top_categories", dc.TopCategories)
}

// bindEnvVars binds flat environment variable names to config keys.
func bindEnvVars(v *viper.Viper) {
	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	v.BindEnv("http.port", "HTTP_PORT")
	v.BindEnv("http.address", "HTTP_ADDRESS")
	v.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")
	v.BindEnv("http.request_timeout", "HTTP_REQUEST_TIMEOUT")

	// Auth
	v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	v.BindEnv("auth.jwt_ttl", "AUTH_JWT_TTL")

	// Rate limit
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("rate_limit.max_requests", "RATE_LIMIT_MAX_REQUESTS")

	// Source
	v.BindEnv("source.kind", "SOURCE_KIND")
	v.BindEnv("source.dir.path", "DATA_DIR")

	// Bucket
	v.BindEnv("source.bucket.s3_access_key", "BUCKET_S3_ACCESS_KEY")
	v.BindEnv("source.bucket.s3_secret_access_key", "BUCKET_S3_SECRET_ACCESS_KEY")
	v.BindEnv("source.bucket.s3_endpoint", "BUCKET_S3_ENDPOINT")
	v.BindEnv("source.bucket.s3_bucket_name", "BUCKET_S3_BUCKET_NAME")
	v.BindEnv("source.bucket.s3_bucket_location", "BUCKET_S3_BUCKET_LOCATION")
	v.BindEnv("source.bucket.base_folder", "BUCKET_BASE_FOLDER")
	v.BindEnv("source.bucket.insecure", "BUCKET_INSECURE")

	// MySQL
	v.BindEnv("source.mysql.dsn", "MYSQL_DSN")
	v.BindEnv("source.mysql.automigrate", "MYSQL_AUTOMIGRATE")
	v.BindEnv("source.mysql.max_open_connections", "MYSQL_MAX_OPEN_CONNECTIONS")
	v.BindEnv("source.mysql.max_idle_connections", "MYSQL_MAX_IDLE_CONNECTIONS")

	// BigQuery
	v.BindEnv("source.bigquery.project_id", "BIGQUERY_PROJECT_ID")
	v.BindEnv("source.bigquery.dataset", "BIGQUERY_DATASET")
	v.BindEnv("source.bigquery.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")
	v.BindEnv("source.bigquery.location", "BIGQUERY_LOCATION")

	// Refresh
	v.BindEnv("refresh.worker_interval", "REFRESH_WORKER_INTERVAL")

	// Dashboard
	v.BindEnv("dashboard.default_status", "DASHBOARD_DEFAULT_STATUS")
	v.BindEnv("dashboard.top_categories", "DASHBOARD_TOP_CATEGORIES")
}

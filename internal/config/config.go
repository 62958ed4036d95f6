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
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	CORS      CORSConfig
	Sentiment SentimentConfig
	Analysis  AnalysisConfig
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

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SentimentConfig holds settings for the language-model sentiment analyzer.
type SentimentConfig struct {
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	Endpoint     string `mapstructure:"endpoint"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	MaxFollowups int    `mapstructure:"max_followups"`
}

// AnalysisConfig holds batch analysis settings.
type AnalysisConfig struct {
	Concurrency          int `mapstructure:"concurrency"`
	SentimentTimeoutSecs int `mapstructure:"sentiment_timeout_secs"`
}

// Load reads configuration from environment variables with the BILLSENSE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BILLSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "billsense")
	v.SetDefault("db.password", "billsense_secret")
	v.SetDefault("db.name", "billsense_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Sentiment defaults
	v.SetDefault("sentiment.api_key", "")
	v.SetDefault("sentiment.default_model", "gpt-4o-mini")
	v.SetDefault("sentiment.endpoint", "")
	v.SetDefault("sentiment.timeout_secs", 60)
	v.SetDefault("sentiment.max_followups", 50)

	// Analysis defaults
	v.SetDefault("analysis.concurrency", 5)
	v.SetDefault("analysis.sentiment_timeout_secs", 30)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "BILLSENSE_SERVER_PORT",
		"server.read_timeout":             "BILLSENSE_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "BILLSENSE_SERVER_WRITE_TIMEOUT",
		"server.environment":              "BILLSENSE_SERVER_ENVIRONMENT",
		"db.host":                         "BILLSENSE_DB_HOST",
		"db.port":                         "BILLSENSE_DB_PORT",
		"db.user":                         "BILLSENSE_DB_USER",
		"db.password":                     "BILLSENSE_DB_PASSWORD",
		"db.name":                         "BILLSENSE_DB_NAME",
		"db.sslmode":                      "BILLSENSE_DB_SSLMODE",
		"db.max_open":                     "BILLSENSE_DB_MAX_OPEN",
		"db.max_idle":                     "BILLSENSE_DB_MAX_IDLE",
		"log.level":                       "BILLSENSE_LOG_LEVEL",
		"log.format":                      "BILLSENSE_LOG_FORMAT",
		"cors.allowed_origins":            "BILLSENSE_CORS_ALLOWED_ORIGINS",
		"sentiment.api_key":               "BILLSENSE_SENTIMENT_API_KEY",
		"sentiment.default_model":         "BILLSENSE_SENTIMENT_DEFAULT_MODEL",
		"sentiment.endpoint":              "BILLSENSE_SENTIMENT_ENDPOINT",
		"sentiment.timeout_secs":          "BILLSENSE_SENTIMENT_TIMEOUT_SECS",
		"sentiment.max_followups":         "BILLSENSE_SENTIMENT_MAX_FOLLOWUPS",
		"analysis.concurrency":            "BILLSENSE_ANALYSIS_CONCURRENCY",
		"analysis.sentiment_timeout_secs": "BILLSENSE_ANALYSIS_SENTIMENT_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BILLSENSE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BILLSENSE_SERVER_PORT") == "" {
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
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Sentiment = SentimentConfig{
		APIKey:       v.GetString("sentiment.api_key"),
		DefaultModel: v.GetString("sentiment.default_model"),
		Endpoint:     v.GetString("sentiment.endpoint"),
		TimeoutSecs:  v.GetInt("sentiment.timeout_secs"),
		MaxFollowups: v.GetInt("sentiment.max_followups"),
	}
	cfg.Analysis = AnalysisConfig{
		Concurrency:          v.GetInt("analysis.concurrency"),
		SentimentTimeoutSecs: v.GetInt("analysis.sentiment_timeout_secs"),
	}

	return cfg, nil
}

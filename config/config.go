package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	TokenTTLHours     int    `mapstructure:"TOKEN_TTL_HOURS"`
	Timezone          string `mapstructure:"TIMEZONE"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	AllowSignup       bool   `mapstructure:"ALLOW_SIGNUP"`
	SyncRetentionDays int    `mapstructure:"SYNC_RETENTION_DAYS"`
	ICSRefreshMinutes int    `mapstructure:"ICS_REFRESH_MINUTES"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`
}

// DefaultJWTSecret is the development-only fallback; serve refuses to start in
// production while it is still in place.
const DefaultJWTSecret = "datestack-dev-secret"

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "./data/datestack.db")
	viper.SetDefault("JWT_SECRET", DefaultJWTSecret)
	viper.SetDefault("TOKEN_TTL_HOURS", 72)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("ALLOW_SIGNUP", true)
	viper.SetDefault("SYNC_RETENTION_DAYS", 90)
	viper.SetDefault("ICS_REFRESH_MINUTES", 60)
	viper.SetDefault("CORS_ORIGINS", "*")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// TokenTTL returns the JWT lifetime as a duration.
func TokenTTL() time.Duration {
	hours := AppConfig.TokenTTLHours
	if hours <= 0 {
		hours = 72
	}
	return time.Duration(hours) * time.Hour
}

// Location resolves the configured server timezone, falling back to UTC on a
// bad TIMEZONE value rather than refusing to start.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Invalid TIMEZONE %q, falling back to UTC", AppConfig.Timezone)
		return time.UTC
	}
	return loc
}

// CORSOriginList splits the configured origins; "*" means allow all.
func CORSOriginList() []string {
	raw := AppConfig.CORSOrigins
	if raw == "" || raw == "*" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsPostgres reports whether the configured DATABASE_URL points at PostgreSQL.
// Anything else is treated as a SQLite file path.
func IsPostgres() bool {
	url := AppConfig.DatabaseURL
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

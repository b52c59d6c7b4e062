package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Redis     RedisConfig
	MQTT      MQTTConfig
	Storage   StorageConfig
	Log       LogConfig
	Jobs      JobsConfig
	Alerts    AlertsConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
	// Body limits in bytes; zero falls back to the middleware defaults.
	MaxJSONBody   int64
	MaxUploadBody int64
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        int
	RefreshExpiryHours int
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// RedisConfig is optional; an empty URL disables caching and redis pub/sub.
type RedisConfig struct {
	URL      string
	StatsTTL time.Duration
}

// MQTTConfig is optional; an empty broker disables MQTT event publishing.
type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

type StorageConfig struct {
	S3Bucket  string
	S3Region  string
	LocalDir  string
	PublicURL string
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type JobsConfig struct {
	Enabled               bool
	TokenCleanupInterval  time.Duration
	EmailRepairInterval   time.Duration
	BudgetRefreshInterval time.Duration
	ReminderScanInterval  time.Duration
	AlertScanInterval     time.Duration
}

// AlertsConfig tunes the alert scan. A zero MinFuelEfficiency (km/l)
// turns low efficiency alerts off.
type AlertsConfig struct {
	MinFuelEfficiency float64
}

// AdminConfig seeds the first administrator when Email is set.
type AdminConfig struct {
	Email    string
	Password string
}

// Load reads .env files into the process environment and then resolves
// every setting through viper. Values already set in the environment win.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
		log.Printf("Warning: env file not found: %v. Falling back to environment variables only.", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: v.GetString("ENVIRONMENT"),

			MaxJSONBody:   v.GetInt64("SERVER_MAX_JSON_BODY"),
			MaxUploadBody: v.GetInt64("SERVER_MAX_UPLOAD_BODY"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			ExpiryHours:        v.GetInt("JWT_EXPIRY_HOURS"),
			RefreshExpiryHours: v.GetInt("JWT_REFRESH_EXPIRY_HOURS"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   v.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   v.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
		Redis: RedisConfig{
			URL:      v.GetString("REDIS_URL"),
			StatsTTL: v.GetDuration("REDIS_STATS_TTL"),
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			Username:    v.GetString("MQTT_USERNAME"),
			Password:    v.GetString("MQTT_PASSWORD"),
			TopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),
		},
		Storage: StorageConfig{
			S3Bucket:  v.GetString("AWS_S3_BUCKET"),
			S3Region:  v.GetString("AWS_REGION"),
			LocalDir:  v.GetString("STORAGE_LOCAL_DIR"),
			PublicURL: v.GetString("STORAGE_PUBLIC_URL"),
		},
		Log: LogConfig{
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Jobs: JobsConfig{
			Enabled:               v.GetBool("JOBS_ENABLED"),
			TokenCleanupInterval:  v.GetDuration("JOBS_TOKEN_CLEANUP_INTERVAL"),
			EmailRepairInterval:   v.GetDuration("JOBS_EMAIL_REPAIR_INTERVAL"),
			BudgetRefreshInterval: v.GetDuration("JOBS_BUDGET_REFRESH_INTERVAL"),
			ReminderScanInterval:  v.GetDuration("JOBS_REMINDER_SCAN_INTERVAL"),
			AlertScanInterval:     v.GetDuration("JOBS_ALERT_SCAN_INTERVAL"),
		},
		Alerts: AlertsConfig{
			MinFuelEfficiency: v.GetFloat64("ALERT_MIN_FUEL_EFFICIENCY"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SERVER_MAX_JSON_BODY", 1<<20)
	v.SetDefault("SERVER_MAX_UPLOAD_BODY", 11<<20)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"})
	v.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID", "Content-Disposition"})
	v.SetDefault("CORS_MAX_AGE", 43200)
	v.SetDefault("REDIS_STATS_TTL", 2*time.Minute)
	v.SetDefault("MQTT_CLIENT_ID", "fleet-campus-admin")
	v.SetDefault("MQTT_TOPIC_PREFIX", "fleet")
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("STORAGE_PUBLIC_URL", "http://localhost:8080/api/v1/uploads")
	v.SetDefault("LOG_MAX_SIZE_MB", 10)
	v.SetDefault("LOG_MAX_BACKUPS", 7)
	v.SetDefault("LOG_MAX_AGE_DAYS", 7)
	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("JOBS_TOKEN_CLEANUP_INTERVAL", time.Hour)
	v.SetDefault("JOBS_EMAIL_REPAIR_INTERVAL", 24*time.Hour)
	v.SetDefault("JOBS_BUDGET_REFRESH_INTERVAL", time.Hour)
	v.SetDefault("JOBS_REMINDER_SCAN_INTERVAL", 6*time.Hour)
	v.SetDefault("JOBS_ALERT_SCAN_INTERVAL", 6*time.Hour)
	v.SetDefault("ALERT_MIN_FUEL_EFFICIENCY", 5.0)
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

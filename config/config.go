package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisEventsDB        int    `mapstructure:"REDIS_EVENTS_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Firebase service account used for push delivery.
	FirebaseCredentialsPath string `mapstructure:"FIREBASE_CREDENTIALS_PATH"`

	// Booking lifecycle tuning.
	ExpirySweepSchedule    string  `mapstructure:"EXPIRY_SWEEP_SCHEDULE"`
	ExpirySweepBatch       int     `mapstructure:"EXPIRY_SWEEP_BATCH"`
	DuplicateWindowMinutes int     `mapstructure:"DUPLICATE_WINDOW_MINUTES"`
	CommissionRate         float64 `mapstructure:"COMMISSION_RATE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if AppConfig.JWTSecret == "" {
		if IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Println("JWT_SECRET is empty; every bearer token will be rejected")
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("TIMEZONE", "Asia/Makassar")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "spabook")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_EVENTS_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("FIREBASE_CREDENTIALS_PATH", "./config/firebase-service-account.json")
	viper.SetDefault("EXPIRY_SWEEP_SCHEDULE", "@every 1m")
	viper.SetDefault("EXPIRY_SWEEP_BATCH", 100)
	viper.SetDefault("DUPLICATE_WINDOW_MINUTES", 5)
	viper.SetDefault("COMMISSION_RATE", 0.30)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the configured business timezone, falling back to UTC
// when the zone database does not know the name.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil || AppConfig.Timezone == "" {
		return time.UTC
	}
	return loc
}

// DuplicateWindow is how far back the duplicate-booking guard looks.
func DuplicateWindow() time.Duration {
	if AppConfig.DuplicateWindowMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(AppConfig.DuplicateWindowMinutes) * time.Minute
}

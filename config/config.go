package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"
)

type Config struct {
	App   AppConfig
	DB    DBConfig
	Redis RedisConfig
	Lock  LockConfig
	Cache CacheConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
	// Timezone anchors calendar days, shift times and ISO weeks.
	Timezone string
	Location *time.Location

	// CORSOrigin is sent as Access-Control-Allow-Origin.
	CORSOrigin string
}

type DBConfig struct {
	Driver      string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type LockConfig struct {
	WaitTimeout time.Duration
	TTL         time.Duration
}

type CacheConfig struct {
	DoctorSize int
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine; the environment may carry everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper()
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_LOG_LEVEL", "info")
	viper.SetDefault("APP_TIMEZONE", "UTC")
	viper.SetDefault("APP_CORS_ORIGIN", "*")
	viper.SetDefault("DB_DRIVER", DBDriverPostgres)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("REDIS_ENABLED", false)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("LOCK_WAIT_TIMEOUT", "5s")
	viper.SetDefault("LOCK_TTL", "15s")
	viper.SetDefault("CACHE_DOCTOR_SIZE", 1000)
}

func fromViper() (*Config, error) {
	loc, err := time.LoadLocation(viper.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	waitTimeout, err := time.ParseDuration(viper.GetString("LOCK_WAIT_TIMEOUT"))
	if err != nil {
		waitTimeout = 5 * time.Second
	}

	lockTTL, err := time.ParseDuration(viper.GetString("LOCK_TTL"))
	if err != nil {
		lockTTL = 15 * time.Second
	}

	driver := strings.ToLower(viper.GetString("DB_DRIVER"))
	if driver != DBDriverPostgres && driver != DBDriverMemory {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      strings.ToLower(viper.GetString("APP_ENV")),
			LogLevel: viper.GetString("APP_LOG_LEVEL"),
			Timezone: viper.GetString("APP_TIMEZONE"),
			Location: loc,

			CORSOrigin: viper.GetString("APP_CORS_ORIGIN"),
		},
		DB: DBConfig{
			Driver:      driver,
			Host:        viper.GetString("DB_HOST"),
			Port:        viper.GetString("DB_PORT"),
			User:        viper.GetString("DB_USER"),
			Password:    viper.GetString("DB_PASSWORD"),
			Name:        viper.GetString("DB_NAME"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("REDIS_ENABLED"),
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Lock: LockConfig{
			WaitTimeout: waitTimeout,
			TTL:         lockTTL,
		},
		Cache: CacheConfig{
			DoctorSize: viper.GetInt("CACHE_DOCTOR_SIZE"),
		},
	}

	return config, nil
}

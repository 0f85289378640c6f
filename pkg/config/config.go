package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Providers ProvidersConfig
	Scheduler SchedulerConfig
	Export    ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ProvidersConfig selects and tunes the section and rating sources.
type ProvidersConfig struct {
	// Source picks the section backend: umdio, testudo, or catalog.
	Source            string
	UMDIOBaseURL      string
	TestudoBaseURL    string
	PlanetTerpBaseURL string
	Timeout           time.Duration
}

// SchedulerConfig tunes the schedule search and rating behaviour.
type SchedulerConfig struct {
	DefaultTerm       string
	ProviderTimeout   time.Duration
	RankOrder         string
	EnableRatingCache bool
	RatingCacheTTL    time.Duration
}

// ExportConfig governs the iCalendar export defaults.
type ExportConfig struct {
	DefaultWeeks int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Providers = ProvidersConfig{
		Source:            strings.ToLower(v.GetString("SECTION_SOURCE")),
		UMDIOBaseURL:      v.GetString("UMDIO_BASE_URL"),
		TestudoBaseURL:    v.GetString("TESTUDO_BASE_URL"),
		PlanetTerpBaseURL: v.GetString("PLANETTERP_BASE_URL"),
		Timeout:           parseDuration(v.GetString("PROVIDER_HTTP_TIMEOUT"), 10*time.Second),
	}

	cfg.Scheduler = SchedulerConfig{
		DefaultTerm:       v.GetString("SCHEDULER_DEFAULT_TERM"),
		ProviderTimeout:   parseDuration(v.GetString("SCHEDULER_PROVIDER_TIMEOUT"), 15*time.Second),
		RankOrder:         strings.ToLower(v.GetString("SCHEDULER_RANK_ORDER")),
		EnableRatingCache: v.GetBool("ENABLE_RATING_CACHE"),
		RatingCacheTTL:    parseDuration(v.GetString("RATING_CACHE_TTL"), 24*time.Hour),
	}

	cfg.Export = ExportConfig{
		DefaultWeeks: v.GetInt("EXPORT_DEFAULT_WEEKS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schedule_api")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SECTION_SOURCE", "umdio")
	v.SetDefault("UMDIO_BASE_URL", "https://api.umd.io/v1")
	v.SetDefault("TESTUDO_BASE_URL", "https://app.testudo.umd.edu")
	v.SetDefault("PLANETTERP_BASE_URL", "https://planetterp.com/api/v1")
	v.SetDefault("PROVIDER_HTTP_TIMEOUT", "10s")

	v.SetDefault("SCHEDULER_DEFAULT_TERM", "202601")
	v.SetDefault("SCHEDULER_PROVIDER_TIMEOUT", "15s")
	v.SetDefault("SCHEDULER_RANK_ORDER", "ascending")
	v.SetDefault("ENABLE_RATING_CACHE", false)
	v.SetDefault("RATING_CACHE_TTL", "24h")

	v.SetDefault("EXPORT_DEFAULT_WEEKS", 15)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

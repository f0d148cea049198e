package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Listing   ListingConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	// PublicURL prefixes links sent to users, e.g. password reset mails.
	PublicURL string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	URL        string
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type ListingConfig struct {
	Freshness time.Duration
	PageSize  int
}

type SchedulerConfig struct {
	// cron spec, e.g. "@every 4m"
	WarmSpec string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing default ".env" is not an error.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads the configuration from v, which is expected to have AutomaticEnv
// enabled and any command-line flags already bound.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
		v.AutomaticEnv()
	}

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key, def string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			return def
		}
		return s
	}
	dur := func(key string, def time.Duration) time.Duration {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			return def
		}
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "volunteer-hub"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
		PublicURL:   strings.TrimRight(opt("APP_PUBLIC_URL", "http://localhost:3000"), "/"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(v.GetInt("DB_POOL_MAX_CONNS")),
		PoolMinConns:          int32(v.GetInt("DB_POOL_MIN_CONNS")),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		URL:        opt("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL: dur("SESSION_TTL", 7*24*time.Hour),
		ResetTTL:   dur("PASSWORD_RESET_TTL", 30*time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  dur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: dur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	pageSize := v.GetInt("LISTING_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 12
	}
	cfg.Listing = ListingConfig{
		Freshness: dur("LISTING_FRESHNESS", 5*time.Minute),
		PageSize:  pageSize,
	}

	cfg.Scheduler = SchedulerConfig{
		WarmSpec: opt("LISTING_WARM_SPEC", "@every 4m"),
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("json"),
		Debug: v.GetBool("debug"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

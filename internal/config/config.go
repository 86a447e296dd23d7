package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment
	Debug            bool    `mapstructure:"debug"`    // verbose Telegram API logging
	Trivia           Trivia  `mapstructure:"trivia"`   // question service client section
	Quiz             Quiz    `mapstructure:"quiz"`     // quiz view section
	Session          Session `mapstructure:"session"`  // per-chat view state section
	DB               DB      `mapstructure:"database"` // database configuration section
	Redis            Redis   `mapstructure:"redis"`    // leaderboard cache section
}

// Trivia configures the question service client.
type Trivia struct {
	BaseURL         string        `mapstructure:"-"`                // service base URL loaded from environment
	Timeout         time.Duration `mapstructure:"timeout"`          // transport timeout per request
	WithCredentials bool          `mapstructure:"with_credentials"` // keep cookies between requests
	PageSize        int           `mapstructure:"page_size"`        // backend page size
}

// Quiz configures quiz sessions.
type Quiz struct {
	Rounds int `mapstructure:"rounds"` // questions per session, 0 for no limit
}

// Session configures eviction of idle chat state.
type Session struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"` // drop chat state after this much inactivity
	SweepSpec   string        `mapstructure:"sweep_spec"`   // cron spec of the sweeper
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis contains leaderboard cache parameters. An empty Addr disables it.
type Redis struct {
	Addr     string `mapstructure:"-"`   // host:port loaded from environment
	Password string `mapstructure:"-"`   // password loaded from environment
	DB       int    `mapstructure:"db"`  // logical database number
	Key      string `mapstructure:"key"` // sorted set key
}

// Enabled reports whether a Redis address is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Pick up a local .env file; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// Initialize base config options.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("debug", false)
	v.SetDefault("trivia.timeout", "10s")
	v.SetDefault("trivia.with_credentials", true)
	v.SetDefault("trivia.page_size", 10)
	v.SetDefault("quiz.rounds", 5)
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.sweep_spec", "@every 5m")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "trivia:leaderboard")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("trivia_base_url", "TRIVIA_BASE_URL")
	_ = v.BindEnv("redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("TELEGRAM_API_TOKEN: %w", ErrMissingEnvironmentVariables)
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL: %w", ErrMissingEnvironmentVariables)
	}

	cfg.Trivia.BaseURL = v.GetString("trivia_base_url")
	if cfg.Trivia.BaseURL == "" {
		return nil, fmt.Errorf("TRIVIA_BASE_URL: %w", ErrMissingEnvironmentVariables)
	}

	cfg.Redis.Addr = v.GetString("redis_addr")
	cfg.Redis.Password = v.GetString("redis_password")

	return &cfg, nil
}

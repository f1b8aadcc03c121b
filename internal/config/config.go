package config

import (
	"errors"
	"fmt"
	"time"

	"concentration/internal/game"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config все настройки сервера, читаются из окружения
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`

	// пустые значения отключают postgres и redis
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-secret"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	BoardRows  int      `env:"BOARD_ROWS" envDefault:"3"`
	BoardCols  int      `env:"BOARD_COLS" envDefault:"4"`
	TileLabels []string `env:"TILE_VALUES" envSeparator:","`
	Shuffle    bool     `env:"SHUFFLE" envDefault:"true"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"5m"`
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.TileLabels) == 0 {
		cfg.TileLabels = game.DefaultLabels()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TileValues метки, продублированные парами
func (c *Config) TileValues() []string {
	return game.PairValues(c.TileLabels)
}

func (c *Config) JSONLogs() bool { return c.LogFormat == "json" }

// Validate проверяет что пары ровно заполняют поле
func (c *Config) Validate() error {
	if c.BoardRows <= 0 || c.BoardCols <= 0 {
		return fmt.Errorf("%w: board %dx%d", ErrInvalidConfig, c.BoardRows, c.BoardCols)
	}
	if got, want := len(c.TileLabels)*2, c.BoardRows*c.BoardCols; got != want {
		return fmt.Errorf("%w: %d labels give %d tiles, board %dx%d needs %d",
			ErrInvalidConfig, len(c.TileLabels), got, c.BoardRows, c.BoardCols, want)
	}
	seen := make(map[string]bool, len(c.TileLabels))
	for _, l := range c.TileLabels {
		if l == "" {
			return fmt.Errorf("%w: empty tile label", ErrInvalidConfig)
		}
		if seen[l] {
			return fmt.Errorf("%w: duplicate tile label %q", ErrInvalidConfig, l)
		}
		seen[l] = true
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalidConfig)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("%w: CLEANUP_INTERVAL must be positive", ErrInvalidConfig)
	}
	return nil
}

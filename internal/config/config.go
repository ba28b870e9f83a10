package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8080" validate:"required"`

	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379" validate:"required"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0" validate:"gte=0"`

	SQLitePath string `env:"SQLITE_PATH,default=quizroom.db" validate:"required"`

	// QuestionsFile is an optional question bank imported at startup
	QuestionsFile string `env:"QUESTIONS_FILE"`

	JWTSecret string `env:"JWT_SECRET,required=true" validate:"required,min=16"`
	JWTIssuer string `env:"JWT_ISSUER,default=quizroom"`

	PresenceGrace     time.Duration `env:"PRESENCE_GRACE,default=30s" validate:"gt=0"`
	QuestionTimeLimit time.Duration `env:"QUESTION_TIME_LIMIT,default=20s" validate:"gt=0"`
	BasePoints        int           `env:"BASE_POINTS,default=1000" validate:"gt=0"`
	MaxMessageLength  int           `env:"MAX_MESSAGE_LENGTH,default=500" validate:"gt=0"`
	MaxPlayers        int           `env:"MAX_PLAYERS,default=50" validate:"gte=0"`
	RoomRetention     time.Duration `env:"ROOM_RETENTION,default=5m" validate:"gte=0"`
	RoomExpiry        time.Duration `env:"ROOM_EXPIRY,default=1h" validate:"gt=0"`
	SendBufferSize    int           `env:"SEND_BUFFER_SIZE,default=256" validate:"gt=0"`

	LogLevel       string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS,default=*"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return FromEnvSet(es)
}

// FromEnvSet decodes and validates a configuration from an explicit variable set
func FromEnvSet(es env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Origins splits AllowedOrigins into the list CORS expects
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SlogLevel maps LogLevel onto slog
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

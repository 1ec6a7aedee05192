package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"chainreaction.db"`
	Game              Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game holds the board limits and record lifetime.
type Game struct {
	DefaultRows  int           `yaml:"default-rows" env:"GAME_DEFAULT_ROWS" env-default:"8"`
	DefaultCols  int           `yaml:"default-cols" env:"GAME_DEFAULT_COLS" env-default:"6"`
	MinDimension int           `yaml:"min-dimension" env:"GAME_MIN_DIMENSION" env-default:"3"`
	MaxDimension int           `yaml:"max-dimension" env:"GAME_MAX_DIMENSION" env-default:"20"`
	TTL          time.Duration `yaml:"ttl" env:"GAME_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file, environment variables take precedence.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

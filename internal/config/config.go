package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Quiz     QuizConfig     `yaml:"quiz"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"     env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
	TTL      time.Duration `yaml:"ttl"      env:"REDIS_TTL"      env-default:"10m"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES_URL"`
}

// QuizConfig tunes the quiz engine.
type QuizConfig struct {
	DurationSeconds int               `yaml:"duration_seconds"  env:"QUIZ_DURATION_SECONDS"  env-default:"300"`
	DailyWordCount  int               `yaml:"daily_word_count"  env:"QUIZ_DAILY_WORD_COUNT"  env-default:"10"`
	AlphabetMode    string            `yaml:"alphabet_mode"     env:"QUIZ_ALPHABET_MODE"     env-default:"used"`
	VocabularyTTL   time.Duration     `yaml:"vocabulary_ttl"    env:"QUIZ_VOCABULARY_TTL"    env-default:"10m"`
	ExtraFolds      map[string]string `yaml:"extra_folds"`
	Scoring         ScoringConfig     `yaml:"scoring"`
}

type ScoringConfig struct {
	Correct int `yaml:"correct" env:"QUIZ_SCORE_CORRECT" env-default:"15"`
	Wrong   int `yaml:"wrong"   env:"QUIZ_SCORE_WRONG"   env-default:"-5"`
	Empty   int `yaml:"empty"   env:"QUIZ_SCORE_EMPTY"   env-default:"-2"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads YAML config from path; environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Config{}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Resolve loads path, or only the environment when path is empty.
func Resolve(path string) (Config, error) {
	if path == "" {
		return LoadEnv()
	}
	return Load(path)
}

// LoadEnv builds the config from environment variables and defaults only.
func LoadEnv() (Config, error) {
	cfg := Config{}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

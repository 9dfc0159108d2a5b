package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/flashcards-backend/internal/matching"
)

type Config struct {
	LogLevel          string         `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string         `yaml:"http-port" env:"PORT" env-default:"3001"`
	SocketPort        string         `yaml:"socket-port" env:"SOCKET_PORT" env-default:"3002"`
	Redis             Redis          `yaml:"redis"`
	SQLiteStoragePath string         `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"flashcards.db"`
	OpenAI            OpenAI         `yaml:"openai"`
	HuggingFace       HuggingFace    `yaml:"huggingface"`
	LibreTranslate    LibreTranslate `yaml:"libretranslate"`
	Game              Game           `yaml:"game"`
	Session           Session        `yaml:"session"`
	ProxyTimeout      time.Duration  `yaml:"proxy-timeout" env-default:"60s"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type OpenAI struct {
	APIKey string `yaml:"api-key" env:"OPENAI_API_KEY"`
	URL    string `yaml:"url" env-default:"https://api.openai.com/v1/chat/completions"`
	Model  string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
}

type HuggingFace struct {
	Token     string `yaml:"token" env:"HUGGINGFACE_API_TOKEN"`
	RouterURL string `yaml:"router-url" env-default:"https://router.huggingface.co/hf-inference"`
	LegacyURL string `yaml:"legacy-url" env-default:"https://api-inference.huggingface.co"`
}

type LibreTranslate struct {
	URL    string `yaml:"url" env:"LIBRETRANSLATE_URL" env-default:"https://libretranslate.com/translate"`
	APIKey string `yaml:"api-key" env:"LIBRETRANSLATE_API_KEY"`
}

// Game holds the feedback delays of the matching game.
type Game struct {
	StartDelay    time.Duration `yaml:"start-delay" env-default:"500ms"`
	RestartDelay  time.Duration `yaml:"restart-delay" env-default:"300ms"`
	RevealDelay   time.Duration `yaml:"reveal-delay" env-default:"500ms"`
	CompleteDelay time.Duration `yaml:"complete-delay" env-default:"800ms"`
	MismatchDelay time.Duration `yaml:"mismatch-delay" env-default:"1s"`
	TickInterval  time.Duration `yaml:"tick-interval" env-default:"1s"`
}

type Session struct {
	TTL           time.Duration `yaml:"ttl" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env-default:"1m"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Game) Delays() matching.Delays {
	return matching.Delays{
		Start:    that.StartDelay,
		Restart:  that.RestartDelay,
		Reveal:   that.RevealDelay,
		Complete: that.CompleteDelay,
		Mismatch: that.MismatchDelay,
		Tick:     that.TickInterval,
	}
}

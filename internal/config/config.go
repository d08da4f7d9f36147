package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvConfigPath - переменная окружения с путём к yaml-конфигу.
const EnvConfigPath = "TASKPLANNER_CONFIG"

type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Session   SessionConfig   `mapstructure:"session"`
	Reminders RemindersConfig `mapstructure:"reminders"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 - таймаут транспорта по умолчанию
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type SessionConfig struct {
	TokenFile  string `mapstructure:"token_file"`
	SignInPath string `mapstructure:"sign_in_path"`
}

type RemindersConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type RateLimitConfig struct {
	RPM int `mapstructure:"rpm"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("logging.development", true)
	v.SetDefault("session.token_file", ".taskplanner/session.yml")
	v.SetDefault("session.sign_in_path", "/auth/sign-in")
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.interval", 5*time.Minute)
	v.SetDefault("rate_limit.rpm", 100)
}

// Load: значения по умолчанию < yaml-файл < .env < переменные окружения.
// path пустой - берётся TASKPLANNER_CONFIG; нет и его - только defaults и env.
func Load(path string) (*Config, error) {
	// .env не обязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ошибка чтения .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TASKPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// имя переменной из фронтенда сохраняем для совместимости
	if err := v.BindEnv("api.base_url", "TASKPLANNER_API_BASE_URL", "API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("привязка переменных окружения: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("не могу прочитать %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url не может быть пустым")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.base_url должен быть абсолютным URL: %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout не может быть отрицательным")
	}
	if c.Reminders.Enabled && c.Reminders.Interval <= 0 {
		return errors.New("reminders.interval должен быть положительным")
	}
	if c.RateLimit.RPM <= 0 {
		return errors.New("rate_limit.rpm должен быть положительным")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

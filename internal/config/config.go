package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Окружения приложения
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config представляет полную конфигурацию приложения
type Config struct {
	App       AppConfig       `toml:"app"`
	Logs      LogsConfig      `toml:"logs"`
	Server    ServerConfig    `toml:"server"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Telegram  TelegramConfig  `toml:"telegram"`
	RapidAPI  RapidAPIConfig  `toml:"rapidapi"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Retry     RetryConfig     `toml:"retry"`
}

// AppConfig общие настройки сервиса
type AppConfig struct {
	Name        string `toml:"name" validate:"required"`
	Version     string `toml:"version" validate:"required"`
	Environment string `toml:"environment" validate:"oneof=development production test"`
}

// IsDevelopment включает подробности неклассифицированных ошибок в ответах
func (a AppConfig) IsDevelopment() bool {
	return a.Environment == EnvDevelopment
}

// LogsConfig содержит настройки логирования
type LogsConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn warning error"`
	File  string `toml:"file"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int   `toml:"http_port" validate:"min=1,max=65535"`
	ReadTimeout     int   `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout    int   `toml:"write_timeout" validate:"gt=0"`
	IdleTimeout     int   `toml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout int   `toml:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64 `toml:"max_body_bytes" validate:"gt=0"`
}

// RequestTimeout предел обработки одного запроса, совпадает с write_timeout
func (s ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// MetricsConfig содержит настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path" validate:"startswith=/"`
	ServiceName string `toml:"service_name" validate:"required"`
}

// TelegramConfig содержит настройки клиента Bot API
type TelegramConfig struct {
	DefaultBotToken string `toml:"default_bot_token"`               // подставляется, если в запросе нет token
	APIEndpoint     string `toml:"api_endpoint" validate:"required"` // формат tgbotapi: https://api.telegram.org/bot%s/%s
	Timeout         int    `toml:"timeout" validate:"gt=0"`          // в секундах
}

// RapidAPIConfig содержит настройки режима маркетплейса
type RapidAPIConfig struct {
	Enabled      bool     `toml:"enabled"`
	ProxySecret  string   `toml:"proxy_secret" validate:"required_if=Enabled true"`
	PremiumTiers []string `toml:"premium_tiers"`
}

// RateLimitConfig содержит настройки локальных ограничителей запросов
type RateLimitConfig struct {
	WindowMS          int  `toml:"window_ms" validate:"gt=0"`
	MaxRequests       int  `toml:"max_requests" validate:"gt=0"`
	StrictWindowMS    int  `toml:"strict_window_ms" validate:"gt=0"`
	StrictMaxRequests int  `toml:"strict_max_requests" validate:"gt=0"`
	TrustForwardedFor bool `toml:"trust_forwarded_for"`
	PruneInterval     int  `toml:"prune_interval" validate:"gt=0"` // в секундах
}

// Window окно общего ограничителя
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

// StrictWindow окно ограничителя чувствительных операций
func (r RateLimitConfig) StrictWindow() time.Duration {
	return time.Duration(r.StrictWindowMS) * time.Millisecond
}

// RetryConfig содержит настройки повторов при 429 от Telegram
type RetryConfig struct {
	MaxRetries        int     `toml:"max_retries" validate:"gt=0"`
	InitialBackoffMS  int     `toml:"initial_backoff_ms" validate:"gt=0"`
	BackoffMultiplier float64 `toml:"backoff_multiplier" validate:"gte=1"`
	MaxWaitMS         int     `toml:"max_wait_ms" validate:"gt=0"` // дольше upstream не ждём
}

// Load загружает конфигурацию из TOML файла с поддержкой переменных окружения
// Отсутствующий файл допустим: тогда используются значения по умолчанию и окружение
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to decode TOML config: %w", err)
		}
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:        "Telegram Gateway API",
			Version:     "1.0.0",
			Environment: EnvDevelopment,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Server: ServerConfig{
			HTTPPort:        3000,
			ReadTimeout:     15,
			WriteTimeout:    60,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			MaxBodyBytes:    10 << 20,
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "telegramgateway",
		},
		Telegram: TelegramConfig{
			APIEndpoint: "https://api.telegram.org/bot%s/%s",
			Timeout:     30,
		},
		RateLimit: RateLimitConfig{
			WindowMS:          15 * 60 * 1000,
			MaxRequests:       100,
			StrictWindowMS:    60 * 1000,
			StrictMaxRequests: 10,
			PruneInterval:     300,
		},
		Retry: RetryConfig{
			MaxRetries:        5,
			InitialBackoffMS:  1000,
			BackoffMultiplier: 2,
			MaxWaitMS:         30 * 1000,
		},
	}
}

// overrideFromEnv переопределяет значения из переменных окружения
// Числа и флаги, которые не удалось разобрать, считаются ошибкой конфигурации
func overrideFromEnv(cfg *Config) error {
	var errs []error
	setInt := func(dst *int, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", key, err))
					return
				}
				*dst = n
				return
			}
		}
	}
	setBool := func(dst *bool, key string) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := os.Getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}

	// App
	setString(&cfg.App.Environment, "APP_ENV", "NODE_ENV")

	// Server
	setInt(&cfg.Server.HTTPPort, "HTTP_PORT", "PORT")

	// Logs
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Logs.File, "LOG_FILE")

	// Metrics
	setBool(&cfg.Metrics.Enabled, "METRICS_ENABLED")
	setString(&cfg.Metrics.Path, "METRICS_PATH")
	setString(&cfg.Metrics.ServiceName, "METRICS_SERVICE_NAME")

	// Telegram
	setString(&cfg.Telegram.DefaultBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.APIEndpoint, "TELEGRAM_API_ENDPOINT")
	setInt(&cfg.Telegram.Timeout, "TELEGRAM_TIMEOUT")

	// RapidAPI
	setBool(&cfg.RapidAPI.Enabled, "RAPIDAPI_ENABLED")
	setString(&cfg.RapidAPI.ProxySecret, "RAPIDAPI_PROXY_SECRET")
	if v := os.Getenv("RAPIDAPI_PREMIUM_TIERS"); v != "" {
		cfg.RapidAPI.PremiumTiers = splitList(v)
	}

	// Rate limit
	setInt(&cfg.RateLimit.WindowMS, "RATE_LIMIT_WINDOW_MS")
	setInt(&cfg.RateLimit.MaxRequests, "RATE_LIMIT_MAX_REQUESTS")
	setBool(&cfg.RateLimit.TrustForwardedFor, "RATE_LIMIT_TRUST_FORWARDED_FOR")

	return errors.Join(errs...)
}

// validate проверяет корректность конфигурации по тегам validate
func validate(cfg *Config) error {
	cfg.App.Environment = strings.ToLower(strings.TrimSpace(cfg.App.Environment))
	cfg.Logs.Level = strings.ToLower(strings.TrimSpace(cfg.Logs.Level))

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}

		msgs := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	if !strings.Contains(cfg.Telegram.APIEndpoint, "%s") {
		return fmt.Errorf("telegram api_endpoint must contain %%s placeholders for token and method")
	}

	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

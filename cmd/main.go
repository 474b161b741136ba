package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/health"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/handlers/root"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/middleware"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/router"
	"github.com/m04kA/SMC-TelegramGateway/internal/api/validation"
	"github.com/m04kA/SMC-TelegramGateway/internal/config"
	tgclient "github.com/m04kA/SMC-TelegramGateway/internal/integrations/telegram"
	"github.com/m04kA/SMC-TelegramGateway/internal/service/telegram"
	"github.com/m04kA/SMC-TelegramGateway/internal/worker"
	"github.com/m04kA/SMC-TelegramGateway/pkg/logger"
	"github.com/m04kA/SMC-TelegramGateway/pkg/metrics"
	"github.com/m04kA/SMC-TelegramGateway/pkg/retry"
)

const defaultConfigPath = "config.toml"

func main() {
	startedAt := time.Now()

	configPath := defaultConfigPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting %s v%s (env=%s)...", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Клиент Telegram Bot API: токен передаётся в каждом вызове
	client := tgclient.NewClient(
		cfg.Telegram.APIEndpoint,
		time.Duration(cfg.Telegram.Timeout)*time.Second,
		tgclient.WithObserver(metricsCollector),
	)
	if cfg.Telegram.DefaultBotToken == "" {
		log.Warn("No default bot token configured, requests must pass ?token=")
	}

	// Повторы при 429 от Telegram
	retrier := retry.New(
		retry.Policy{
			MaxRetries:        cfg.Retry.MaxRetries,
			InitialBackoff:    time.Duration(cfg.Retry.InitialBackoffMS) * time.Millisecond,
			BackoffMultiplier: cfg.Retry.BackoffMultiplier,
			MaxWait:           time.Duration(cfg.Retry.MaxWaitMS) * time.Millisecond,
		},
		retry.WithObserver(func(attempt int, wait time.Duration, err error) {
			log.Warn("Telegram rate limit hit, retry %d in %s: %v", attempt, wait, err)
			metricsCollector.IncUpstreamRetry("getChatAdministrators")
		}),
	)

	telegramSvc := telegram.NewService(client, retrier, log)
	log.Info("Telegram service initialized (endpoint=%s)", cfg.Telegram.APIEndpoint)

	// HTTP слой
	errs := handlers.NewErrorResponder(log, cfg.App.IsDevelopment())
	binder := validation.NewBinder(validation.New(), cfg.Telegram.DefaultBotToken)

	gate := middleware.NewGate(middleware.GateConfig{
		Enabled:      cfg.RapidAPI.Enabled,
		ProxySecret:  cfg.RapidAPI.ProxySecret,
		PremiumTiers: cfg.RapidAPI.PremiumTiers,
	}, errs, metricsCollector, log)
	if gate.Enabled() {
		log.Info("RapidAPI marketplace mode enabled (premium tiers: %v)", cfg.RapidAPI.PremiumTiers)
	}

	apiLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Name:              "api",
		Window:            cfg.RateLimit.Window(),
		Max:               cfg.RateLimit.MaxRequests,
		Message:           "Too many requests, please try again later",
		TrustForwardedFor: cfg.RateLimit.TrustForwardedFor,
	}, errs, metricsCollector)
	strictLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Name:              "strict",
		Window:            cfg.RateLimit.StrictWindow(),
		Max:               cfg.RateLimit.StrictMaxRequests,
		Message:           "Too many requests on this sensitive operation",
		TrustForwardedFor: cfg.RateLimit.TrustForwardedFor,
	}, errs, metricsCollector)

	// Очистка записей лимитеров
	scheduler := worker.NewScheduler(log)
	pruneEvery := time.Duration(cfg.RateLimit.PruneInterval) * time.Second
	for _, limiter := range []*middleware.RateLimiter{apiLimiter, strictLimiter} {
		if err := scheduler.RegisterPruner(limiter, pruneEvery); err != nil {
			log.Fatal("Failed to schedule limiter pruning: %v", err)
		}
	}
	scheduler.Start()

	deps := router.Deps{
		Service:       telegramSvc,
		Binder:        binder,
		Errors:        errs,
		Gate:          gate,
		APILimiter:    apiLimiter,
		StrictLimiter: strictLimiter,
		Health:        health.NewHandler(startedAt, cfg.App.Environment),
		Root:          root.NewHandler(cfg.App.Name, cfg.App.Version),
		Logger:        log,

		RequestTimeout: cfg.Server.RequestTimeout(),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metricsCollector
		deps.MetricsPath = cfg.Metrics.Path
		deps.MetricsHandler = promhttp.Handler()
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.New(deps),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Запускаем HTTP сервер
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	scheduler.Stop()

	// Graceful shutdown HTTP сервера
	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

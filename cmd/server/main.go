package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"GlobetrotterService/config"
	"GlobetrotterService/internal/database/seed"
	"GlobetrotterService/internal/delivery/rest"
	"GlobetrotterService/internal/repository/postgres"
	"GlobetrotterService/internal/repository/redis"
	"GlobetrotterService/internal/service"
	"GlobetrotterService/pkg/database"
	"GlobetrotterService/pkg/logger"
	"GlobetrotterService/pkg/server"
	"GlobetrotterService/pkg/validation"

	"go.uber.org/zap"
)

// Версия сервиса
const (
	ServiceVersion = "1.0.0"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	log := logger.NewLogger(cfg.App.Env)
	defer func() { _ = log.Sync() }()
	log.Info("Starting Globetrotter service",
		zap.String("version", ServiceVersion),
		zap.String("env", cfg.App.Env))

	resilienceCfg := config.DefaultResilienceConfig()

	// Определение номеров портов
	httpPort := cfg.HTTP.Port
	healthPort := httpPort + 100
	metricsPort := httpPort + 200

	gracefulShutdown := server.NewGracefulShutdown(log, 30*time.Second)

	startupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Подключение к PostgreSQL с повторными попытками
	db, err := database.NewPostgresDB(startupCtx, cfg.Postgres, resilienceCfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	gracefulShutdown.AddShutdownFunc("postgres", func(ctx context.Context) error {
		return database.Close(db)
	})

	// Подключение к Redis
	redisClient, err := database.NewRedisClient(startupCtx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	gracefulShutdown.AddShutdownFunc("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	healthChecker := database.NewDatabaseHealthChecker(db, redisClient, log, resilienceCfg)

	// Сервер метрик Prometheus
	metricsServer := server.MetricsServer(strconv.Itoa(metricsPort), log)
	gracefulShutdown.AddShutdownFunc("metrics", metricsServer.Shutdown)

	// Отказоустойчивые репозитории
	destinationRepo := postgres.NewResilientDestinationRepository(postgres.NewDestinationRepository(db), healthChecker)
	userRepo := postgres.NewResilientUserRepository(postgres.NewUserRepository(db), healthChecker)
	cacheRepo := redis.NewResilientCacheRepository(redis.NewCacheRepository(redisClient), healthChecker, log)

	// Сервисы
	v := validation.New()
	destinationService := service.NewDestinationService(destinationRepo, cacheRepo, v, log)
	userService := service.NewUserService(userRepo, v, log, cfg.Invite.BaseURL)

	// Тестовые данные для среды разработки
	seeder := seed.NewDevEnvironmentSeeder(destinationRepo, destinationService, log)
	if err := seeder.SeedDestinations(startupCtx, cfg.App.Env, cfg.App.SeedDataPath); err != nil {
		log.Warn("Development seed failed", zap.Error(err))
	}

	// Проверка здоровья
	healthCheck := server.NewHealthCheck(healthChecker, log, ServiceVersion)
	healthCheck.StartServer(healthPort)
	gracefulShutdown.AddShutdownFunc("health", healthCheck.Stop)

	// HTTP API
	handler := rest.NewHandler(destinationService, userService, log)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", httpPort),
		Handler:           rest.NewRouter(handler, cfg.HTTP.CORSAllowedOrigins, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	gracefulShutdown.AddShutdownFunc("http", httpServer.Shutdown)

	go func() {
		log.Info("Starting HTTP server", zap.Int("port", httpPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
			gracefulShutdown.Shutdown()
		}
	}()

	hostname, _ := os.Hostname()
	log.Info("Service started",
		zap.Int("http_port", httpPort),
		zap.Int("health_port", healthPort),
		zap.Int("metrics_port", metricsPort),
		zap.String("version", ServiceVersion),
		zap.Int("pid", os.Getpid()),
		zap.String("hostname", hostname))

	// Ожидаем сигнала остановки
	gracefulShutdown.Wait()
	log.Info("Service stopped")
}

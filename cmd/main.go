package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/config"
	"github.com/Dosada05/tournament-brackets/db"
	"github.com/Dosada05/tournament-brackets/handlers"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/repositories"
	api "github.com/Dosada05/tournament-brackets/routes"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger, err := config.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("failed to configure logger", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrator, err := db.NewMigrator(dbConn, logger)
	if err != nil {
		logger.Error("failed to create migrator", slog.Any("error", err))
		os.Exit(1)
	}
	if err := migrator.Up(context.Background()); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	metricsSvc := metrics.NewService()

	// Блокировки турниров: Redis, если настроен, иначе в памяти процесса
	var locker services.Locker = services.NewLocalLocker()
	if cfg.RedisAddr != "" {
		redisLocker, err := services.NewRedisLocker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 30*time.Second, logger)
		if err != nil {
			logger.Error("failed to initialize redis locker", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisLocker.Close()
		locker = redisLocker
		logger.Info("redis locker initialized", slog.String("addr", cfg.RedisAddr))
	}

	// Публикация табло в Cloudflare R2 (опционально)
	var publisher services.Publisher
	if cfg.R2Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = storage.NewPublisher(uploader)
		logger.Info("Cloudflare R2 publishing enabled", slog.String("bucket", cfg.R2BucketName))
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	wsHub.OnClientCountChange(metricsSvc.SetLiveViewers)
	go wsHub.Run()

	tournamentService := services.NewTournamentService(services.TournamentServiceConfig{
		Repo:        repositories.NewPostgresSnapshotRepository(dbConn),
		Engine:      brackets.NewEngine(logger),
		Locker:      locker,
		Hub:         wsHub,
		Publisher:   publisher,
		Metrics:     metricsSvc,
		Defaults:    cfg.Defaults,
		LockTimeout: cfg.LockTimeout,
		Logger:      logger,
	})

	router := chi.NewRouter()
	api.SetupRoutes(router,
		api.Config{
			JWTSecret:      []byte(cfg.JWTSecretKey),
			Logger:         logger,
			MetricsHandler: metrics.NewMetricsHandler(),
		},
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewWebSocketHandler(wsHub, tournamentService, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}

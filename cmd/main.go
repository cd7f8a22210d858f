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

	"github.com/brainring/rating-system/config"
	"github.com/brainring/rating-system/db"
	"github.com/brainring/rating-system/handlers"
	"github.com/brainring/rating-system/ranking"
	"github.com/brainring/rating-system/repositories"
	api "github.com/brainring/rating-system/routes"
	"github.com/brainring/rating-system/services"
	"github.com/brainring/rating-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

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

	// Логотипы команд уходят в Cloudflare R2. Без настроенного R2
	// сервис работает, загрузка файлов отвечает ошибкой валидации.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("Cloudflare R2 is not configured, team logo uploads disabled")
	}

	wsHub := ranking.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	cityRepo := repositories.NewPostgresCityRepository(dbConn)
	seriesRepo := repositories.NewPostgresSeriesRepository(dbConn)
	topicRepo := repositories.NewPostgresTopicRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	gameResultRepo := repositories.NewPostgresGameResultRepository(dbConn)
	topicResultRepo := repositories.NewPostgresTopicResultRepository(dbConn)
	achievementRepo := repositories.NewPostgresAchievementRepository(dbConn)
	statsRepo := repositories.NewPostgresStatsRepository(dbConn)
	logger.Info("repositories initialized")

	recalcService := services.NewRecalcService(gameResultRepo, topicResultRepo, achievementRepo, logger)

	authService := services.NewAuthService(userRepo)
	cityService := services.NewCityService(cityRepo)
	seriesService := services.NewSeriesService(seriesRepo)
	topicService := services.NewTopicService(topicRepo)
	teamService := services.NewTeamService(teamRepo, uploader)
	tournamentService := services.NewTournamentService(dbConn, tournamentRepo, gameResultRepo, achievementRepo)
	resultService := services.NewResultService(dbConn, gameResultRepo, topicResultRepo, tournamentRepo, recalcService, wsHub)
	statsService := services.NewStatsService(statsRepo, tournamentRepo, gameResultRepo, topicResultRepo)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	cityHandler := handlers.NewCityHandler(cityService)
	seriesHandler := handlers.NewSeriesHandler(seriesService)
	topicHandler := handlers.NewTopicHandler(topicService)
	teamHandler := handlers.NewTeamHandler(teamService, statsService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, statsService)
	resultHandler := handlers.NewResultHandler(resultService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, tournamentService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		cityHandler,
		seriesHandler,
		topicHandler,
		teamHandler,
		tournamentHandler,
		resultHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shut down gracefully")
		}
	}
}

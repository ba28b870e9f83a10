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

	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/KirkDiggler/quizroom/internal/common/uuid"
	"github.com/KirkDiggler/quizroom/internal/config"
	"github.com/KirkDiggler/quizroom/internal/handlers/api"
	"github.com/KirkDiggler/quizroom/internal/handlers/websocket"
	"github.com/KirkDiggler/quizroom/internal/identity"
	"github.com/KirkDiggler/quizroom/internal/invitecode"
	"github.com/KirkDiggler/quizroom/internal/repositories/membership"
	notificationRepo "github.com/KirkDiggler/quizroom/internal/repositories/notification"
	"github.com/KirkDiggler/quizroom/internal/repositories/question"
	roomRepo "github.com/KirkDiggler/quizroom/internal/repositories/room"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
	"github.com/KirkDiggler/quizroom/internal/services/notification"
	roomService "github.com/KirkDiggler/quizroom/internal/services/room"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cfg.SlogLevel(),
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// Test Redis connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	// Initialize repositories
	rooms, err := roomRepo.NewRedis(&roomRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return err
	}

	memberships, err := membership.NewRedis(&membership.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return err
	}

	notifications, err := notificationRepo.NewRedis(&notificationRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		return err
	}

	questions, err := question.NewSQLite(&question.Config{
		Path: cfg.SQLitePath,
	})
	if err != nil {
		return err
	}
	defer questions.Close()

	if cfg.QuestionsFile != "" {
		games, err := question.ImportFile(context.Background(), questions, cfg.QuestionsFile)
		if err != nil {
			return err
		}
		logger.Info("Imported question bank", "path", cfg.QuestionsFile, "games", games)
	}

	resolver, err := identity.NewJWT(&identity.Config{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		return err
	}

	messagingSvc, err := messaging.NewService(&messaging.ServiceConfig{})
	if err != nil {
		return err
	}

	realClock := &clock.DefaultClock{}
	uuidGen := uuid.New()

	hub := websocket.NewHub(&websocket.HubConfig{
		Logger: logger,
	})

	notificationSvc, err := notification.New(&notification.Config{
		Repository:    notifications,
		Publisher:     hub,
		Clock:         realClock,
		UUIDGenerator: uuidGen,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	roomSvc, err := roomService.New(&roomService.Config{
		PresenceGrace:        cfg.PresenceGrace,
		DefaultQuestionLimit: cfg.QuestionTimeLimit,
		BasePoints:           cfg.BasePoints,
		MaxMessageLength:     cfg.MaxMessageLength,
		MaxPlayers:           cfg.MaxPlayers,
		RoomRetention:        cfg.RoomRetention,
		RoomExpiry:           cfg.RoomExpiry,
		RoomRepo:             rooms,
		MembershipRepo:       memberships,
		QuestionRepo:         questions,
		Messaging:            messagingSvc,
		Notifications:        notificationSvc,
		Publisher:            hub,
		Clock:                realClock,
		UUIDGenerator:        uuidGen,
		InviteCodes:          invitecode.New(&invitecode.Config{}),
		Logger:               logger,
	})
	if err != nil {
		return err
	}

	resumeCtx, cancelResume := context.WithTimeout(context.Background(), 10*time.Second)
	_, err = roomSvc.ResumeRooms(resumeCtx, &roomService.ResumeRoomsInput{})
	cancelResume()
	if err != nil {
		return fmt.Errorf("resume rooms: %w", err)
	}

	wsHandler, err := websocket.NewHandler(&websocket.HandlerConfig{
		Hub:            hub,
		RoomService:    roomSvc,
		Identity:       resolver,
		Messaging:      messagingSvc,
		UUIDGenerator:  uuidGen,
		AllowedOrigins: cfg.Origins(),
		SendBuffer:     cfg.SendBufferSize,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	apiHandler, err := api.New(&api.Config{
		RoomService:         roomSvc,
		NotificationService: notificationSvc,
		Identity:            resolver,
		WebSocket:           wsHandler,
		AllowedOrigins:      cfg.Origins(),
		Logger:              logger,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apiHandler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}

	return roomSvc.Shutdown(shutdownCtx)
}

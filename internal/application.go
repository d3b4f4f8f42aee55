package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridrushinc/tictactoe-backend/internal/config"
	"github.com/gridrushinc/tictactoe-backend/internal/realtime"
	"github.com/gridrushinc/tictactoe-backend/internal/repository"
	"github.com/gridrushinc/tictactoe-backend/internal/repository/storage"
	"github.com/gridrushinc/tictactoe-backend/internal/service"
	"github.com/gridrushinc/tictactoe-backend/internal/transport/rest"
	"github.com/gridrushinc/tictactoe-backend/internal/transport/ws"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisClient, err := storage.New(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisClient)
	gameRepo := repository.NewGameRepository(redisClient)
	lobbyRepo := repository.NewLobbyRepository(redisClient)

	broker := realtime.NewRedisBroker(logger, redisClient)

	matchmakingService := service.NewMatchmakingService(logger, playerRepo, gameRepo, lobbyRepo, broker)
	gameplayService := service.NewGameplayService(logger, playerRepo, gameRepo, broker)
	authService := service.NewAuthService(conf.Realtime.TokenSecret, conf.Realtime.TokenTTL)

	hub := ws.NewHub(ctx, logger, broker)
	wsHandler := ws.Handler(logger, hub, authService)

	server := rest.New(logger, matchmakingService, gameplayService, authService, wsHandler)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := server.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gridrushinc/tictactoe-backend/internal/entity"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type matchmakingService interface {
	GetOrCreateGame(ctx context.Context, playerID string, forceNewGame bool) (*entity.Game, error)
}

type gameplayService interface {
	ApplyMove(ctx context.Context, gameID string, row, column int, playerID string) (*entity.Game, error)
}

type authService interface {
	IssueToken(clientID string) (string, error)
}

type Server struct {
	logger *slog.Logger
	router *mux.Router

	matchmaking matchmakingService
	gameplay    gameplayService
	auth        authService
}

func New(logger *slog.Logger, matchmaking matchmakingService, gameplay gameplayService, auth authService, wsHandler http.Handler) *Server {
	server := &Server{
		logger: logger.With("component", "rest"),
		router: mux.NewRouter(),

		matchmaking: matchmaking,
		gameplay:    gameplay,
		auth:        auth,
	}

	server.router.Use(server.logMiddleware, metricsMiddleware)

	server.router.HandleFunc("/api/game", server.handleGame).Methods(http.MethodGet, http.MethodPost)
	server.router.HandleFunc("/api/game/{gameID}", server.handleMove).Methods(http.MethodPost)
	server.router.HandleFunc("/api/realtime/auth", server.handleRealtimeAuth).Methods(http.MethodGet)
	server.router.Handle("/ws/{gameID}", wsHandler).Methods(http.MethodGet)

	server.router.HandleFunc("/ping", server.handlePing).Methods(http.MethodGet)
	server.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return server
}

// Start - starts the HTTP server and shuts it down when the context
// is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		that.logger.Debug("request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

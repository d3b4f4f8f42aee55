package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridrushinc/tictactoe-backend/internal/apperror"
	"github.com/gridrushinc/tictactoe-backend/internal/entity"
	"github.com/gridrushinc/tictactoe-backend/internal/pkg"
	"github.com/gridrushinc/tictactoe-backend/internal/realtime"
	"github.com/gridrushinc/tictactoe-backend/internal/repository"
)

type playerRepo interface {
	SetGameID(ctx context.Context, playerID, gameID string) error
	GetGameID(ctx context.Context, playerID string) (string, error)
	DeleteByID(ctx context.Context, playerID string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type lobbyRepo interface {
	Offer(ctx context.Context, gameID string) error
	Take(ctx context.Context) (string, error)
	Clear(ctx context.Context, gameID string) error
}

type MatchmakingService interface {
	GetOrCreateGame(ctx context.Context, playerID string, forceNewGame bool) (*entity.Game, error)
}

type matchmakingService struct {
	logger *slog.Logger

	playerRepo playerRepo
	gameRepo   gameRepo
	lobbyRepo  lobbyRepo
	broker     realtime.Broker
}

func NewMatchmakingService(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, lobbyRepo lobbyRepo, broker realtime.Broker) MatchmakingService {
	return &matchmakingService{
		logger: logger.With("component", "matchmaking"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		lobbyRepo:  lobbyRepo,
		broker:     broker,
	}
}

// GetOrCreateGame returns the player's current game, joining the open
// game or creating a new one. Re-fetching is idempotent: calling again
// with forceNewGame=false returns the same game.
func (that *matchmakingService) GetOrCreateGame(ctx context.Context, playerID string, forceNewGame bool) (*entity.Game, error) {
	if playerID == "" {
		return nil, apperror.ErrPlayerIDRequired
	}

	if forceNewGame {
		if err := that.abandonCurrentGame(ctx, playerID); err != nil {
			return nil, fmt.Errorf("failed to abandon current game: %w", err)
		}
	}

	game, err := that.currentGame(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if game != nil {
		return game, nil
	}

	// Two attempts: losing the offer race to a concurrent creator
	// means an open game appeared, so the second pass joins it.
	for attempt := 0; attempt < 2; attempt++ {
		game, err = that.joinOrCreateGame(ctx, playerID)
		if errors.Is(err, repository.ErrSlotOccupied) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return game, nil
	}

	return nil, apperror.ErrBrokenGameState
}

// currentGame resolves the player's mapping. A mapping whose game
// record has vanished is deleted so the caller falls through to
// matchmaking.
func (that *matchmakingService) currentGame(ctx context.Context, playerID string) (*entity.Game, error) {
	gameID, err := that.playerRepo.GetGameID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player mapping: %w", err)
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	that.logger.Warn("deleting stale player mapping", "playerID", playerID, "gameID", gameID)
	if err = that.playerRepo.DeleteByID(ctx, playerID); err != nil {
		return nil, fmt.Errorf("failed to delete stale player mapping: %w", err)
	}

	return nil, nil
}

func (that *matchmakingService) joinOrCreateGame(ctx context.Context, playerID string) (*entity.Game, error) {
	openGameID, err := that.lobbyRepo.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to take open game slot: %w", err)
	}

	if openGameID == "" {
		return that.createGame(ctx, playerID)
	}

	openGame, err := that.gameRepo.GetByID(ctx, openGameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		// The dangling pointer is already gone (Take removed it), so
		// the state self-heals; the caller retries and gets a fresh
		// game.
		that.logger.Error("open game slot pointed at a missing game", "gameID", openGameID)
		return nil, apperror.ErrBrokenGameState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open game: %w", err)
	}

	// The open game is the caller's own (mapping was lost): put it
	// back and keep waiting for an opponent.
	if openGame.PlayerIsFirst(playerID) {
		if err = that.lobbyRepo.Offer(ctx, openGameID); err != nil {
			if !errors.Is(err, repository.ErrSlotOccupied) {
				return nil, fmt.Errorf("failed to re-offer open game: %w", err)
			}

			// A concurrent creator took the slot between Take and
			// Offer. This game is now unlisted and stays unjoinable
			// until its owner forces a new one.
			that.logger.Warn("open game lost the re-offer race", "gameID", openGameID, "playerID", playerID)
		}

		if err = that.playerRepo.SetGameID(ctx, playerID, openGameID); err != nil {
			return nil, fmt.Errorf("failed to restore player mapping: %w", err)
		}

		return openGame, nil
	}

	return that.pairPlayers(ctx, openGame, playerID)
}

// pairPlayers starts the game: move order is randomized at pairing
// time, and the waiting player's client is notified with a single
// update broadcast.
func (that *matchmakingService) pairPlayers(ctx context.Context, openGame *entity.Game, playerID string) (*entity.Game, error) {
	first, second := entity.RandomizeOrder(openGame.Players[0], playerID)
	openGame.Activate(first, second)

	if err := that.gameRepo.CreateOrUpdate(ctx, openGame); err != nil {
		return nil, fmt.Errorf("failed to update paired game: %w", err)
	}

	if err := that.playerRepo.SetGameID(ctx, playerID, openGame.ID); err != nil {
		return nil, fmt.Errorf("failed to map player to game: %w", err)
	}

	if err := that.broker.Publish(ctx, openGame.ID, &realtime.Update{Game: openGame}); err != nil {
		return nil, fmt.Errorf("failed to publish pairing update: %w", err)
	}

	that.logger.Info("players paired", "gameID", openGame.ID, "first", first, "second", second)

	return openGame, nil
}

func (that *matchmakingService) createGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game := entity.NewGame(pkg.GenerateGameID(), playerID)

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err := that.playerRepo.SetGameID(ctx, playerID, game.ID); err != nil {
		return nil, fmt.Errorf("failed to map player to game: %w", err)
	}

	if err := that.lobbyRepo.Offer(ctx, game.ID); err != nil {
		if !errors.Is(err, repository.ErrSlotOccupied) {
			return nil, fmt.Errorf("failed to offer game: %w", err)
		}

		// Lost the creation race: undo and let the caller join the
		// game that won the slot instead.
		that.deleteGameQuietly(ctx, game)

		return nil, err
	}

	that.logger.Info("game created", "gameID", game.ID, "playerID", playerID)

	return game, nil
}

// abandonCurrentGame tears down the player's game so both former
// players get matched fresh on their next request.
func (that *matchmakingService) abandonCurrentGame(ctx context.Context, playerID string) error {
	gameID, err := that.playerRepo.GetGameID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get player mapping: %w", err)
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return fmt.Errorf("failed to get game by id: %w", err)
	}

	if game != nil {
		that.deleteGameQuietly(ctx, game)
	}

	if err = that.playerRepo.DeleteByID(ctx, playerID); err != nil {
		return fmt.Errorf("failed to delete player mapping: %w", err)
	}

	that.logger.Info("game abandoned", "gameID", gameID, "playerID", playerID)

	return nil
}

// deleteGameQuietly removes a game, its player mappings and its claim
// on the open slot. Failures are logged, not returned: teardown is
// best-effort and the next request self-heals whatever is left.
func (that *matchmakingService) deleteGameQuietly(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGameQuietly", "gameID", game.ID)

	for _, playerID := range game.Players {
		if err := that.playerRepo.DeleteByID(ctx, playerID); err != nil {
			log.Error("failed to delete player mapping", "playerID", playerID, "error", err)
		}
	}

	if err := that.lobbyRepo.Clear(ctx, game.ID); err != nil {
		log.Error("failed to clear open game slot", "error", err)
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}
}

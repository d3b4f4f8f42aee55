package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gridrushinc/tictactoe-backend/internal/apperror"
	"github.com/gridrushinc/tictactoe-backend/internal/entity"
	"github.com/gridrushinc/tictactoe-backend/internal/realtime"
	"github.com/gridrushinc/tictactoe-backend/internal/tictactoe"
)

// SystemClientID marks broker messages authored by the game itself
// rather than a player, e.g. the outcome line in the chat.
const SystemClientID = "game"

type GameplayService interface {
	ApplyMove(ctx context.Context, gameID string, row, column int, playerID string) (*entity.Game, error)
}

type gameplayService struct {
	logger *slog.Logger

	playerRepo playerRepo
	gameRepo   gameRepo
	broker     realtime.Broker
}

func NewGameplayService(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, broker realtime.Broker) GameplayService {
	return &gameplayService{
		logger: logger.With("component", "gameplay"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		broker:     broker,
	}
}

// ApplyMove validates and applies one move. Preconditions are checked
// in order: game exists, game is active, it is the caller's turn, the
// cell is in range and empty. A duplicate submission fails one of the
// last two checks, which is the intended safety net - there is no
// idempotency token.
func (that *gameplayService) ApplyMove(ctx context.Context, gameID string, row, column int, playerID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if !game.IsActive() {
		return nil, apperror.ErrGameNotActive
	}

	if !game.HasPlayer(playerID) {
		return nil, apperror.ErrNotYourTurn
	}

	playerIsFirst := game.PlayerIsFirst(playerID)
	if !tictactoe.IsPlayersMove(playerIsFirst, game.State.Grid) {
		return nil, apperror.ErrNotYourTurn
	}

	mark := entity.MarkO
	if playerIsFirst {
		mark = entity.MarkX
	}

	if err = tictactoe.ApplyMark(&game.State.Grid, row, column, mark); err != nil {
		return nil, fmt.Errorf("failed to apply mark: %w", err)
	}

	if result := tictactoe.Result(game.State.Grid); result != entity.ResultNone {
		game.Finish(result)
		game.State.WinLine = tictactoe.ResultClasses(game.State.Grid)
	}

	// The update broadcast must reflect the final grid, so the record
	// is persisted even for a terminal move, briefly, before erasure.
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		if err = that.announceOutcome(ctx, game); err != nil {
			return nil, err
		}

		that.cleanupGame(ctx, game)
	}

	if err = that.broker.Publish(ctx, game.ID, &realtime.Update{Game: game}); err != nil {
		return nil, fmt.Errorf("failed to publish move update: %w", err)
	}

	return game, nil
}

func (that *gameplayService) announceOutcome(ctx context.Context, game *entity.Game) error {
	outcome := &realtime.ChatMessage{
		ID:        uuid.NewString(),
		ClientID:  SystemClientID,
		Text:      game.OutcomeMessage(),
		Timestamp: time.Now().UnixMilli(),
	}

	if err := that.broker.Publish(ctx, game.ID, outcome); err != nil {
		return fmt.Errorf("failed to publish outcome message: %w", err)
	}

	return nil
}

// cleanupGame erases a terminal game and both player mappings, so the
// next fetch-or-create by either former player yields a brand-new
// game. Failures are logged, not returned.
func (that *gameplayService) cleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "cleanupGame", "gameID", game.ID)

	for _, playerID := range game.Players {
		if err := that.playerRepo.DeleteByID(ctx, playerID); err != nil {
			log.Error("failed to delete player mapping", "playerID", playerID, "error", err)
		}
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	log.Info("game finished", "result", game.State.Result)
}

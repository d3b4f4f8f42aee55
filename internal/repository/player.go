package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerRepository stores the player -> active game mapping. A player
// maps to at most one game at a time.
type PlayerRepository interface {
	SetGameID(ctx context.Context, playerID, gameID string) error
	GetGameID(ctx context.Context, playerID string) (string, error)
	DeleteByID(ctx context.Context, playerID string) error
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func (that *dbPlayer) SetGameID(ctx context.Context, playerID, gameID string) error {
	playerKey := "player:" + playerID

	err := that.client.Set(ctx, playerKey, gameID, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set player mapping: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetGameID(ctx context.Context, playerID string) (string, error) {
	playerKey := "player:" + playerID

	gameID, err := that.client.Get(ctx, playerKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrPlayerNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get player by ID: %w", err)
	}

	return gameID, nil
}

func (that *dbPlayer) DeleteByID(ctx context.Context, playerID string) error {
	playerKey := "player:" + playerID

	err := that.client.Del(ctx, playerKey).Err()
	if err != nil {
		return fmt.Errorf("failed to delete player by ID: %w", err)
	}

	return nil
}

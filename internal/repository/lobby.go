package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrSlotOccupied = errors.New("open game slot is already occupied")

const openGameKey = "openGame"

// clearIfMatch deletes the slot only while it still points at the
// given game, so a concurrent re-offer is never clobbered.
var clearIfMatch = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LobbyRepository owns the singular open-game slot. All three
// operations are atomic on the Redis side: two concurrent joiners can
// never claim the same open game.
type LobbyRepository interface {
	// Offer registers a game as the open game. Fails with
	// ErrSlotOccupied if another game already holds the slot.
	Offer(ctx context.Context, gameID string) error

	// Take atomically claims and clears the slot. Returns an empty
	// string when no game is open.
	Take(ctx context.Context) (string, error)

	// Clear removes the slot only if it still points at gameID.
	Clear(ctx context.Context, gameID string) error
}

type dbLobby struct {
	client *redis.Client
}

func NewLobbyRepository(client *redis.Client) LobbyRepository {
	return &dbLobby{
		client: client,
	}
}

func (that *dbLobby) Offer(ctx context.Context, gameID string) error {
	ok, err := that.client.SetNX(ctx, openGameKey, gameID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to offer open game: %w", err)
	}

	if !ok {
		return ErrSlotOccupied
	}

	return nil
}

func (that *dbLobby) Take(ctx context.Context) (string, error) {
	gameID, err := that.client.GetDel(ctx, openGameKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("failed to take open game: %w", err)
	}

	return gameID, nil
}

func (that *dbLobby) Clear(ctx context.Context, gameID string) error {
	if err := clearIfMatch.Run(ctx, that.client, []string{openGameKey}, gameID).Err(); err != nil {
		return fmt.Errorf("failed to clear open game slot: %w", err)
	}

	return nil
}

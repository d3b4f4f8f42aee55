package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Broker is the realtime transport: one pub/sub channel per game.
// Publish must not return before the event is durably queued, so that
// a successful HTTP response implies the opponent will eventually
// observe the update.
type Broker interface {
	Publish(ctx context.Context, gameID string, event Event) error
	Subscribe(ctx context.Context, gameID string) (<-chan Event, func())
}

type redisBroker struct {
	logger *slog.Logger
	client *redis.Client
}

func NewRedisBroker(logger *slog.Logger, client *redis.Client) Broker {
	return &redisBroker{
		logger: logger.With("component", "realtime"),
		client: client,
	}
}

func channelKey(gameID string) string {
	return "game:" + gameID + ":events"
}

func (that *redisBroker) Publish(ctx context.Context, gameID string, event Event) error {
	raw, err := Encode(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err = that.client.Publish(ctx, channelKey(gameID), raw).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

func (that *redisBroker) Subscribe(ctx context.Context, gameID string) (<-chan Event, func()) {
	log := that.logger.With("method", "Subscribe", "gameID", gameID)

	pubsub := that.client.Subscribe(ctx, channelKey(gameID))
	events := make(chan Event)

	go func() {
		defer close(events)

		for msg := range pubsub.Channel() {
			event, err := Decode([]byte(msg.Payload))
			if err != nil {
				log.Error("dropping undecodable event", "error", err)
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			log.Error("failed to close subscription", "error", err)
		}
	}

	return events, cancel
}

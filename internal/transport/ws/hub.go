package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gridrushinc/tictactoe-backend/internal/realtime"
)

// Hub keeps one Room per game. Rooms are created on the first client
// and torn down when the last one leaves, so the broker subscription
// for a game only lives while someone is listening.
//
// The hub carries the application context: websocket connections
// outlive the HTTP requests that upgraded them.
type Hub struct {
	ctx    context.Context
	logger *slog.Logger
	broker realtime.Broker

	mu    sync.Mutex
	rooms map[string]*Room
}

func NewHub(ctx context.Context, logger *slog.Logger, broker realtime.Broker) *Hub {
	return &Hub{
		ctx:    ctx,
		logger: logger.With("component", "ws"),
		broker: broker,
		rooms:  make(map[string]*Room),
	}
}

func (that *Hub) Room(gameID string) *Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	if room, ok := that.rooms[gameID]; ok {
		return room
	}

	room := newRoom(that, gameID)
	that.rooms[gameID] = room

	events, cancel := that.broker.Subscribe(that.ctx, gameID)
	room.cancelSubscription = cancel
	go room.run(events)

	that.logger.Info("room opened", "gameID", gameID)

	return room
}

func (that *Hub) removeRoom(gameID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[gameID]
	if !ok {
		return
	}

	// A client may have joined through Room since the caller saw the
	// room empty; the room must survive in that case.
	room.mu.RLock()
	empty := len(room.clients) == 0
	room.mu.RUnlock()
	if !empty {
		return
	}

	room.cancelSubscription()
	delete(that.rooms, gameID)
	that.logger.Info("room closed", "gameID", gameID)
}

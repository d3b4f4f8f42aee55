package ws

import (
	"sync"

	"github.com/gridrushinc/tictactoe-backend/internal/realtime"
)

// Room fans events for one game channel out to the connected clients.
type Room struct {
	hub    *Hub
	gameID string

	mu      sync.RWMutex
	clients map[*Client]struct{}

	cancelSubscription func()
}

func newRoom(hub *Hub, gameID string) *Room {
	return &Room{
		hub:     hub,
		gameID:  gameID,
		clients: make(map[*Client]struct{}),
	}
}

// run relays every broker event to all clients in the room. It exits
// when the subscription is canceled.
func (that *Room) run(events <-chan realtime.Event) {
	for event := range events {
		raw, err := realtime.Encode(event)
		if err != nil {
			that.hub.logger.Error("failed to encode event", "gameID", that.gameID, "error", err)
			continue
		}

		that.broadcast(raw)
	}
}

func (that *Room) broadcast(raw []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for client := range that.clients {
		select {
		case client.send <- raw:
		default:
			// Slow consumer; it will be dropped by its own write pump.
		}
	}
}

// Register adds a client, announces its presence and replays the
// current presence set to the newcomer (the realtime equivalent of a
// presence get).
func (that *Room) Register(client *Client) {
	ctx := that.hub.ctx

	that.mu.Lock()
	present := make([]string, 0, len(that.clients))
	for c := range that.clients {
		present = append(present, c.clientID)
	}
	that.clients[client] = struct{}{}
	that.mu.Unlock()

	for _, clientID := range present {
		client.sendEvent(&realtime.PresenceEnter{ClientID: clientID})
	}

	if err := that.hub.broker.Publish(ctx, that.gameID, &realtime.PresenceEnter{ClientID: client.clientID}); err != nil {
		that.hub.logger.Error("failed to publish presence enter", "gameID", that.gameID, "error", err)
	}
}

func (that *Room) Unregister(client *Client) {
	ctx := that.hub.ctx

	that.mu.Lock()
	delete(that.clients, client)
	empty := len(that.clients) == 0
	that.mu.Unlock()

	if err := that.hub.broker.Publish(ctx, that.gameID, &realtime.PresenceLeave{ClientID: client.clientID}); err != nil {
		that.hub.logger.Error("failed to publish presence leave", "gameID", that.gameID, "error", err)
	}

	if empty {
		that.hub.removeRoom(that.gameID)
	}
}

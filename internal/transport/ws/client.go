package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gridrushinc/tictactoe-backend/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket connection bound to a clientID by its
// realtime token.
type Client struct {
	clientID string
	room     *Room
	conn     *websocket.Conn
	send     chan []byte
}

func NewClient(clientID string, conn *websocket.Conn, room *Room) *Client {
	return &Client{
		clientID: clientID,
		room:     room,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
	}
}

func (that *Client) sendEvent(event realtime.Event) {
	raw, err := realtime.Encode(event)
	if err != nil {
		that.room.hub.logger.Error("failed to encode event", "clientID", that.clientID, "error", err)
		return
	}

	select {
	case that.send <- raw:
	default:
	}
}

// readPump relays client-authored events (chat, typing, reactions) to
// the broker. Updates and presence are server-authored: a client
// sending them is ignored.
func (that *Client) readPump() {
	ctx := that.room.hub.ctx
	log := that.room.hub.logger.With("method", "readPump", "clientID", that.clientID)

	defer func() {
		that.room.Unregister(that)
		that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("unexpected close", "error", err)
			}
			return
		}

		event, err := realtime.Decode(raw)
		if err != nil {
			log.Warn("dropping undecodable message", "error", err)
			continue
		}

		outbound, ok := that.stampEvent(event)
		if !ok {
			log.Warn("dropping event not accepted from clients", "event", event.EventName())
			continue
		}

		if err = that.room.hub.broker.Publish(ctx, that.room.gameID, outbound); err != nil {
			log.Error("failed to publish event", "error", err)
		}
	}
}

// stampEvent enforces the event's client identity server-side and
// assigns chat message ids and timestamps.
func (that *Client) stampEvent(event realtime.Event) (realtime.Event, bool) {
	switch ev := event.(type) {
	case *realtime.ChatMessage:
		ev.ID = uuid.NewString()
		ev.ClientID = that.clientID
		ev.Timestamp = time.Now().UnixMilli()
		return ev, true
	case *realtime.TypingStarted:
		ev.ClientID = that.clientID
		return ev, true
	case *realtime.TypingStopped:
		ev.ClientID = that.clientID
		return ev, true
	case *realtime.ReactionAdded:
		ev.ClientID = that.clientID
		return ev, true
	case *realtime.ReactionRemoved:
		ev.ClientID = that.clientID
		return ev, true
	default:
		return nil, false
	}
}

func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case raw, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

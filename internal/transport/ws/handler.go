package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type authService interface {
	VerifyToken(token string) (string, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Handler upgrades GET /ws/{gameID}?token= to a websocket connection.
// The token binds the connection to a clientID; players and
// spectators alike join the game's channel through here.
func Handler(logger *slog.Logger, hub *Hub, auth authService) http.Handler {
	log := logger.With("component", "ws-handler")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token is required", http.StatusUnauthorized)
			return
		}

		clientID, err := auth.VerifyToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		gameID := mux.Vars(r)["gameID"]

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("failed to upgrade connection", "error", err)
			return
		}

		room := hub.Room(gameID)
		client := NewClient(clientID, conn, room)
		room.Register(client)

		log.Info("client connected", "gameID", gameID, "clientID", clientID)

		go client.writePump()
		go client.readPump()
	})
}

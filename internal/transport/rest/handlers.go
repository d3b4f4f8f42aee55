package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gridrushinc/tictactoe-backend/internal/apperror"
	"github.com/gridrushinc/tictactoe-backend/internal/pkg"
)

type gamePayload struct {
	PlayerID     string `json:"playerId"`
	ForceNewGame bool   `json:"forceNewGame"`
}

type movePayload struct {
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	PlayerID string `json:"playerId"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	ClientID string `json:"clientId"`
}

// handleGame - fetch-or-create: returns the player's current game,
// joining the open game or creating one. POST callers may send the
// parameters as a JSON body; query parameters take precedence.
func (that *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	forceNewGame := r.URL.Query().Get("forceNewGame") == "true"

	if r.Method == http.MethodPost {
		var payload gamePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			if playerID == "" {
				playerID = payload.PlayerID
			}
			forceNewGame = forceNewGame || payload.ForceNewGame
		}
	}

	game, err := that.matchmaking.GetOrCreateGame(r.Context(), playerID, forceNewGame)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// handleMove - applies one move to the game in the path.
func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["gameID"]

	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if payload.PlayerID == "" {
		that.writeError(w, r, apperror.ErrPlayerIDRequired)
		return
	}

	if _, err := that.gameplay.ApplyMove(r.Context(), gameID, payload.Row, payload.Column, payload.PlayerID); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Success"))
}

// handleRealtimeAuth - mints a realtime transport token. A client
// without an identity yet gets one assigned along with the token.
func (that *Server) handleRealtimeAuth(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = pkg.GenerateClientID()
	}

	token, err := that.auth.IssueToken(clientID)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, tokenResponse{Token: token, ClientID: clientID})
}

func (that *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(value); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to status codes. Client errors
// keep their human-readable message; everything unclassified is an
// opaque 500.
func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrPlayerIDRequired),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrGameNotActive):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperror.ErrGameNotFound):
		http.Error(w, apperror.ErrGameNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, apperror.ErrBrokenGameState):
		// Retryable: the dangling pointer is already cleared.
		http.Error(w, apperror.ErrBrokenGameState.Error()+" Try again?", http.StatusInternalServerError)
	default:
		that.logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

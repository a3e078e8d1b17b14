// internal/handlers/views.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quizcraft/arena/internal/database"
)

// lobbyIDParam parses the "id" query parameter. Writes the HTTP error itself
// on failure.
func lobbyIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.URL.Query().Get("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid lobby id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// GetLobbyHandler returns a full lobby snapshot.
func GetLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := lobbyIDParam(w, r)
		if !ok {
			return
		}
		snap, err := s.Arena.GetLobby(id)
		if err != nil {
			writeArenaError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}
}

// PlayersHandler returns the joined accounts in join order.
func PlayersHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := lobbyIDParam(w, r)
		if !ok {
			return
		}
		players, err := s.Arena.GetPlayersInLobby(id)
		if err != nil {
			writeArenaError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"lobbyId": id,
			"players": players,
		})
	}
}

// IsPlayerHandler reports whether an account has joined a lobby.
func IsPlayerHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := lobbyIDParam(w, r)
		if !ok {
			return
		}
		account, err := uuid.Parse(r.URL.Query().Get("account"))
		if err != nil {
			http.Error(w, "invalid account", http.StatusBadRequest)
			return
		}
		joined, err := s.Arena.IsPlayerInLobby(id, account)
		if err != nil {
			writeArenaError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"lobbyId": id,
			"account": account,
			"joined":  joined,
		})
	}
}

// ResultHandler returns the outcome view of a lobby.
func ResultHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := lobbyIDParam(w, r)
		if !ok {
			return
		}
		result, err := s.Arena.GetLobbyResult(id)
		if err != nil {
			writeArenaError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// ArchivedLobbyHandler returns the archived row of a completed lobby. The
// archive only ever holds terminal records, so a hit is always COMPLETED.
func ArchivedLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := lobbyIDParam(w, r)
		if !ok {
			return
		}
		snap, err := database.GetArchivedLobby(r.Context(), id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				http.Error(w, "lobby does not exist", http.StatusNotFound)
				return
			}
			s.Logger.WithError(err).Error("archive lookup failed")
			http.Error(w, "error fetching archived lobby", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}
}

// ListLobbiesHandler returns every lobby snapshot plus the next id the
// registry will assign.
func ListLobbiesHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"nextLobbyId": s.Arena.NextLobbyID(),
			"lobbies":     s.Arena.ListLobbies(),
		})
	}
}

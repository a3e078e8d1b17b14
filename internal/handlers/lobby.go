// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type createLobbyRequest struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	EntryFee   uint64 `json:"entryFee"`
	MaxPlayers int    `json:"maxPlayers"`
}

// CreateLobbyHandler opens a new lobby owned by the authenticated account.
func CreateLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creator, ok := requireAccount(w, r)
		if !ok {
			return
		}

		var req createLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad lobby request payload", http.StatusBadRequest)
			return
		}

		id, err := s.Arena.CreateLobby(req.Name, req.Category, req.EntryFee, req.MaxPlayers, creator)
		if err != nil {
			writeArenaError(w, err)
			return
		}

		snap, err := s.Arena.GetLobby(id)
		if err != nil {
			writeArenaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(snap)
	}
}

type joinLobbyRequest struct {
	LobbyID uint64 `json:"lobbyId"`
	// Amount is the value the caller sends with the join. It must equal the
	// lobby's entry fee exactly; over- and underpayment are both rejected.
	Amount uint64 `json:"amount"`
}

// JoinLobbyHandler admits the authenticated account into a lobby.
func JoinLobbyHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireAccount(w, r)
		if !ok {
			return
		}

		var req joinLobbyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad join request payload", http.StatusBadRequest)
			return
		}

		if err := s.Arena.JoinLobby(r.Context(), req.LobbyID, caller, req.Amount); err != nil {
			writeArenaError(w, err)
			return
		}

		snap, err := s.Arena.GetLobby(req.LobbyID)
		if err != nil {
			writeArenaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
	}
}

type payoutRequest struct {
	LobbyID uint64    `json:"lobbyId"`
	Winner  uuid.UUID `json:"winner"`
}

// PayoutHandler triggers the one-shot prize distribution. Only the lobby's
// creator passes the arena's authorization check.
func PayoutHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireAccount(w, r)
		if !ok {
			return
		}

		var req payoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad payout request payload", http.StatusBadRequest)
			return
		}

		if err := s.Arena.ExecuteWinnerPayout(r.Context(), req.LobbyID, req.Winner, caller); err != nil {
			writeArenaError(w, err)
			return
		}

		result, err := s.Arena.GetLobbyResult(req.LobbyID)
		if err != nil {
			writeArenaError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

type directTransferRequest struct {
	Amount uint64 `json:"amount"`
}

// DirectTransferHandler is the catch-all for value sent outside a join. It
// always rejects; funds only enter through /lobby/join.
func DirectTransferHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, ok := requireAccount(w, r)
		if !ok {
			return
		}

		var req directTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad transfer payload", http.StatusBadRequest)
			return
		}

		writeArenaError(w, s.Arena.ReceiveDirectTransfer(from, req.Amount))
	}
}

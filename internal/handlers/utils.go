// internal/handlers/utils.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/quizcraft/arena/internal/arena"
	"github.com/quizcraft/arena/internal/auth"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// requireAccount authenticates the request's auth_token cookie and returns
// the caller's account id. Writes the HTTP error itself on failure.
func requireAccount(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	cookie := r.Header.Get("Cookie")
	if !strings.Contains(cookie, "auth_token=") {
		http.Error(w, "missing auth_token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	token := extractCookieToken(cookie, "auth_token")

	accountStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return uuid.Nil, false
	}
	account, err := uuid.Parse(accountStr)
	if err != nil {
		http.Error(w, "invalid account id format in token", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return account, true
}

// writeArenaError maps arena sentinels onto HTTP statuses. The body carries
// the sentinel's exact reason string.
func writeArenaError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, arena.ErrLobbyNotFound):
		code = http.StatusNotFound
	case errors.Is(err, arena.ErrNotCreator):
		code = http.StatusForbidden
	case errors.Is(err, arena.ErrEmptyName),
		errors.Is(err, arena.ErrEmptyCategory),
		errors.Is(err, arena.ErrZeroEntryFee),
		errors.Is(err, arena.ErrInvalidMaxPlayers),
		errors.Is(err, arena.ErrIncorrectFee),
		errors.Is(err, arena.ErrInvalidWinner):
		code = http.StatusBadRequest
	case errors.Is(err, arena.ErrLobbyExpired),
		errors.Is(err, arena.ErrLobbyFull),
		errors.Is(err, arena.ErrLobbyClosed),
		errors.Is(err, arena.ErrCreatorCannotJoin),
		errors.Is(err, arena.ErrAlreadyJoined),
		errors.Is(err, arena.ErrAlreadyDistributed),
		errors.Is(err, arena.ErrDirectTransfer):
		code = http.StatusConflict
	}
	http.Error(w, err.Error(), code)
}

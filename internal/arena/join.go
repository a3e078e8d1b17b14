// internal/arena/join.go
package arena

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JoinLobby admits caller into the lobby in exchange for exactly the entry
// fee. Every precondition is re-validated under the registry lock, so of two
// racing joins for the last slot exactly one commits and the other sees
// ErrLobbyFull. The fee is collected before any state changes; if the
// treasury refuses, the join fails with nothing recorded.
//
// Expiry is a lazy predicate: a lobby past createdAt+LobbyTimeout rejects
// joins but its status is left alone.
func (a *Arena) JoinLobby(ctx context.Context, id uint64, caller uuid.UUID, supplied uint64) error {
	a.mu.Lock()

	l, err := a.lobbyLocked(id)
	if err != nil {
		a.mu.Unlock()
		return err
	}

	now := a.Clock()
	switch {
	case now.After(l.expiresAt()):
		err = ErrLobbyExpired
	case l.playerCount() >= l.MaxPlayers:
		err = ErrLobbyFull
	case !l.joinable():
		err = ErrLobbyClosed
	case caller == l.Creator:
		err = ErrCreatorCannotJoin
	case l.members[caller]:
		err = ErrAlreadyJoined
	case supplied != l.EntryFee:
		err = ErrIncorrectFee
	}
	if err != nil {
		a.mu.Unlock()
		return err
	}

	// Pull the fee before touching the record, deliberately holding the
	// registry lock across the collect so admission is a single atomic
	// step: nothing ever has to revalidate or refund a half-admitted
	// player. A collect failure is an all-or-nothing abort: no membership,
	// no pool change.
	if err := a.treasury.Collect(ctx, caller, supplied); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("fee collection failed: %w", err)
	}

	l.players = append(l.players, caller)
	l.members[caller] = true
	l.PrizePool += l.EntryFee

	if l.Status == StatusOpen {
		l.Status = StatusStarted
	}
	if l.playerCount() == l.MaxPlayers {
		l.Status = StatusInProgress
	}

	status := l.Status
	pool := l.PrizePool

	// Emitted before the lock drops so a slow observer cannot let a later
	// join's notification overtake this one.
	a.emit(Event{
		Type:      EventPlayerJoined,
		LobbyID:   id,
		Player:    caller,
		Timestamp: now.Unix(),
	})
	a.mu.Unlock()

	a.logger.WithFields(logrus.Fields{
		"lobby_id":   id,
		"player":     caller,
		"status":     status.String(),
		"prize_pool": pool,
	}).Info("player joined lobby")
	return nil
}

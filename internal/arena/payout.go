// internal/arena/payout.go
package arena

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ExecuteWinnerPayout releases the full prize pool to winner, exactly once.
// Only the lobby creator may call it, and the winner must be a joined
// player.
//
// The commit order matters: the record is marked DISTRIBUTED and the pool
// zeroed before the treasury transfer runs, so any reentrant payout attempt
// made from inside the transfer observes ErrAlreadyDistributed. If the
// transfer itself fails the whole marking is rolled back and the pool is
// restored, leaving the lobby exactly as it was.
func (a *Arena) ExecuteWinnerPayout(ctx context.Context, id uint64, winner, caller uuid.UUID) error {
	a.mu.Lock()

	l, err := a.lobbyLocked(id)
	if err != nil {
		a.mu.Unlock()
		return err
	}

	switch {
	case caller != l.Creator:
		err = ErrNotCreator
	case !l.members[winner]:
		err = ErrInvalidWinner
	case l.Distribution != DistributionPending:
		err = ErrAlreadyDistributed
	}
	if err != nil {
		a.mu.Unlock()
		return err
	}

	amount := l.PrizePool
	prevStatus := l.Status

	l.Winner = winner
	l.Distribution = DistributionDistributed
	l.Status = StatusCompleted
	l.PrizePool = 0

	// Release the lock before invoking the transfer capability. The record
	// is already terminal, so concurrent joins and payouts are rejected by
	// the usual guards while the transfer is in flight.
	a.mu.Unlock()

	if err := a.treasury.Transfer(ctx, winner, amount); err != nil {
		a.mu.Lock()
		l.Winner = uuid.Nil
		l.Distribution = DistributionPending
		l.Status = prevStatus
		l.PrizePool = amount
		a.mu.Unlock()

		a.logger.WithFields(logrus.Fields{
			"lobby_id": id,
			"winner":   winner,
			"amount":   amount,
		}).WithError(err).Error("prize transfer failed, payout rolled back")
		return fmt.Errorf("prize transfer failed: %w", err)
	}

	// The completion notification only exists once the transfer has landed.
	// It is emitted under the lock, like every other notification, so it
	// serializes against events from operations applied after it.
	a.mu.Lock()
	a.emit(Event{
		Type:       EventLobbyCompleted,
		LobbyID:    id,
		Winner:     winner,
		AmountPaid: amount,
		Timestamp:  a.Clock().Unix(),
	})
	snap := l.snapshot()
	a.mu.Unlock()

	a.logger.WithFields(logrus.Fields{
		"lobby_id": id,
		"winner":   winner,
		"amount":   amount,
	}).Info("lobby completed, prize distributed")

	if a.OnComplete != nil {
		a.OnComplete(snap)
	}
	return nil
}

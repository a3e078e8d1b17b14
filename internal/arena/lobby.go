// internal/arena/lobby.go
package arena

import (
	"time"

	"github.com/google/uuid"
)

// LobbyTimeout is how long a lobby stays joinable after creation. Past this
// instant joins are rejected; the status itself is not advanced.
const LobbyTimeout = 5 * time.Minute

// Bounds on maxPlayers accepted at creation.
const (
	MinPlayers = 2
	MaxPlayers = 10
)

// Status is the lifecycle state of a lobby.
type Status int

const (
	StatusOpen Status = iota
	StatusStarted
	StatusInProgress
	StatusCompleted
	// StatusCancelled is reserved for an administrative path. No join or
	// payout transition produces it.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "OPEN"
	case StatusStarted:
		return "STARTED"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Distribution tracks whether a lobby's prize pool has been paid out.
// It flips exactly once; a second payout attempt is rejected, never ignored.
type Distribution int

const (
	DistributionPending Distribution = iota
	DistributionDistributed
)

func (d Distribution) String() string {
	if d == DistributionDistributed {
		return "DISTRIBUTED"
	}
	return "PENDING"
}

// Lobby is the stored record for one escrow instance. Identity fields are
// fixed at creation; only join and payout mutate the rest. Records are never
// deleted, so ids double as stable indices into the registry.
type Lobby struct {
	ID         uint64
	Name       string
	Category   string
	EntryFee   uint64
	MaxPlayers int
	Creator    uuid.UUID
	CreatedAt  time.Time

	Status       Status
	PrizePool    uint64
	Winner       uuid.UUID
	Distribution Distribution

	// players holds joined accounts in join order; members mirrors it as a
	// set. len(players) is the player count.
	players []uuid.UUID
	members map[uuid.UUID]bool
}

func (l *Lobby) playerCount() int {
	return len(l.players)
}

func (l *Lobby) joinable() bool {
	return l.Status == StatusOpen || l.Status == StatusStarted
}

func (l *Lobby) expiresAt() time.Time {
	return l.CreatedAt.Add(LobbyTimeout)
}

// Snapshot is a read-only copy of a lobby handed to callers. Mutating it has
// no effect on the registry.
type Snapshot struct {
	ID           uint64       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	EntryFee     uint64       `json:"entryFee"`
	MaxPlayers   int          `json:"maxPlayers"`
	Creator      uuid.UUID    `json:"creator"`
	CreatedAt    time.Time    `json:"createdAt"`
	Status       Status       `json:"status"`
	PlayerCount  int          `json:"playerCount"`
	PrizePool    uint64       `json:"prizePool"`
	Winner       uuid.UUID    `json:"winner"`
	Distribution Distribution `json:"distribution"`
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{
		ID:           l.ID,
		Name:         l.Name,
		Category:     l.Category,
		EntryFee:     l.EntryFee,
		MaxPlayers:   l.MaxPlayers,
		Creator:      l.Creator,
		CreatedAt:    l.CreatedAt,
		Status:       l.Status,
		PlayerCount:  l.playerCount(),
		PrizePool:    l.PrizePool,
		Winner:       l.Winner,
		Distribution: l.Distribution,
	}
}

// Result is the terse outcome view of a lobby. RemainingPrize is the
// undistributed pool; it reads 0 once the payout has happened.
type Result struct {
	Status         Status    `json:"status"`
	Winner         uuid.UUID `json:"winner"`
	RemainingPrize uint64    `json:"remainingPrize"`
}

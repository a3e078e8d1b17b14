// internal/arena/arena.go
package arena

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Treasury is the value-transfer capability the arena escrows through. The
// arena never holds funds itself: Collect pulls a join fee out of a player's
// account and Transfer releases a prize pool to a winner. Either call may
// fail, and a failure must leave the arena's own state untouched.
type Treasury interface {
	Collect(ctx context.Context, from uuid.UUID, amount uint64) error
	Transfer(ctx context.Context, to uuid.UUID, amount uint64) error
}

// Arena is the lobby registry, escrow ledger, and lifecycle controller in one
// record store. All mutations are serialized through a single mutex: two
// operations racing for the last open slot (or for the one payout) are
// applied one at a time, and the loser observes a precondition failure, never
// a torn record.
type Arena struct {
	mu       sync.Mutex
	lobbies  []*Lobby
	treasury Treasury

	// Owner is the deployment authority, recorded at construction. It has no
	// operation wired to it yet; it exists for the reserved administrative
	// CANCELLED path.
	Owner uuid.UUID

	// Clock supplies the current time for expiry checks. Overridable in
	// tests; defaults to time.Now.
	Clock func() time.Time

	// EmitFn receives every notification, in apply order. It is invoked
	// while the registry lock is held so delivery order cannot drift from
	// commit order; sinks must hand off quickly and must not call back
	// into the arena. Nil means no observer.
	EmitFn func(Event)

	// OnComplete fires after a successful payout with a snapshot of the
	// completed lobby. Used to archive terminal records.
	OnComplete func(Snapshot)

	logger *logrus.Logger
}

// New builds an empty arena around the given treasury.
func New(treasury Treasury) *Arena {
	return &Arena{
		treasury: treasury,
		Clock:    time.Now,
		logger:   logrus.StandardLogger(),
	}
}

// SetLogger swaps the arena's logger. Nil restores the standard one.
func (a *Arena) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	a.logger = l
}

func (a *Arena) emit(ev Event) {
	if a.EmitFn != nil {
		a.EmitFn(ev)
	}
}

// lobbyLocked resolves an id to its record. Caller holds a.mu.
func (a *Arena) lobbyLocked(id uint64) (*Lobby, error) {
	if id >= uint64(len(a.lobbies)) {
		return nil, ErrLobbyNotFound
	}
	return a.lobbies[id], nil
}

// CreateLobby validates the creation parameters, allocates the next
// sequential id, and stores a fresh OPEN lobby. The creator becomes the only
// account authorized to trigger the payout, and is barred from joining.
func (a *Arena) CreateLobby(name, category string, entryFee uint64, maxPlayers int, creator uuid.UUID) (uint64, error) {
	if name == "" {
		return 0, ErrEmptyName
	}
	if category == "" {
		return 0, ErrEmptyCategory
	}
	if entryFee == 0 {
		return 0, ErrZeroEntryFee
	}
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return 0, ErrInvalidMaxPlayers
	}

	a.mu.Lock()
	now := a.Clock()
	l := &Lobby{
		ID:         uint64(len(a.lobbies)),
		Name:       name,
		Category:   category,
		EntryFee:   entryFee,
		MaxPlayers: maxPlayers,
		Creator:    creator,
		CreatedAt:  now,
		Status:     StatusOpen,
		members:    make(map[uuid.UUID]bool),
	}
	a.lobbies = append(a.lobbies, l)
	a.emit(Event{
		Type:       EventLobbyCreated,
		LobbyID:    l.ID,
		Name:       name,
		Category:   category,
		EntryFee:   entryFee,
		MaxPlayers: maxPlayers,
		Creator:    creator,
		Timestamp:  now.Unix(),
	})
	a.mu.Unlock()

	a.logger.WithFields(logrus.Fields{
		"lobby_id":    l.ID,
		"name":        name,
		"entry_fee":   entryFee,
		"max_players": maxPlayers,
		"creator":     creator,
	}).Info("lobby created")
	return l.ID, nil
}

// NextLobbyID reports the id the next created lobby will receive.
func (a *Arena) NextLobbyID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return uint64(len(a.lobbies))
}

// GetLobby returns a read-only snapshot of one lobby.
func (a *Arena) GetLobby(id uint64) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, err := a.lobbyLocked(id)
	if err != nil {
		return Snapshot{}, err
	}
	return l.snapshot(), nil
}

// ListLobbies returns snapshots of every lobby, oldest first.
func (a *Arena) ListLobbies() []Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Snapshot, 0, len(a.lobbies))
	for _, l := range a.lobbies {
		out = append(out, l.snapshot())
	}
	return out
}

// GetPlayersInLobby returns the joined accounts in the exact order they
// joined. Empty slice if nobody has joined yet.
func (a *Arena) GetPlayersInLobby(id uint64) ([]uuid.UUID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, err := a.lobbyLocked(id)
	if err != nil {
		return nil, err
	}
	players := make([]uuid.UUID, len(l.players))
	copy(players, l.players)
	return players, nil
}

// IsPlayerInLobby reports whether the account has joined the lobby.
func (a *Arena) IsPlayerInLobby(id uint64, account uuid.UUID) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, err := a.lobbyLocked(id)
	if err != nil {
		return false, err
	}
	return l.members[account], nil
}

// GetLobbyResult returns the outcome view: status, winner (zero until a
// payout), and whatever prize remains undistributed.
func (a *Arena) GetLobbyResult(id uint64) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, err := a.lobbyLocked(id)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Status:         l.Status,
		Winner:         l.Winner,
		RemainingPrize: l.PrizePool,
	}, nil
}

// ReceiveDirectTransfer is the guard against bare value transfers. Funds
// enter only as the consequence of a validated join, so this always rejects.
func (a *Arena) ReceiveDirectTransfer(from uuid.UUID, amount uint64) error {
	a.logger.WithFields(logrus.Fields{
		"from":   from,
		"amount": amount,
	}).Warn("direct transfer rejected")
	return ErrDirectTransfer
}

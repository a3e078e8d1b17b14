// internal/arena/events.go
package arena

import "github.com/google/uuid"

// EventType discriminates arena notifications.
type EventType string

const (
	EventLobbyCreated   EventType = "lobby_created"
	EventPlayerJoined   EventType = "player_joined"
	EventLobbyCompleted EventType = "lobby_completed"
)

// Event is a single arena notification. Events are emitted in the order the
// operations that produced them were applied; delivery to observers is the
// consumer's problem, not the arena's.
type Event struct {
	Type    EventType `json:"type"`
	LobbyID uint64    `json:"lobby_id"`

	// LobbyCreated fields.
	Name       string    `json:"name,omitempty"`
	Category   string    `json:"category,omitempty"`
	EntryFee   uint64    `json:"entry_fee,omitempty"`
	MaxPlayers int       `json:"max_players,omitempty"`
	Creator    uuid.UUID `json:"creator,omitempty"`

	// PlayerJoined fields.
	Player uuid.UUID `json:"player,omitempty"`

	// LobbyCompleted fields.
	Winner     uuid.UUID `json:"winner,omitempty"`
	AmountPaid uint64    `json:"amount_paid,omitempty"`

	Timestamp int64 `json:"timestamp"`
}

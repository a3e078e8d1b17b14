// internal/arena/errors.go
package arena

import "errors"

// Every precondition violation is a hard, atomic rejection: state is
// unchanged and the caller gets one of these sentinels. Nothing is retried
// internally.
var (
	// Creation argument errors.
	ErrEmptyName         = errors.New("lobby name cannot be empty")
	ErrEmptyCategory     = errors.New("category cannot be empty")
	ErrZeroEntryFee      = errors.New("entry fee must be greater than 0")
	ErrInvalidMaxPlayers = errors.New("invalid max players")

	ErrLobbyNotFound = errors.New("lobby does not exist")

	// Join errors.
	ErrLobbyExpired      = errors.New("lobby expired")
	ErrLobbyFull         = errors.New("lobby full")
	ErrLobbyClosed       = errors.New("lobby closed to new players")
	ErrCreatorCannotJoin = errors.New("creator cannot join this lobby")
	ErrAlreadyJoined     = errors.New("player already joined")
	ErrIncorrectFee      = errors.New("incorrect entry fee")

	// Payout errors.
	ErrNotCreator         = errors.New("only lobby creator can execute this")
	ErrInvalidWinner      = errors.New("winner not in this lobby")
	ErrAlreadyDistributed = errors.New("prize already distributed")

	// Funds may only enter through a validated join.
	ErrDirectTransfer = errors.New("do not send funds directly")
)

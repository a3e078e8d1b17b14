// internal/database/lobby.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/quizcraft/arena/internal/arena"
)

// ArchiveLobby writes a terminal lobby snapshot to the lobbies table.
// Terminal records are permanent history, so this is insert-only.
func ArchiveLobby(ctx context.Context, s arena.Snapshot) error {
	q := `
	INSERT INTO lobbies (
		id, name, category, entry_fee, max_players,
		creator, created_at, status, player_count,
		winner, amount_paid
	)
	VALUES ($1, $2, $3, $4, $5,
	        $6, $7, $8, $9,
	        $10, $11)
	`
	amountPaid := uint64(s.PlayerCount) * s.EntryFee
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			s.ID,
			s.Name,
			s.Category,
			s.EntryFee,
			s.MaxPlayers,
			s.Creator,
			s.CreatedAt,
			s.Status.String(),
			s.PlayerCount,
			s.Winner,
			amountPaid,
		)
		return err
	})
}

// GetArchivedLobby fetches one archived lobby row by id.
func GetArchivedLobby(ctx context.Context, id uint64) (*arena.Snapshot, error) {
	var s arena.Snapshot
	q := `
	SELECT id, name, category, entry_fee, max_players,
	       creator, created_at, player_count, winner
	FROM lobbies
	WHERE id = $1
	`
	err := DB.QueryRow(ctx, q, id).Scan(
		&s.ID,
		&s.Name,
		&s.Category,
		&s.EntryFee,
		&s.MaxPlayers,
		&s.Creator,
		&s.CreatedAt,
		&s.PlayerCount,
		&s.Winner,
	)
	if err != nil {
		return nil, err
	}
	s.Status = arena.StatusCompleted
	s.Distribution = arena.DistributionDistributed
	return &s, nil
}

package games

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/seeker-rps/api/internal/repos/games"
)

var _ games.Games = (*gamesRepo)(nil)

type gamesRepo struct{ db *sql.DB }

func New(db *sql.DB) *gamesRepo {
	return &gamesRepo{db: db}
}

// gameColumns is the column list every RETURNING clause and SELECT uses,
// in scanGame order.
const gameColumns = `
	id, pin, creator_pubkey, joiner_pubkey, stake_lamports, status,
	creator_choice, joiner_choice, winner_pubkey, draw_cleared,
	escrow_address, vault_address, resolve_sig, resolve_error,
	created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*games.Game, error) {
	var (
		g             games.Game
		joiner        sql.NullString
		creatorChoice sql.NullString
		joinerChoice  sql.NullString
		winner        sql.NullString
		resolveSig    sql.NullString
		resolveErr    sql.NullString
	)

	err := row.Scan(
		&g.ID, &g.Pin, &g.CreatorPubkey, &joiner, &g.StakeLamports, &g.Status,
		&creatorChoice, &joinerChoice, &winner, &g.DrawCleared,
		&g.EscrowAddress, &g.VaultAddress, &resolveSig, &resolveErr,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("scan game: %w", err)
	}

	if joiner.Valid {
		g.JoinerPubkey = &joiner.String
	}
	if creatorChoice.Valid {
		c := games.Choice(creatorChoice.String)
		g.CreatorChoice = &c
	}
	if joinerChoice.Valid {
		c := games.Choice(joinerChoice.String)
		g.JoinerChoice = &c
	}
	if winner.Valid {
		g.WinnerPubkey = &winner.String
	}
	if resolveSig.Valid {
		g.ResolveSig = &resolveSig.String
	}
	if resolveErr.Valid {
		g.ResolveError = &resolveErr.String
	}

	return &g, nil
}

func upsertParticipant(tx *sql.Tx, pubkey string) error {
	_, err := tx.Exec(`
		INSERT INTO participants (pubkey)
		VALUES ($1)
		ON CONFLICT (pubkey) DO NOTHING
	`, pubkey)
	if err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}

	return nil
}

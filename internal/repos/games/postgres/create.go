package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/seeker-rps/api/internal/infra/pgutils"
	"github.com/seeker-rps/api/internal/repos/games"
)

func (r *gamesRepo) Create(ctx context.Context, g *games.Game) error {
	err := pgutils.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := upsertParticipant(tx, g.CreatorPubkey)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO games (id, pin, creator_pubkey, stake_lamports, status, escrow_address, vault_address)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, g.ID, g.Pin, g.CreatorPubkey, g.StakeLamports, string(g.Status), g.EscrowAddress, g.VaultAddress)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return games.ErrPinTaken
			}

			return fmt.Errorf("insert game: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, games.ErrPinTaken) {
			return games.ErrPinTaken
		}

		return fmt.Errorf("create game: %w", err)
	}

	return nil
}

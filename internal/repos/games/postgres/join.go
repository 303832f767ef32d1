package games

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/seeker-rps/api/internal/infra/pgutils"
	"github.com/seeker-rps/api/internal/repos/games"
)

// Join claims the open lobby in a single conditional UPDATE; two concurrent
// joins on the same pin race at the row and exactly one sees a match.
func (r *gamesRepo) Join(ctx context.Context, pin, joinerPubkey string) (*games.Game, error) {
	var joined *games.Game

	err := pgutils.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		err := upsertParticipant(tx, joinerPubkey)
		if err != nil {
			return err
		}

		row := tx.QueryRow(`
			UPDATE games
			SET joiner_pubkey = $2,
			    status = 'active',
			    updated_at = now()
			WHERE pin = $1
			  AND status = 'waiting'
			  AND joiner_pubkey IS NULL
			RETURNING `+gameColumns, pin, joinerPubkey)

		joined, err = scanGame(row)
		if err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("join game: %w", err)
	}

	return joined, nil
}

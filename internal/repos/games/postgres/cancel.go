package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

// Cancel folds "wrong caller", "already joined" and "wrong status" into the
// same no-match result as "no such game".
func (r *gamesRepo) Cancel(ctx context.Context, id, creatorPubkey string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE games
		SET status = 'cancelled',
		    updated_at = now()
		WHERE id = $1
		  AND creator_pubkey = $2
		  AND status = 'waiting'
		  AND joiner_pubkey IS NULL
		RETURNING `+gameColumns, id, creatorPubkey)

	return scanGame(row)
}

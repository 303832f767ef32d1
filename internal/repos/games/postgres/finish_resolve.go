package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

func (r *gamesRepo) FinishResolve(ctx context.Context, id, sig string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE games
		SET status = 'finished',
		    resolve_sig = $2,
		    resolve_error = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'resolving'
		RETURNING `+gameColumns, id, sig)

	return scanGame(row)
}

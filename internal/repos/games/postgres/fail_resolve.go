package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

func (r *gamesRepo) FailResolve(ctx context.Context, id, errMsg string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE games
		SET status = 'resolve_failed',
		    resolve_sig = NULL,
		    resolve_error = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'resolving'
		RETURNING `+gameColumns, id, errMsg)

	return scanGame(row)
}

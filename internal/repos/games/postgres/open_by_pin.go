package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

func (r *gamesRepo) OpenByPin(ctx context.Context, pin string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE pin = $1
		  AND status = 'waiting'
		  AND joiner_pubkey IS NULL
	`, pin)

	return scanGame(row)
}

package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

func (r *gamesRepo) ByID(ctx context.Context, id string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE id = $1
	`, id)

	return scanGame(row)
}

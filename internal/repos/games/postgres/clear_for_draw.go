package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

// ClearForDraw only fires if the row still holds the exact choice pair the
// caller observed, so a concurrent evaluator of the same round cannot wipe a
// newer round's data.
func (r *gamesRepo) ClearForDraw(ctx context.Context, id string, creatorChoice, joinerChoice games.Choice) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE games
		SET creator_choice = NULL,
		    joiner_choice = NULL,
		    draw_cleared = TRUE,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'active'
		  AND creator_choice = $2
		  AND joiner_choice = $3
		RETURNING `+gameColumns, id, string(creatorChoice), string(joinerChoice))

	return scanGame(row)
}

package games

import (
	"context"
	"fmt"

	"github.com/seeker-rps/api/internal/repos/games"
)

// SetChoice writes the caller's choice and, when the previous round ended in
// a draw, clears the opponent's stale value in the same statement. The
// RETURNING post-image is what the service inspects for round completion, so
// no separate re-read can observe a half-applied round.
func (r *gamesRepo) SetChoice(ctx context.Context, id string, side games.Side, choice games.Choice) (*games.Game, error) {
	var own, other string

	switch side {
	case games.SideCreator:
		own, other = "creator_choice", "joiner_choice"
	case games.SideJoiner:
		own, other = "joiner_choice", "creator_choice"
	default:
		return nil, fmt.Errorf("unknown side %q", side)
	}

	// Column names come from the switch above, never from input.
	query := fmt.Sprintf(`
		UPDATE games
		SET %[1]s = $2,
		    %[2]s = CASE WHEN draw_cleared THEN NULL ELSE %[2]s END,
		    draw_cleared = FALSE,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'active'
		RETURNING `+gameColumns, own, other)

	row := r.db.QueryRowContext(ctx, query, id, string(choice))

	return scanGame(row)
}

package games

import (
	"context"

	"github.com/seeker-rps/api/internal/repos/games"
)

// BeginResolve is the at-most-once settlement gate: only a game in active or
// resolve_failed can enter resolving, so a duplicate trigger finds no match
// and never reaches the ledger program.
func (r *gamesRepo) BeginResolve(ctx context.Context, id, winnerPubkey string) (*games.Game, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE games
		SET status = 'resolving',
		    winner_pubkey = $2,
		    resolve_sig = NULL,
		    resolve_error = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND status IN ('active', 'resolve_failed')
		RETURNING `+gameColumns, id, winnerPubkey)

	return scanGame(row)
}

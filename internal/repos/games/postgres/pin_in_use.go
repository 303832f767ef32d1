package games

import (
	"context"
	"fmt"
)

func (r *gamesRepo) PinInUse(ctx context.Context, pin string) (bool, error) {
	var inUse bool

	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1
			FROM games
			WHERE pin = $1
			  AND status = 'waiting'
			  AND joiner_pubkey IS NULL
		)
	`, pin).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("check pin in use: %w", err)
	}

	return inUse, nil
}

package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/seeker-rps/api/internal/repos/games"
)

// SubmitChoice records the caller's choice for the current round. When the
// write completes the round, an equal pair clears both choices for a rematch
// and a decided pair triggers settlement. The round-completion check reads
// the post-image returned by the atomic update, so two racing submissions
// cannot both half-observe the same round.
func (s *Service) SubmitChoice(ctx context.Context, callerPubkey, id, rawChoice string) (*games.Game, error) {
	choice, err := ParseChoice(rawChoice)
	if err != nil {
		return nil, err
	}

	g, err := s.games.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("load game: %w", err)
	}

	if !g.Participant(callerPubkey) {
		return nil, ErrNotParticipant
	}

	switch g.Status {
	case games.StatusActive:
	case games.StatusWaiting:
		return nil, ErrNoJoinerYet
	default:
		return nil, ErrRoundClosed
	}

	side := games.SideJoiner
	if g.CreatorPubkey == callerPubkey {
		side = games.SideCreator
	}

	updated, err := s.games.SetChoice(ctx, id, side, choice)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			// The game left active between our read and the write; hand back
			// whatever it became instead of failing.
			return s.Get(ctx, id)
		}

		return nil, fmt.Errorf("set choice: %w", err)
	}

	if !updated.BothChoicesSet() {
		return updated, nil
	}

	creatorChoice := *updated.CreatorChoice
	joinerChoice := *updated.JoinerChoice

	winnerPubkey, decided := Winner(creatorChoice, joinerChoice, updated.CreatorPubkey, *updated.JoinerPubkey)
	if !decided {
		return s.clearDraw(ctx, id, creatorChoice, joinerChoice)
	}

	return s.settle(ctx, updated, winnerPubkey)
}

// clearDraw wipes the tied round so the next submission starts fresh. If the
// conditional update misses, a concurrent request already handled the round;
// the current record is returned as-is.
func (s *Service) clearDraw(ctx context.Context, id string, creatorChoice, joinerChoice games.Choice) (*games.Game, error) {
	cleared, err := s.games.ClearForDraw(ctx, id, creatorChoice, joinerChoice)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return s.Get(ctx, id)
		}

		return nil, fmt.Errorf("clear draw: %w", err)
	}

	return cleared, nil
}

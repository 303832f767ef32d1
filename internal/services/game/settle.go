package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/seeker-rps/api/internal/repos/games"
)

// settle drives one settlement attempt: gate the record into resolving,
// check the authority capability, invoke the on-chain resolve and persist
// the outcome. Any step's failure lands in resolve_failed with the raw
// error text, so the round's result survives a payout that cannot complete.
func (s *Service) settle(ctx context.Context, g *games.Game, winnerPubkey string) (*games.Game, error) {
	locked, err := s.games.BeginResolve(ctx, g.ID, winnerPubkey)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			// Another request already holds or completed settlement; the
			// transition out of active/resolve_failed is the atomic gate.
			return s.Get(ctx, g.ID)
		}

		return nil, fmt.Errorf("begin resolve: %w", err)
	}

	if !s.ledger.CanResolve() {
		slog.Warn("settlement skipped, no resolve authority configured", "game_id", g.ID)

		return s.failResolve(ctx, g.ID, "resolve authority keypair not configured")
	}

	gameID, err := uuid.Parse(locked.ID)
	if err != nil {
		return s.failResolve(ctx, g.ID, "malformed game id")
	}

	sig, err := s.ledger.Resolve(ctx, [16]byte(gameID), locked.CreatorPubkey, winnerPubkey)
	if err != nil {
		slog.Error("on-chain resolve failed", "game_id", g.ID, "error", err)

		return s.failResolve(ctx, g.ID, err.Error())
	}

	finished, err := s.games.FinishResolve(ctx, g.ID, sig)
	if err != nil {
		return nil, fmt.Errorf("finish resolve: %w", err)
	}

	slog.Info("game settled", "game_id", g.ID, "winner", winnerPubkey, "signature", sig)

	return finished, nil
}

func (s *Service) failResolve(ctx context.Context, id, msg string) (*games.Game, error) {
	failed, err := s.games.FailResolve(ctx, id, msg)
	if err != nil {
		return nil, fmt.Errorf("fail resolve: %w", err)
	}

	return failed, nil
}

// RetrySettlement re-runs the settlement sequence for a resolve_failed game
// with the already-known winner. The round outcome is not recomputed.
func (s *Service) RetrySettlement(ctx context.Context, callerPubkey, id string) (*games.Game, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !g.Participant(callerPubkey) {
		return nil, ErrNotParticipant
	}

	if g.Status != games.StatusResolveFailed || g.WinnerPubkey == nil {
		return nil, ErrNotRetryable
	}

	return s.settle(ctx, g, *g.WinnerPubkey)
}

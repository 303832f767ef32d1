// Package game owns the authoritative game lifecycle: lobby creation and pin
// allocation, joining, choice submission, outcome resolution and the single
// idempotent settlement attempt against the on-chain escrow program.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seeker-rps/api/internal/repos/games"
)

var (
	ErrStakeTooLow    = errors.New("stake below configured minimum")
	ErrInvalidChoice  = errors.New("choice must be rock, paper or scissors")
	ErrNotParticipant = errors.New("caller is not a participant of this game")
	ErrNoJoinerYet    = errors.New("no opponent has joined yet")
	ErrRoundClosed    = errors.New("game no longer accepts choices")
	ErrNotRetryable   = errors.New("settlement retry requires a failed settlement")
	ErrPinExhausted   = errors.New("could not allocate a free pin")
)

// Ledger is the escrow program capability the service needs: pure address
// derivation plus the authority-gated resolve call. The production
// implementation lives in internal/escrow; tests script a fake.
type Ledger interface {
	CanResolve() bool
	DeriveAddresses(creatorPubkey string, gameID [16]byte) (escrowAddr, vaultAddr string, err error)
	Resolve(ctx context.Context, gameID [16]byte, creatorPubkey, winnerPubkey string) (sig string, err error)
}

// Config carries the process-wide policy values. Passed in explicitly so the
// service stays independently testable.
type Config struct {
	MinStakeLamports int64
	PinMaxAttempts   int
}

type Service struct {
	games  games.Games
	ledger Ledger
	cfg    Config
}

func New(store games.Games, ledger Ledger, cfg Config) *Service {
	return &Service{games: store, ledger: ledger, cfg: cfg}
}

// Create opens a lobby: validates the stake, allocates a pin, derives the
// escrow and vault addresses from (program, creator, id) and inserts the
// record in waiting state.
func (s *Service) Create(ctx context.Context, creatorPubkey string, stakeLamports int64) (*games.Game, error) {
	if stakeLamports < s.cfg.MinStakeLamports {
		return nil, fmt.Errorf("%w (minimum %d lamports)", ErrStakeTooLow, s.cfg.MinStakeLamports)
	}

	id := uuid.New()

	escrowAddr, vaultAddr, err := s.ledger.DeriveAddresses(creatorPubkey, [16]byte(id))
	if err != nil {
		return nil, fmt.Errorf("derive escrow addresses: %w", err)
	}

	for attempt := 0; attempt < s.cfg.PinMaxAttempts; attempt++ {
		pin := randomPin()

		inUse, err := s.games.PinInUse(ctx, pin)
		if err != nil {
			return nil, fmt.Errorf("check pin: %w", err)
		}
		if inUse {
			continue
		}

		g := &games.Game{
			ID:            id.String(),
			Pin:           pin,
			CreatorPubkey: creatorPubkey,
			StakeLamports: stakeLamports,
			Status:        games.StatusWaiting,
			EscrowAddress: escrowAddr,
			VaultAddress:  vaultAddr,
		}

		err = s.games.Create(ctx, g)
		if errors.Is(err, games.ErrPinTaken) {
			// Lost the insert race against a concurrent create; next pin.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create game: %w", err)
		}

		created, err := s.games.ByID(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("load created game: %w", err)
		}

		return created, nil
	}

	// Collision on every attempt points at an anomaly, not contention worth
	// retrying further.
	return nil, ErrPinExhausted
}

// Join claims the open lobby holding pin for the caller; exactly one of two
// concurrent joins observes a match.
func (s *Service) Join(ctx context.Context, callerPubkey, pin string) (*games.Game, error) {
	g, err := s.games.Join(ctx, pin, callerPubkey)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("join game: %w", err)
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, id string) (*games.Game, error) {
	g, err := s.games.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("get game: %w", err)
	}

	return g, nil
}

// LookupByPin returns the open lobby holding pin, for pre-join display.
func (s *Service) LookupByPin(ctx context.Context, pin string) (*games.Game, error) {
	g, err := s.games.OpenByPin(ctx, pin)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("lookup by pin: %w", err)
	}

	return g, nil
}

// Cancel withdraws a lobby. Only the creator of a waiting, joinerless game
// can cancel; every other case reads as not-found so a prober learns nothing.
func (s *Service) Cancel(ctx context.Context, callerPubkey, id string) (*games.Game, error) {
	g, err := s.games.Cancel(ctx, id, callerPubkey)
	if err != nil {
		if errors.Is(err, games.ErrGameNotFound) {
			return nil, games.ErrGameNotFound
		}

		return nil, fmt.Errorf("cancel game: %w", err)
	}

	return g, nil
}

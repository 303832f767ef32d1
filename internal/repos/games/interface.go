package games

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrGameNotFound covers both "no such game" and "no game matching the
	// requested conditional transition" (wrong pin, already joined, wrong
	// caller, wrong status). Collapsing these keeps a prober from learning
	// which case it hit.
	ErrGameNotFound = errors.New("game not found")

	// ErrPinTaken is returned when an insert collides with another open
	// lobby holding the same pin.
	ErrPinTaken = errors.New("pin already taken by an open lobby")
)

// Status is the game lifecycle state. Transitions:
//
//	waiting -> active -> resolving -> finished | resolve_failed
//	waiting -> cancelled
//	resolve_failed -> resolving (manual retry)
//
// finished and cancelled are terminal.
type Status string

const (
	StatusWaiting       Status = "waiting"
	StatusActive        Status = "active"
	StatusResolving     Status = "resolving"
	StatusFinished      Status = "finished"
	StatusResolveFailed Status = "resolve_failed"
	StatusCancelled     Status = "cancelled"
)

// Side identifies which participant's choice column an update targets.
type Side string

const (
	SideCreator Side = "creator"
	SideJoiner  Side = "joiner"
)

// Choice is one of the three recognized hand shapes, stored lowercase.
type Choice string

const (
	ChoiceRock     Choice = "rock"
	ChoicePaper    Choice = "paper"
	ChoiceScissors Choice = "scissors"
)

// Game is the authoritative record for one match. One row per game;
// terminal rows are kept for audit.
type Game struct {
	ID            string
	Pin           string
	CreatorPubkey string
	JoinerPubkey  *string
	StakeLamports int64
	Status        Status
	CreatorChoice *Choice
	JoinerChoice  *Choice
	WinnerPubkey  *string
	// DrawCleared marks that both choices were wiped after a draw, so the
	// next submission starts a fresh round.
	DrawCleared   bool
	EscrowAddress string
	VaultAddress  string
	ResolveSig    *string
	ResolveError  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Participant returns whether pubkey is one of the two recorded players.
func (g *Game) Participant(pubkey string) bool {
	if g.CreatorPubkey == pubkey {
		return true
	}

	return g.JoinerPubkey != nil && *g.JoinerPubkey == pubkey
}

// BothChoicesSet reports whether the current round is complete.
func (g *Game) BothChoicesSet() bool {
	return g.CreatorChoice != nil && g.JoinerChoice != nil
}

// Games is the game ledger store. Every method that enforces a
// cross-request invariant is a single atomic conditional write
// (UPDATE ... WHERE ... RETURNING, or INSERT under the partial unique
// pin index); callers never need application-level locks.
type Games interface {
	// Create upserts the creator participant and inserts the game in one
	// transaction. Returns ErrPinTaken if another open lobby holds the pin.
	Create(ctx context.Context, g *Game) error

	// ByID returns the game or ErrGameNotFound.
	ByID(ctx context.Context, id string) (*Game, error)

	// OpenByPin returns the waiting, joinerless game holding pin,
	// or ErrGameNotFound.
	OpenByPin(ctx context.Context, pin string) (*Game, error)

	// PinInUse reports whether pin is claimed by a waiting, joinerless game.
	PinInUse(ctx context.Context, pin string) (bool, error)

	// Join upserts the joiner participant and atomically claims the lobby:
	// succeeds only against {pin, status=waiting, joiner IS NULL}, moving it
	// to active. ErrGameNotFound on no match.
	Join(ctx context.Context, pin, joinerPubkey string) (*Game, error)

	// Cancel atomically cancels {id, creator=creatorPubkey, status=waiting,
	// joiner IS NULL}. ErrGameNotFound on no match.
	Cancel(ctx context.Context, id, creatorPubkey string) (*Game, error)

	// SetChoice writes one side's choice on an active game and returns the
	// post-image. When the previous round ended in a draw it also clears the
	// opponent's stale choice and the draw flag in the same statement, so a
	// late write for the previous round can never leak into the new one.
	SetChoice(ctx context.Context, id string, side Side, choice Choice) (*Game, error)

	// ClearForDraw wipes both choices and raises the draw flag, conditional
	// on the game still being active with exactly the observed choice pair.
	// ErrGameNotFound when the pair no longer matches (someone else already
	// cleared or resolved).
	ClearForDraw(ctx context.Context, id string, creatorChoice, joinerChoice Choice) (*Game, error)

	// BeginResolve is the settlement gate: active|resolve_failed ->
	// resolving, recording the winner and clearing any previous settlement
	// outcome. ErrGameNotFound when the game is not in a resolvable state,
	// which makes duplicate triggers harmless.
	BeginResolve(ctx context.Context, id, winnerPubkey string) (*Game, error)

	// FinishResolve moves resolving -> finished with the transaction
	// signature.
	FinishResolve(ctx context.Context, id, sig string) (*Game, error)

	// FailResolve moves resolving -> resolve_failed with the error text.
	FailResolve(ctx context.Context, id, errMsg string) (*Game, error)
}

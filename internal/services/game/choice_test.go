package game

import (
	"context"
	"errors"
	"testing"

	"github.com/seeker-rps/api/internal/repos/games"
)

// activeGame creates a lobby for alice and joins bob.
func activeGame(t *testing.T, svc *Service) *games.Game {
	t.Helper()

	created, err := svc.Create(context.Background(), alice, 2_000_000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	joined, err := svc.Join(context.Background(), bob, created.Pin)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	return joined
}

func TestSubmitChoice_Validation(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store, &fakeLedger{canResolve: true})
	g := activeGame(t, svc)

	_, err := svc.SubmitChoice(context.Background(), alice, g.ID, "lizard")
	if !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("bad choice: want ErrInvalidChoice, got %v", err)
	}

	_, err = svc.SubmitChoice(context.Background(), carol, g.ID, "rock")
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider: want ErrNotParticipant, got %v", err)
	}
}

func TestSubmitChoice_BeforeJoin(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), &fakeLedger{canResolve: true})

	created, err := svc.Create(context.Background(), alice, 2_000_000)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.SubmitChoice(context.Background(), alice, created.ID, "rock")
	if !errors.Is(err, ErrNoJoinerYet) {
		t.Fatalf("want ErrNoJoinerYet, got %v", err)
	}
}

func TestSubmitChoice_FirstChoicePending(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), &fakeLedger{canResolve: true})
	g := activeGame(t, svc)

	updated, err := svc.SubmitChoice(context.Background(), alice, g.ID, "rock")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if updated.Status != games.StatusActive {
		t.Fatalf("status: want active, got %s", updated.Status)
	}
	if updated.CreatorChoice == nil || *updated.CreatorChoice != games.ChoiceRock {
		t.Fatal("creator choice not recorded")
	}
	if updated.JoinerChoice != nil {
		t.Fatal("joiner choice should still be unset")
	}
}

func TestSubmitChoice_DrawRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), &fakeLedger{canResolve: true})
	g := activeGame(t, svc)

	_, err := svc.SubmitChoice(context.Background(), alice, g.ID, "paper")
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}

	drawn, err := svc.SubmitChoice(context.Background(), bob, g.ID, "PAPER")
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}

	if drawn.Status != games.StatusActive {
		t.Fatalf("status after draw: want active, got %s", drawn.Status)
	}
	if drawn.CreatorChoice != nil || drawn.JoinerChoice != nil {
		t.Fatal("both choices must be cleared after a draw")
	}
	if !drawn.DrawCleared {
		t.Fatal("draw flag must be raised after a draw")
	}

	// next submission starts a fresh round: flag drops, only the new choice set
	next, err := svc.SubmitChoice(context.Background(), bob, g.ID, "rock")
	if err != nil {
		t.Fatalf("post-draw submit: %v", err)
	}

	if next.DrawCleared {
		t.Fatal("draw flag must drop on the next submission")
	}
	if next.JoinerChoice == nil || *next.JoinerChoice != games.ChoiceRock {
		t.Fatal("new round choice missing")
	}
	if next.CreatorChoice != nil {
		t.Fatal("opponent's stale choice must stay cleared")
	}
}

func TestSubmitChoice_WinTriggersSettlement(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{canResolve: true, sig: "5ettLementS1gnature"}
	svc := newTestService(newMemStore(), ledger)
	g := activeGame(t, svc)

	_, err := svc.SubmitChoice(context.Background(), alice, g.ID, "rock")
	if err != nil {
		t.Fatalf("creator submit: %v", err)
	}

	finished, err := svc.SubmitChoice(context.Background(), bob, g.ID, "scissors")
	if err != nil {
		t.Fatalf("joiner submit: %v", err)
	}

	if finished.Status != games.StatusFinished {
		t.Fatalf("status: want finished, got %s", finished.Status)
	}
	if finished.WinnerPubkey == nil || *finished.WinnerPubkey != alice {
		t.Fatal("rock beats scissors, creator must win")
	}
	if finished.ResolveSig == nil || *finished.ResolveSig != "5ettLementS1gnature" {
		t.Fatal("settlement signature not persisted")
	}
	if finished.ResolveError != nil {
		t.Fatalf("resolve error should be clear, got %q", *finished.ResolveError)
	}

	if ledger.callCount() != 1 {
		t.Fatalf("resolve calls: want 1, got %d", ledger.callCount())
	}
	if ledger.lastWinner != alice || ledger.lastCreator != alice {
		t.Fatalf("resolve called with wrong identities: creator=%s winner=%s", ledger.lastCreator, ledger.lastWinner)
	}
}

func TestSubmitChoice_ToFinishedGame(t *testing.T) {
	t.Parallel()

	ledger := &fakeLedger{canResolve: true, sig: "sig"}
	svc := newTestService(newMemStore(), ledger)
	g := activeGame(t, svc)

	_, err := svc.SubmitChoice(context.Background(), alice, g.ID, "rock")
	if err != nil {
		t.Fatalf("creator submit: %v", err)
	}
	_, err = svc.SubmitChoice(context.Background(), bob, g.ID, "scissors")
	if err != nil {
		t.Fatalf("joiner submit: %v", err)
	}

	_, err = svc.SubmitChoice(context.Background(), alice, g.ID, "paper")
	if !errors.Is(err, ErrRoundClosed) {
		t.Fatalf("want ErrRoundClosed, got %v", err)
	}
}

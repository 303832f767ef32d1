package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/seeker-rps/api/internal/repos/games"
)

// memStore mirrors the Postgres repo's conditional-update semantics in
// memory: every mutating method checks its WHERE-clause equivalent under one
// lock and misses with ErrGameNotFound, exactly like a zero-row UPDATE.
type memStore struct {
	mu             sync.Mutex
	byID           map[string]*games.Game
	pinAlwaysTaken bool
	pinChecks      int
}

var _ games.Games = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{byID: map[string]*games.Game{}}
}

func cloneGame(g *games.Game) *games.Game {
	c := *g
	if g.JoinerPubkey != nil {
		v := *g.JoinerPubkey
		c.JoinerPubkey = &v
	}
	if g.CreatorChoice != nil {
		v := *g.CreatorChoice
		c.CreatorChoice = &v
	}
	if g.JoinerChoice != nil {
		v := *g.JoinerChoice
		c.JoinerChoice = &v
	}
	if g.WinnerPubkey != nil {
		v := *g.WinnerPubkey
		c.WinnerPubkey = &v
	}
	if g.ResolveSig != nil {
		v := *g.ResolveSig
		c.ResolveSig = &v
	}
	if g.ResolveError != nil {
		v := *g.ResolveError
		c.ResolveError = &v
	}

	return &c
}

func (m *memStore) open(pin string) *games.Game {
	for _, g := range m.byID {
		if g.Pin == pin && g.Status == games.StatusWaiting && g.JoinerPubkey == nil {
			return g
		}
	}

	return nil
}

func (m *memStore) Create(_ context.Context, g *games.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open(g.Pin) != nil {
		return games.ErrPinTaken
	}

	stored := cloneGame(g)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.byID[g.ID] = stored

	return nil
}

func (m *memStore) ByID(_ context.Context, id string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok {
		return nil, games.ErrGameNotFound
	}

	return cloneGame(g), nil
}

func (m *memStore) OpenByPin(_ context.Context, pin string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.open(pin)
	if g == nil {
		return nil, games.ErrGameNotFound
	}

	return cloneGame(g), nil
}

func (m *memStore) PinInUse(_ context.Context, pin string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pinChecks++
	if m.pinAlwaysTaken {
		return true, nil
	}

	return m.open(pin) != nil, nil
}

func (m *memStore) Join(_ context.Context, pin, joinerPubkey string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := m.open(pin)
	if g == nil {
		return nil, games.ErrGameNotFound
	}

	j := joinerPubkey
	g.JoinerPubkey = &j
	g.Status = games.StatusActive
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

func (m *memStore) Cancel(_ context.Context, id, creatorPubkey string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok || g.CreatorPubkey != creatorPubkey || g.Status != games.StatusWaiting || g.JoinerPubkey != nil {
		return nil, games.ErrGameNotFound
	}

	g.Status = games.StatusCancelled
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

func (m *memStore) SetChoice(_ context.Context, id string, side games.Side, choice games.Choice) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok || g.Status != games.StatusActive {
		return nil, games.ErrGameNotFound
	}

	c := choice
	if side == games.SideCreator {
		g.CreatorChoice = &c
		if g.DrawCleared {
			g.JoinerChoice = nil
		}
	} else {
		g.JoinerChoice = &c
		if g.DrawCleared {
			g.CreatorChoice = nil
		}
	}
	g.DrawCleared = false
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

func (m *memStore) ClearForDraw(_ context.Context, id string, creatorChoice, joinerChoice games.Choice) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok || g.Status != games.StatusActive ||
		g.CreatorChoice == nil || *g.CreatorChoice != creatorChoice ||
		g.JoinerChoice == nil || *g.JoinerChoice != joinerChoice {
		return nil, games.ErrGameNotFound
	}

	g.CreatorChoice = nil
	g.JoinerChoice = nil
	g.DrawCleared = true
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

func (m *memStore) BeginResolve(_ context.Context, id, winnerPubkey string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok || (g.Status != games.StatusActive && g.Status != games.StatusResolveFailed) {
		return nil, games.ErrGameNotFound
	}

	w := winnerPubkey
	g.Status = games.StatusResolving
	g.WinnerPubkey = &w
	g.ResolveSig = nil
	g.ResolveError = nil
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

func (m *memStore) FinishResolve(_ context.Context, id, sig string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok || g.Status != games.StatusResolving {
		return nil, games.ErrGameNotFound
	}

	s := sig
	g.Status = games.StatusFinished
	g.ResolveSig = &s
	g.ResolveError = nil
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

func (m *memStore) FailResolve(_ context.Context, id, errMsg string) (*games.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.byID[id]
	if !ok || g.Status != games.StatusResolving {
		return nil, games.ErrGameNotFound
	}

	e := errMsg
	g.Status = games.StatusResolveFailed
	g.ResolveSig = nil
	g.ResolveError = &e
	g.UpdatedAt = time.Now()

	return cloneGame(g), nil
}

// fakeLedger scripts resolve outcomes and records every call.
type fakeLedger struct {
	mu          sync.Mutex
	canResolve  bool
	sig         string
	err         error
	calls       int
	lastGameID  [16]byte
	lastCreator string
	lastWinner  string
}

var _ Ledger = (*fakeLedger)(nil)

func (l *fakeLedger) CanResolve() bool { return l.canResolve }

func (l *fakeLedger) DeriveAddresses(creatorPubkey string, gameID [16]byte) (string, string, error) {
	escrowAddr := fmt.Sprintf("escrow-%x", gameID[:4])
	vaultAddr := fmt.Sprintf("vault-%x", gameID[:4])

	return escrowAddr, vaultAddr, nil
}

func (l *fakeLedger) Resolve(_ context.Context, gameID [16]byte, creatorPubkey, winnerPubkey string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	l.lastGameID = gameID
	l.lastCreator = creatorPubkey
	l.lastWinner = winnerPubkey

	if l.err != nil {
		return "", l.err
	}

	return l.sig, nil
}

func (l *fakeLedger) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.calls
}

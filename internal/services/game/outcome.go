package game

import (
	"strings"

	"github.com/seeker-rps/api/internal/repos/games"
)

// beats maps each choice to the one it defeats.
var beats = map[games.Choice]games.Choice{
	games.ChoiceRock:     games.ChoiceScissors,
	games.ChoicePaper:    games.ChoiceRock,
	games.ChoiceScissors: games.ChoicePaper,
}

// ParseChoice normalizes a submitted choice (case-insensitive, trimmed) to
// one of the three recognized values.
func ParseChoice(raw string) (games.Choice, error) {
	c := games.Choice(strings.ToLower(strings.TrimSpace(raw)))

	switch c {
	case games.ChoiceRock, games.ChoicePaper, games.ChoiceScissors:
		return c, nil
	default:
		return "", ErrInvalidChoice
	}
}

// Winner decides a completed round: equal choices are a draw (ok=false),
// otherwise the cyclic dominance rule picks a side. Deterministic, no
// randomness.
func Winner(creatorChoice, joinerChoice games.Choice, creatorPubkey, joinerPubkey string) (string, bool) {
	a := games.Choice(strings.ToLower(string(creatorChoice)))
	b := games.Choice(strings.ToLower(string(joinerChoice)))

	if a == b {
		return "", false
	}

	if beats[a] == b {
		return creatorPubkey, true
	}

	return joinerPubkey, true
}

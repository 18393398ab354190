package bots

import (
	"math/rand"
	"sort"

	"tute/internal/engine"
)

type Bot interface {
	ChooseAction(m *engine.Match, playerID string) engine.Action
}

type EasyBot struct {
	RNG *rand.Rand
}

func NewEasy(seed int64) *EasyBot {
	return &EasyBot{RNG: rand.New(rand.NewSource(seed))}
}

func (b *EasyBot) ChooseAction(m *engine.Match, playerID string) engine.Action {
	legal := engine.LegalActions(m, playerID)
	if len(legal) == 0 {
		return engine.Action{Type: engine.ActionDecline}
	}
	return legal[b.RNG.Intn(len(legal))]
}

type NormalBot struct {
	RNG *rand.Rand
}

func NewNormal(seed int64) *NormalBot {
	return &NormalBot{RNG: rand.New(rand.NewSource(seed))}
}

func (b *NormalBot) ChooseAction(m *engine.Match, playerID string) engine.Action {
	if d := m.PendingFor(playerID); d != nil {
		return singHeuristic(m, d)
	}
	return playHeuristic(m, playerID)
}

// singHeuristic always sings, preferring trump for the larger bonus.
func singHeuristic(m *engine.Match, d *engine.PendingDecision) engine.Action {
	suit := d.Offered[0]
	for _, s := range d.Offered {
		if s == m.Trump {
			suit = s
		}
	}
	return engine.Action{Type: engine.ActionSing, Suit: &suit}
}

func playHeuristic(m *engine.Match, playerID string) engine.Action {
	legal := engine.LegalCards(m, playerID)
	if len(legal) == 0 {
		return engine.Action{Type: engine.ActionDecline}
	}
	sort.Slice(legal, func(i, j int) bool {
		return cardScore(legal[i], m.Trump) < cardScore(legal[j], m.Trump)
	})
	if m.Lead == nil {
		// Lead with the strongest non-trump card to draw out high cards.
		for i := len(legal) - 1; i >= 0; i-- {
			if legal[i].Suit != m.Trump {
				return play(legal[i])
			}
		}
		return play(legal[len(legal)-1])
	}
	// Try to win trick with lowest winning card if possible
	seat := m.Seat(playerID)
	for _, c := range legal {
		if engine.WinsTrick(m, seat, c) {
			return play(c)
		}
	}
	// Otherwise shed lowest card
	return play(legal[0])
}

func cardScore(c engine.Card, trump engine.Suit) int {
	score := c.Value()
	if c.Suit == trump {
		score += 100
	}
	return score
}

func play(c engine.Card) engine.Action {
	return engine.Action{Type: engine.ActionPlayCard, Card: &c}
}

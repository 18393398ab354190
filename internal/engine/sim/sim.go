package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"tute/internal/engine"
)

type ActionRecord struct {
	Round int
	Step  int
	P     string
	A     engine.Action
}

// RunSelfPlayMatch plays a whole match between seats players that always
// pick the lowest legal card and always sing, settling every trick at once.
// It stops with an error on the first broken invariant.
func RunSelfPlayMatch(seed int64, seats int, maxSteps int) (*engine.Match, error) {
	m := engine.NewMatch(engine.DefaultRules(), "p0", seed)
	for i := 1; i < seats; i++ {
		m.AddPlayer(fmt.Sprintf("p%d", i))
	}
	if _, ok := m.Begin("p0"); !ok {
		return m, fmt.Errorf("seed=%d: match did not begin", seed)
	}

	rng := rand.New(rand.NewSource(seed))
	records := []ActionRecord{}
	for step := 0; step < maxSteps; step++ {
		if m.Status == engine.StatusFinished {
			return m, nil
		}
		if m.Settling != nil {
			if _, ok := m.Settle(m.Settling.Gen); !ok {
				return m, failure(seed, m, step, records, "settle rejected")
			}
			if err := m.CheckInvariants(); err != nil {
				return m, failure(seed, m, step, records, err.Error())
			}
			continue
		}

		player, ok := engine.CurrentPlayer(m)
		if !ok {
			// first card of the match: anybody may lead
			player = m.Players[rng.Intn(len(m.Players))].ID
		}
		legal := engine.LegalActions(m, player)
		if len(legal) == 0 {
			return m, failure(seed, m, step, records, "no legal actions for "+player)
		}
		action := chooseAction(legal)
		if _, err := engine.ApplyAction(m, player, action); err != nil {
			return m, failure(seed, m, step, records, fmt.Sprintf("apply error: %v", err))
		}
		records = append(records, ActionRecord{Round: m.Round, Step: step, P: player, A: action})
		if err := m.CheckInvariants(); err != nil {
			return m, failure(seed, m, step, records, err.Error())
		}
	}
	return m, failure(seed, m, maxSteps, records, "match did not finish")
}

func chooseAction(legal []engine.Action) engine.Action {
	for _, a := range legal {
		if a.Type == engine.ActionSing {
			return a
		}
	}
	return lowestLegalPlay(legal)
}

func lowestLegalPlay(legal []engine.Action) engine.Action {
	sorted := append([]engine.Action(nil), legal...)
	sort.Slice(sorted, func(i, j int) bool {
		return actionKey(sorted[i]) < actionKey(sorted[j])
	})
	best := sorted[0]
	bestScore := 1<<31 - 1
	for _, a := range sorted {
		if a.Type != engine.ActionPlayCard || a.Card == nil {
			continue
		}
		if score := a.Card.Value(); score < bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

func actionKey(a engine.Action) string {
	switch a.Type {
	case engine.ActionPlayCard:
		if a.Card == nil {
			return "0_play_?"
		}
		return fmt.Sprintf("0_play_%d_%d", a.Card.Suit, a.Card.Rank)
	case engine.ActionSing:
		if a.Suit == nil {
			return "1_sing_?"
		}
		return fmt.Sprintf("1_sing_%d", *a.Suit)
	case engine.ActionDecline:
		return "2_decline"
	default:
		return "9_unknown"
	}
}

func failure(seed int64, m *engine.Match, step int, records []ActionRecord, reason string) error {
	start := 0
	if len(records) > 20 {
		start = len(records) - 20
	}
	log := ""
	for _, r := range records[start:] {
		log += fmt.Sprintf("[r%d s%d %s] %v\n", r.Round, r.Step, r.P, describe(r.A))
	}
	return fmt.Errorf("seed=%d round=%d step=%d status=%v turn=%d reason=%s\nlast actions:\n%s",
		seed, m.Round, step, m.Status, m.Turn, reason, log)
}

func describe(a engine.Action) string {
	switch a.Type {
	case engine.ActionPlayCard:
		if a.Card != nil {
			return "play " + a.Card.String()
		}
	case engine.ActionSing:
		if a.Suit != nil {
			return "sing " + a.Suit.String()
		}
	case engine.ActionDecline:
		return "decline"
	}
	return "?"
}

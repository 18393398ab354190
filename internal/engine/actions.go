package engine

import "errors"

type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionSing
	ActionDecline
)

type Action struct {
	Type ActionType
	Card *Card
	Suit *Suit
}

var (
	ErrNotInRound   = errors.New("match not in round")
	ErrWaiting      = errors.New("table is resolving a trick")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrNotSeated    = errors.New("player not seated")
	ErrIllegalCard  = errors.New("illegal card play")
	ErrNoDecision   = errors.New("no sing decision pending for player")
	ErrNotOffered   = errors.New("suit was not offered")
	ErrInvalidInput = errors.New("invalid action")
)

// LegalActions lists what the player may do right now: answer a pending
// sing, or play one of the legal cards.
func LegalActions(m *Match, playerID string) []Action {
	if d := m.PendingFor(playerID); d != nil {
		out := make([]Action, 0, len(d.Offered)+1)
		for i := range d.Offered {
			s := d.Offered[i]
			out = append(out, Action{Type: ActionSing, Suit: &s})
		}
		return append(out, Action{Type: ActionDecline})
	}
	cards := LegalCards(m, playerID)
	out := make([]Action, 0, len(cards))
	for i := range cards {
		c := cards[i]
		out = append(out, Action{Type: ActionPlayCard, Card: &c})
	}
	return out
}

// CurrentPlayer returns the player expected to act. During the free first
// card of a match, and while a trick settles, nobody in particular is.
func CurrentPlayer(m *Match) (string, bool) {
	if m.Status != StatusInRound {
		return "", false
	}
	if m.Pending != nil {
		return m.Players[m.Pending.Seat].ID, true
	}
	if m.Waiting || m.Turn < 0 {
		return "", false
	}
	return m.Players[m.Turn].ID, true
}

// ApplyAction applies a player action and explains a rejection. A rejected
// action leaves the match untouched.
func ApplyAction(m *Match, playerID string, a Action) ([]Event, error) {
	seat := m.Seat(playerID)
	if seat < 0 {
		return nil, ErrNotSeated
	}
	if m.Status != StatusInRound {
		return nil, ErrNotInRound
	}
	switch a.Type {
	case ActionPlayCard:
		return applyPlay(m, playerID, a)
	case ActionSing, ActionDecline:
		return applySing(m, playerID, a)
	default:
		return nil, ErrInvalidInput
	}
}

func applyPlay(m *Match, playerID string, a Action) ([]Event, error) {
	if a.Card == nil {
		return nil, ErrInvalidInput
	}
	if m.Waiting {
		return nil, ErrWaiting
	}
	if seat := m.Seat(playerID); m.Turn != -1 && m.Turn != seat {
		return nil, ErrNotYourTurn
	}
	events, ok := m.Play(playerID, *a.Card)
	if !ok {
		return nil, ErrIllegalCard
	}
	return events, nil
}

func applySing(m *Match, playerID string, a Action) ([]Event, error) {
	if m.PendingFor(playerID) == nil {
		return nil, ErrNoDecision
	}
	var choice *Suit
	if a.Type == ActionSing {
		if a.Suit == nil {
			return nil, ErrInvalidInput
		}
		choice = a.Suit
	}
	events, ok := m.ResolveSing(choice)
	if !ok {
		return nil, ErrNotOffered
	}
	return events, nil
}

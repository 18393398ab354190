package engine

import "fmt"

// Begin deals the first round. Only a seated player can begin, and only
// while the match is queued with an allowed number of seats.
func (m *Match) Begin(requester string) ([]Event, bool) {
	if m.Status != StatusQueued || m.Seat(requester) < 0 {
		return nil, false
	}
	if n := len(m.Players); n < m.Rules.MinPlayers || n > m.Rules.MaxPlayers {
		return nil, false
	}
	m.Beginner = 0
	DealRound(m)
	// Nobody has led yet: the first card of the match is free for all.
	m.Turn = -1
	return []Event{m.roundDealtEvent()}, true
}

// Play moves card from the player's hand to the table. An illegal play
// changes nothing and reports false.
func (m *Match) Play(playerID string, card Card) ([]Event, bool) {
	if !LegalMove(m, playerID, card) {
		return nil, false
	}
	seat := m.Seat(playerID)
	if m.Turn == -1 {
		m.Beginner = seat
	}
	removeCard(&m.Players[seat].Hand, card)
	played := card
	m.Table[seat] = &played
	if m.Lead == nil {
		m.Lead = &played
	}

	events := []Event{{Kind: EventCardPlayed, Seat: seat, Payload: CardPlayedPayload{Card: card}}}
	if !m.tableFull() {
		m.Turn = (seat + 1) % len(m.Players)
		return events, true
	}
	return append(events, m.resolveTrick()...), true
}

// Settle collects a trick once its settle delay has passed. A gen that does
// not match the pending settle is ignored.
func (m *Match) Settle(gen int) ([]Event, bool) {
	s := m.Settling
	if s == nil || s.Gen != gen {
		return nil, false
	}
	m.Settling = nil
	if s.Instant {
		m.collectTrick(s.Winner)
		return m.finishRound(scoreInstantWin(m, s.Winner)), true
	}
	return m.completeTrick(s.Winner), true
}

func (m *Match) tableFull() bool {
	for _, c := range m.Table {
		if c == nil {
			return false
		}
	}
	return true
}

func (m *Match) resolveTrick() []Event {
	winner := trickWinner(m.Table, m.Lead.Suit, m.Trump)
	if winner < 0 {
		panic("trick without a winner")
	}
	m.Waiting = true

	if instantWin(m.Players[winner].Hand) {
		m.scheduleSettle(winner, true)
		return []Event{{Kind: EventTrickComplete, Seat: winner, Payload: TrickCompletePayload{Winner: winner, Instant: true}}}
	}
	events := []Event{{Kind: EventTrickComplete, Seat: winner, Payload: TrickCompletePayload{Winner: winner}}}
	if offered := SingableSuits(m, winner); len(offered) > 0 {
		m.Pending = &PendingDecision{Seat: winner, Offered: offered}
		return append(events, Event{Kind: EventSingPrompt, Seat: winner, Payload: SingPromptPayload{Offered: offered}})
	}
	m.scheduleSettle(winner, false)
	return events
}

func (m *Match) scheduleSettle(winner int, instant bool) {
	m.settleGen++
	m.Settling = &PendingSettle{Gen: m.settleGen, Winner: winner, Instant: instant}
}

// collectTrick moves the table to the winner's stack and hands them the lead.
func (m *Match) collectTrick(winner int) []Card {
	won := make([]Card, 0, len(m.Table))
	for i, c := range m.Table {
		if c != nil {
			won = append(won, *c)
		}
		m.Table[i] = nil
	}
	m.Players[winner].Stack = append(m.Players[winner].Stack, won...)
	m.Lead = nil
	m.LastWinner = winner
	m.Turn = winner
	m.Waiting = false
	return won
}

func (m *Match) completeTrick(winner int) []Event {
	won := m.collectTrick(winner)
	events := []Event{{Kind: EventTrickWon, Seat: winner, Payload: TrickWonPayload{Cards: won}}}
	if len(m.Players[winner].Hand) == 0 {
		events = append(events, m.finishRound(scoreTally(m, winner))...)
	}
	return events
}

// finishRound applies penalties, then ends the match or deals the next
// round with the beginner moved one seat on.
func (m *Match) finishRound(res RoundResult) []Event {
	for _, seat := range res.Penalized {
		m.Players[seat].Penalties++
	}
	res.Penalties = make([]int, len(m.Players))
	for i, p := range m.Players {
		res.Penalties[i] = p.Penalties
	}
	events := []Event{{Kind: EventRoundResult, Seat: -1, Payload: res}}

	losers := []int{}
	for i, p := range m.Players {
		if p.Penalties >= m.Rules.LossThreshold {
			losers = append(losers, i)
		}
	}
	if len(losers) > 0 {
		m.Status = StatusFinished
		m.Waiting = false
		m.Pending = nil
		m.Settling = nil
		m.Turn = -1
		return append(events, Event{Kind: EventMatchOver, Seat: -1, Payload: MatchOverPayload{Losers: losers}})
	}

	m.Beginner = (m.Beginner + 1) % len(m.Players)
	DealRound(m)
	m.Turn = m.Beginner
	return append(events, m.roundDealtEvent())
}

func (m *Match) roundDealtEvent() Event {
	return Event{Kind: EventRoundDealt, Seat: m.Beginner, Payload: RoundDealtPayload{Round: m.Round, Trump: m.Trump, Beginner: m.Beginner}}
}

// CheckInvariants verifies the card partition and the turn rules. A non-nil
// error means the engine itself is broken.
func (m *Match) CheckInvariants() error {
	if m.Status != StatusInRound {
		return nil
	}
	if len(m.Table) != len(m.Players) {
		return fmt.Errorf("table has %d slots for %d seats", len(m.Table), len(m.Players))
	}
	seen := make(map[Card]bool, DeckSize)
	add := func(where string, cards ...Card) error {
		for _, c := range cards {
			if seen[c] {
				return fmt.Errorf("duplicate card %v in %s", c, where)
			}
			seen[c] = true
		}
		return nil
	}
	for i, p := range m.Players {
		if err := add(fmt.Sprintf("seat %d hand", i), p.Hand...); err != nil {
			return err
		}
		if err := add(fmt.Sprintf("seat %d stack", i), p.Stack...); err != nil {
			return err
		}
	}
	for i, c := range m.Table {
		if c == nil {
			continue
		}
		if err := add(fmt.Sprintf("table slot %d", i), *c); err != nil {
			return err
		}
	}
	if err := add("stock", m.Stock...); err != nil {
		return err
	}
	if len(seen) != DeckSize {
		return fmt.Errorf("partition holds %d cards, want %d", len(seen), DeckSize)
	}

	sung := map[Suit]bool{}
	for _, p := range m.Players {
		for _, s := range p.Sings {
			if sung[s] {
				return fmt.Errorf("suit %v sung twice", s)
			}
			sung[s] = true
		}
	}
	if m.Waiting || m.Turn == -1 {
		return nil
	}
	if m.Turn < 0 || m.Turn >= len(m.Players) {
		return fmt.Errorf("turn %d out of range", m.Turn)
	}
	if m.Table[m.Turn] != nil || len(m.Players[m.Turn].Hand) == 0 {
		return fmt.Errorf("turn seat %d cannot play", m.Turn)
	}
	return nil
}

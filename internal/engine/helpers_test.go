package engine

import "fmt"

func card(r Rank, s Suit) Card {
	return Card{Suit: s, Rank: r}
}

// riggedMatch seats one player per hand, already in round, with seat 0 to
// play and no card on the table.
func riggedMatch(trump Suit, hands ...[]Card) *Match {
	m := NewMatch(DefaultRules(), "p0", 1)
	for i := 1; i < len(hands); i++ {
		m.AddPlayer(fmt.Sprintf("p%d", i))
	}
	m.Status = StatusInRound
	m.Round = 1
	m.Table = make([]*Card, len(hands))
	m.Trump = trump
	m.Turn = 0
	for i, h := range hands {
		m.Players[i].Hand = append([]Card(nil), h...)
	}
	return m
}

func mustPlay(m *Match, playerID string, c Card) []Event {
	events, ok := m.Play(playerID, c)
	if !ok {
		panic(fmt.Sprintf("%s could not play %v", playerID, c))
	}
	return events
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

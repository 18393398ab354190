package server

import (
	"fmt"

	"tute/internal/engine"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type EventPayload struct {
	Seat    int       `json:"seat"`
	Player  string    `json:"player,omitempty"`
	Round   int       `json:"round,omitempty"`
	Trump   string    `json:"trump,omitempty"`
	Suit    string    `json:"suit,omitempty"`
	Suits   []string  `json:"suits,omitempty"`
	Cards   []CardDTO `json:"cards,omitempty"`
	Instant bool      `json:"instant,omitempty"`
	Losers  []string  `json:"losers,omitempty"`
	Points  int       `json:"points,omitempty"`
}

func buildEvents(m *engine.Match, events []engine.Event) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		data := EventPayload{Seat: ev.Seat}
		if ev.Seat >= 0 && ev.Seat < len(m.Players) {
			data.Player = m.Players[ev.Seat].ID
		}
		switch p := ev.Payload.(type) {
		case engine.RoundDealtPayload:
			data.Round = p.Round
			data.Trump = suitToString(p.Trump)
		case engine.CardPlayedPayload:
			data.Cards = []CardDTO{*cardToDTO(p.Card)}
		case engine.TrickCompletePayload:
			data.Instant = p.Instant
		case engine.SingPromptPayload:
			data.Suits = suitsToStrings(p.Offered)
		case engine.SungPayload:
			data.Suit = suitToString(p.Suit)
			data.Points = singPoints(m, p.Suit)
		case engine.TrickWonPayload:
			data.Cards = cardsToDTO(p.Cards)
		case engine.RoundResult:
			data.Round = p.Round
		case engine.MatchOverPayload:
			data.Losers = seatIDs(m, p.Losers)
		}
		out = append(out, Event{Type: ev.Kind.String(), Data: data})
	}
	return out
}

// announcement turns the events everybody should hear about into a line of
// table chat. It returns false for routine events.
func announcement(m *engine.Match, ev engine.Event) (string, bool) {
	switch p := ev.Payload.(type) {
	case engine.SungPayload:
		return fmt.Sprintf("%s sings %s (+%d)", m.Players[ev.Seat].ID, suitToString(p.Suit), singPoints(m, p.Suit)), true
	case engine.TrickCompletePayload:
		if p.Instant {
			return fmt.Sprintf("%s holds four of a kind and wins the round", m.Players[p.Winner].ID), true
		}
	case engine.RoundResult:
		if p.Kind == engine.RoundSweep {
			return fmt.Sprintf("%s took every trick", m.Players[p.Winner].ID), true
		}
	case engine.MatchOverPayload:
		losers := seatIDs(m, p.Losers)
		return fmt.Sprintf("match over, lost by %v", losers), true
	}
	return "", false
}

func singPoints(m *engine.Match, suit engine.Suit) int {
	if suit == m.Trump {
		return 20
	}
	return 10
}

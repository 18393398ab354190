package engine

import (
	"fmt"
	"math/rand"
)

const DeckSize = 40

func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range Ranks {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// DealRound deals a fresh deck one card at a time starting at the round
// beginner. Cards that do not divide evenly stay in the stock and the last of
// them reveals trump.
func DealRound(m *Match) {
	seats := len(m.Players)
	if seats < m.Rules.MinPlayers || seats > m.Rules.MaxPlayers {
		panic(fmt.Sprintf("invalid deal configuration: %d seats", seats))
	}
	m.resetRound()

	deck := Shuffle(BuildDeck(), m.rng)
	handSize := DeckSize / seats
	idx := 0
	for n := 0; n < handSize; n++ {
		for i := 0; i < seats; i++ {
			seat := (m.Beginner + i) % seats
			m.Players[seat].Hand = append(m.Players[seat].Hand, deck[idx])
			idx++
		}
	}
	m.Stock = append([]Card(nil), deck[idx:]...)

	if len(m.Stock) == 0 {
		m.Trump = Suits[m.trumpCounter%len(Suits)]
		m.trumpCounter++
	} else {
		exchangeTrump(m)
		m.Trump = m.Stock[len(m.Stock)-1].Suit
	}
	if m.Rules.NoTensPlayer != "" {
		applyNoTens(m, m.Rules.NoTensPlayer)
	}

	for i := range m.Players {
		if len(m.Players[i].Hand) != handSize {
			panic(fmt.Sprintf("invalid deal: seat %d holds %d cards, want %d", i, len(m.Players[i].Hand), handSize))
		}
	}
	m.Status = StatusInRound
	m.Round++
}

// exchangeTrump runs the seven swap and then the two swap against the
// trump indicator at the end of the stock.
func exchangeTrump(m *Match) {
	last := len(m.Stock) - 1
	for _, low := range []Rank{RankSeven, RankTwo} {
		indicator := m.Stock[last]
		if indicator.Value() <= RankValue(low) {
			continue
		}
		want := Card{Suit: indicator.Suit, Rank: low}
		for i := range m.Players {
			if swapCard(m.Players[i].Hand, want, indicator) {
				m.Stock[last] = want
				break
			}
		}
	}
}

// applyNoTens moves every Ten out of the named player's hand, trading each
// for a non-Ten card of the next seat in rotation that has one.
func applyNoTens(m *Match, playerID string) {
	seat := m.Seat(playerID)
	if seat < 0 {
		return
	}
	seats := len(m.Players)
	hand := m.Players[seat].Hand
	for i, c := range hand {
		if c.Rank != RankTen {
			continue
		}
		for step := 1; step < seats; step++ {
			other := m.Players[(seat+step)%seats].Hand
			j := indexOfNonTen(other)
			if j < 0 {
				continue
			}
			hand[i], other[j] = other[j], c
			break
		}
	}
}

func indexOfNonTen(hand []Card) int {
	for i, c := range hand {
		if c.Rank != RankTen {
			return i
		}
	}
	return -1
}

// swapCard replaces want with give in hand, reporting whether want was held.
func swapCard(hand []Card, want, give Card) bool {
	for i, c := range hand {
		if c == want {
			hand[i] = give
			return true
		}
	}
	return false
}

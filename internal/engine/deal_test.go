package engine

import (
	"fmt"
	"testing"
)

func seatedMatch(seats int, seed int64) *Match {
	m := NewMatch(DefaultRules(), "p0", seed)
	for i := 1; i < seats; i++ {
		m.AddPlayer(fmt.Sprintf("p%d", i))
	}
	return m
}

func TestDealPartitionsDeck(t *testing.T) {
	for seats := 3; seats <= 6; seats++ {
		m := seatedMatch(seats, int64(seats))
		if _, ok := m.Begin("p0"); !ok {
			t.Fatalf("%d seats: match did not begin", seats)
		}
		if err := m.CheckInvariants(); err != nil {
			t.Fatalf("%d seats: %v", seats, err)
		}
		for i, p := range m.Players {
			if len(p.Hand) != DeckSize/seats {
				t.Fatalf("%d seats: seat %d holds %d cards", seats, i, len(p.Hand))
			}
		}
		if len(m.Stock) != DeckSize%seats {
			t.Fatalf("%d seats: stock holds %d cards", seats, len(m.Stock))
		}
		if len(m.Stock) > 0 && m.Stock[len(m.Stock)-1].Suit != m.Trump {
			t.Fatalf("%d seats: trump %v does not match indicator %v", seats, m.Trump, m.Stock[len(m.Stock)-1])
		}
	}
}

func TestDealDeterministic(t *testing.T) {
	m1 := seatedMatch(3, 42)
	m2 := seatedMatch(3, 42)
	m1.Begin("p0")
	m2.Begin("p0")

	for i := range m1.Players {
		for c := range m1.Players[i].Hand {
			if m1.Players[i].Hand[c] != m2.Players[i].Hand[c] {
				t.Fatalf("determinism mismatch at seat %d card %d", i, c)
			}
		}
	}
}

func TestBuildDeckUnique(t *testing.T) {
	seen := map[Card]bool{}
	for _, c := range BuildDeck() {
		if seen[c] {
			t.Fatalf("duplicate card: %v", c)
		}
		seen[c] = true
	}
	if len(seen) != DeckSize {
		t.Fatalf("deck has %d cards", len(seen))
	}
}

func TestTrumpExchangeSevenThenTwo(t *testing.T) {
	m := riggedMatch(SuitOros,
		[]Card{card(RankThree, SuitCopas)},
		[]Card{card(RankSeven, SuitOros)},
		[]Card{card(RankTwo, SuitOros)},
	)
	m.Stock = []Card{card(RankTen, SuitOros)}
	exchangeTrump(m)

	if m.Players[1].Hand[0] != card(RankTen, SuitOros) {
		t.Fatalf("seven holder should take the indicator, holds %v", m.Players[1].Hand)
	}
	if m.Players[2].Hand[0] != card(RankSeven, SuitOros) {
		t.Fatalf("two holder should take the seven, holds %v", m.Players[2].Hand)
	}
	if m.Stock[0] != card(RankTwo, SuitOros) {
		t.Fatalf("indicator should end as the two, got %v", m.Stock[0])
	}
}

func TestTrumpExchangeSkipsLowIndicator(t *testing.T) {
	m := riggedMatch(SuitOros,
		[]Card{card(RankThree, SuitCopas)},
		[]Card{card(RankSeven, SuitOros)},
		[]Card{card(RankTwo, SuitOros)},
	)
	m.Stock = []Card{card(RankOne, SuitOros)}
	exchangeTrump(m)
	if m.Stock[0] != card(RankOne, SuitOros) || m.Players[2].Hand[0] != card(RankTwo, SuitOros) {
		t.Fatalf("one of trump must not be exchanged")
	}

	m.Stock = []Card{card(RankFive, SuitOros)}
	exchangeTrump(m)
	if m.Players[1].Hand[0] != card(RankSeven, SuitOros) {
		t.Fatalf("five is below the seven and must not take it")
	}
	if m.Stock[0] != card(RankTwo, SuitOros) || m.Players[2].Hand[0] != card(RankFive, SuitOros) {
		t.Fatalf("five is above the two and must be exchanged for it")
	}
}

func TestTrumpRotatesWithoutStock(t *testing.T) {
	m := seatedMatch(4, 7)
	m.Begin("p0")
	if m.Trump != SuitOros || len(m.Stock) != 0 {
		t.Fatalf("expected first counter suit, got %v with stock %v", m.Trump, m.Stock)
	}
	DealRound(m)
	if m.Trump != SuitCopas {
		t.Fatalf("expected counter to advance, got %v", m.Trump)
	}
}

func TestNoTensHouseRule(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		m := seatedMatch(3, seed)
		m.Rules.NoTensPlayer = "p1"
		m.Begin("p0")
		for _, c := range m.Players[1].Hand {
			if c.Rank == RankTen {
				t.Fatalf("seed %d: p1 was dealt %v", seed, c)
			}
		}
		if err := m.CheckInvariants(); err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for i, p := range m.Players {
			if len(p.Hand) != DeckSize/3 {
				t.Fatalf("seed %d: seat %d holds %d cards", seed, i, len(p.Hand))
			}
		}
	}
}

func TestDealRoundPanicsOnBadSeatCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for two seats")
		}
	}()
	DealRound(seatedMatch(2, 1))
}

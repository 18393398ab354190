package engine

// RankValue is the signed value of a rank. One and Two are negative: they
// rank lowest in a trick and add nothing to a stack.
func RankValue(r Rank) int {
	switch r {
	case RankOne:
		return -2
	case RankTwo:
		return -1
	case RankThree:
		return 3
	case RankFour:
		return 4
	case RankFive:
		return 5
	case RankSix:
		return 6
	case RankSeven:
		return 7
	case RankEight:
		return 10
	case RankNine:
		return 11
	case RankTen:
		return 12
	default:
		return 0
	}
}

// CardPoints is what a won card adds to a round score.
func CardPoints(c Card) int {
	if v := c.Value(); v > 0 {
		return v
	}
	return 0
}

// LegalMove reports whether the player may put card on the table right now.
func LegalMove(m *Match, playerID string, card Card) bool {
	seat := m.Seat(playerID)
	if !canAct(m, seat) || !m.Players[seat].HasCard(card) {
		return false
	}
	return hasCard(legalSet(m, seat), card)
}

// LegalCards returns the subset of the player's hand that may be played now.
func LegalCards(m *Match, playerID string) []Card {
	seat := m.Seat(playerID)
	if !canAct(m, seat) {
		return nil
	}
	return legalSet(m, seat)
}

func canAct(m *Match, seat int) bool {
	if seat < 0 || m.Status != StatusInRound || m.Waiting {
		return false
	}
	if m.Table[seat] != nil || len(m.Players[seat].Hand) == 0 {
		return false
	}
	return m.Turn == -1 || m.Turn == seat
}

// legalSet applies the follow/raise/trump obligations in order and returns
// the first non-empty candidate set.
func legalSet(m *Match, seat int) []Card {
	hand := m.Players[seat].Hand
	if m.Turn == -1 || m.Lead == nil {
		return append([]Card(nil), hand...)
	}
	lead := m.Lead.Suit

	bestLead, _ := bestOnTable(m.Table, lead)
	if set := filterAbove(hand, lead, bestLead); len(set) > 0 {
		return set
	}
	if set := filterBySuit(hand, lead); len(set) > 0 {
		return set
	}
	if bestTrump, ok := bestOnTable(m.Table, m.Trump); ok {
		if set := filterAbove(hand, m.Trump, bestTrump); len(set) > 0 {
			return set
		}
	}
	if set := filterBySuit(hand, m.Trump); len(set) > 0 {
		return set
	}
	return append([]Card(nil), hand...)
}

// bestOnTable returns the highest value of suit on the table.
func bestOnTable(table []*Card, suit Suit) (int, bool) {
	best, found := 0, false
	for _, c := range table {
		if c == nil || c.Suit != suit {
			continue
		}
		if !found || c.Value() > best {
			best, found = c.Value(), true
		}
	}
	return best, found
}

// trickWinner returns the seat holding the highest trump, or the highest
// card of the lead suit when no trump was played.
func trickWinner(table []*Card, lead Suit, trump Suit) int {
	winner := -1
	for seat, c := range table {
		if c == nil {
			continue
		}
		if winner < 0 {
			if c.Suit == trump || c.Suit == lead {
				winner = seat
			}
			continue
		}
		best := table[winner]
		switch {
		case c.Suit == trump && best.Suit != trump:
			winner = seat
		case c.Suit == best.Suit && c.Value() > best.Value():
			winner = seat
		}
	}
	return winner
}

// instantWin reports four Tens or four Nines in hand.
func instantWin(hand []Card) bool {
	tens, nines := 0, 0
	for _, c := range hand {
		switch c.Rank {
		case RankTen:
			tens++
		case RankNine:
			nines++
		}
	}
	return tens == len(Suits) || nines == len(Suits)
}

// SingableSuits lists the suits the seat can sing: it holds, in hand or as
// its card on the table, both the Nine and the Ten of the suit and nobody
// has sung that suit this round.
func SingableSuits(m *Match, seat int) []Suit {
	cards := append([]Card(nil), m.Players[seat].Hand...)
	if own := m.Table[seat]; own != nil {
		cards = append(cards, *own)
	}
	out := []Suit{}
	for _, s := range Suits {
		if suitSung(m, s) {
			continue
		}
		if hasCard(cards, Card{Suit: s, Rank: RankNine}) && hasCard(cards, Card{Suit: s, Rank: RankTen}) {
			out = append(out, s)
		}
	}
	return out
}

func suitSung(m *Match, suit Suit) bool {
	for _, p := range m.Players {
		if hasSuit(p.Sings, suit) {
			return true
		}
	}
	return false
}

func hasSuit(suits []Suit, suit Suit) bool {
	for _, s := range suits {
		if s == suit {
			return true
		}
	}
	return false
}

func hasCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

func filterBySuit(cards []Card, suit Suit) []Card {
	out := []Card{}
	for _, c := range cards {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func filterAbove(cards []Card, suit Suit, value int) []Card {
	out := []Card{}
	for _, c := range filterBySuit(cards, suit) {
		if c.Value() > value {
			out = append(out, c)
		}
	}
	return out
}

func removeCard(hand *[]Card, card Card) bool {
	for i, c := range *hand {
		if c == card {
			*hand = append((*hand)[:i], (*hand)[i+1:]...)
			return true
		}
	}
	return false
}

// WinsTrick reports whether card, played now from seat, would currently
// win the trick against the cards already on the table.
func WinsTrick(m *Match, seat int, card Card) bool {
	table := append([]*Card(nil), m.Table...)
	table[seat] = &card
	lead := card.Suit
	if m.Lead != nil {
		lead = m.Lead.Suit
	}
	return trickWinner(table, lead, m.Trump) == seat
}

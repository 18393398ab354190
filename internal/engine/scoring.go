package engine

type RoundKind int

const (
	RoundNormal RoundKind = iota
	RoundSweep
	RoundInstantWin
)

func (k RoundKind) String() string {
	switch k {
	case RoundNormal:
		return "normal"
	case RoundSweep:
		return "sweep"
	case RoundInstantWin:
		return "instant_win"
	default:
		return "unknown"
	}
}

const (
	trumpSingBonus = 20
	plainSingBonus = 10
	lastTrickBonus = 10
)

// RoundResult is the outcome of one round. Scores is only filled for a
// normal round; Winner is the sweeper or instant winner, else -1.
type RoundResult struct {
	Round     int
	Kind      RoundKind
	Winner    int
	Scores    []int
	Penalized []int
	Penalties []int
}

func scoreInstantWin(m *Match, winner int) RoundResult {
	return RoundResult{
		Round:     m.Round,
		Kind:      RoundInstantWin,
		Winner:    winner,
		Penalized: othersThan(len(m.Players), winner),
	}
}

// scoreTally scores a completed round. A sweep is settled before any card
// points are counted.
func scoreTally(m *Match, lastWinner int) RoundResult {
	if sweeper, ok := soleStackHolder(m); ok {
		res := RoundResult{Round: m.Round, Kind: RoundSweep, Winner: sweeper}
		if m.Players[sweeper].SangAny() {
			res.Penalized = []int{sweeper}
		} else {
			res.Penalized = othersThan(len(m.Players), sweeper)
		}
		return res
	}

	scores := make([]int, len(m.Players))
	for i, p := range m.Players {
		scores[i] = RoundScore(p, m.Trump)
		if i == lastWinner {
			scores[i] += lastTrickBonus
		}
	}
	return RoundResult{
		Round:     m.Round,
		Kind:      RoundNormal,
		Winner:    -1,
		Scores:    scores,
		Penalized: penalizedSeats(scores),
	}
}

// RoundScore is the card and sing value of a player's round, without the
// last trick bonus.
func RoundScore(p Player, trump Suit) int {
	score := 0
	for _, c := range p.Stack {
		score += CardPoints(c)
	}
	for _, s := range p.Sings {
		if s == trump {
			score += trumpSingBonus
		} else {
			score += plainSingBonus
		}
	}
	return score
}

// penalizedSeats picks who takes a penalty point from the round scores.
// Seats strictly between the lowest and highest score are penalized. With no
// such seat the smaller of the top and bottom groups is, or everybody when
// the groups are the same size.
func penalizedSeats(scores []int) []int {
	lo, hi := scores[0], scores[0]
	for _, s := range scores {
		lo = min(lo, s)
		hi = max(hi, s)
	}
	var middle, top, bottom []int
	for i, s := range scores {
		switch {
		case s > lo && s < hi:
			middle = append(middle, i)
		case s == hi:
			top = append(top, i)
		}
		if s == lo {
			bottom = append(bottom, i)
		}
	}
	switch {
	case len(middle) > 0:
		return middle
	case lo == hi, len(top) == len(bottom):
		return othersThan(len(scores), -1)
	case len(top) < len(bottom):
		return top
	default:
		return bottom
	}
}

func soleStackHolder(m *Match) (int, bool) {
	holder := -1
	for i, p := range m.Players {
		if len(p.Stack) == 0 {
			continue
		}
		if holder >= 0 {
			return -1, false
		}
		holder = i
	}
	return holder, holder >= 0
}

// othersThan lists every seat except skip.
func othersThan(seats, skip int) []int {
	out := make([]int, 0, seats)
	for i := 0; i < seats; i++ {
		if i != skip {
			out = append(out, i)
		}
	}
	return out
}

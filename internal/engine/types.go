package engine

import (
	"fmt"
	"math/rand"
)

type Suit int

type Rank int

const (
	SuitOros Suit = iota
	SuitCopas
	SuitEspadas
	SuitBastos
)

// Suits lists the four suits in deck order.
var Suits = [...]Suit{SuitOros, SuitCopas, SuitEspadas, SuitBastos}

const (
	RankOne Rank = iota
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
)

// Ranks lists the ten ranks in ordinal order.
var Ranks = [...]Rank{RankOne, RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven, RankEight, RankNine, RankTen}

func (s Suit) String() string {
	switch s {
	case SuitOros:
		return "O"
	case SuitCopas:
		return "C"
	case SuitEspadas:
		return "E"
	case SuitBastos:
		return "B"
	default:
		return "?"
	}
}

func (r Rank) String() string {
	if r < RankOne || r > RankTen {
		return "?"
	}
	return fmt.Sprintf("%d", int(r)+1)
}

type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank.String(), c.Suit.String())
}

// Value is the signed rank value used both to order cards within a suit and
// to score won cards.
func (c Card) Value() int {
	return RankValue(c.Rank)
}

type Status int

const (
	StatusQueued Status = iota
	StatusInRound
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "Queued"
	case StatusInRound:
		return "InRound"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

type Rules struct {
	MinPlayers    int
	MaxPlayers    int
	LossThreshold int
	// NoTensPlayer names a player who never holds a Ten after the deal.
	// Empty disables the house rule.
	NoTensPlayer string
}

func DefaultRules() Rules {
	return Rules{
		MinPlayers:    3,
		MaxPlayers:    6,
		LossThreshold: 3,
	}
}

type Player struct {
	ID        string
	Hand      []Card
	Stack     []Card
	Sings     []Suit
	Penalties int
}

func (p *Player) HasCard(c Card) bool {
	return hasCard(p.Hand, c)
}

func (p *Player) SangAny() bool {
	return len(p.Sings) > 0
}

// PendingDecision is a sing choice the trick winner still has to make.
type PendingDecision struct {
	Seat    int
	Offered []Suit
}

// PendingSettle is a trick waiting for the settle delay before it is
// collected. Gen distinguishes it from earlier settles so a late timer for
// an old trick is ignored.
type PendingSettle struct {
	Gen     int
	Winner  int
	Instant bool
}

type Match struct {
	Rules      Rules
	Players    []Player
	Table      []*Card
	Turn       int
	Trump      Suit
	Lead       *Card
	LastWinner int
	Beginner   int
	Status     Status
	Waiting    bool
	Pending    *PendingDecision
	Settling   *PendingSettle
	Stock      []Card
	Round      int

	rng          *rand.Rand
	trumpCounter int
	settleGen    int
}

// NewMatch opens a queued match with the host in the first seat.
func NewMatch(r Rules, host string, seed int64) *Match {
	m := &Match{
		Rules:      r,
		rng:        rand.New(rand.NewSource(seed)),
		Turn:       -1,
		LastWinner: -1,
		Status:     StatusQueued,
	}
	m.Players = append(m.Players, Player{ID: host})
	return m
}

// Seat returns the seat index of the player, or -1.
func (m *Match) Seat(playerID string) int {
	for i := range m.Players {
		if m.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// AddPlayer seats a player at the end of the seating order. It only
// succeeds while the match is queued and below the rules' maximum.
func (m *Match) AddPlayer(playerID string) bool {
	if m.Status != StatusQueued || len(m.Players) >= m.Rules.MaxPlayers || m.Seat(playerID) >= 0 {
		return false
	}
	m.Players = append(m.Players, Player{ID: playerID})
	return true
}

// RemovePlayer drops a queued seat. Seats of a running match are fixed.
func (m *Match) RemovePlayer(playerID string) bool {
	seat := m.Seat(playerID)
	if seat < 0 || m.Status != StatusQueued {
		return false
	}
	m.Players = append(m.Players[:seat], m.Players[seat+1:]...)
	return true
}

// resetRound clears hands, stacks, sings and the table while keeping
// seating, penalties and the beginner seat.
func (m *Match) resetRound() {
	for i := range m.Players {
		m.Players[i].Hand = nil
		m.Players[i].Stack = nil
		m.Players[i].Sings = nil
	}
	m.Table = make([]*Card, len(m.Players))
	m.Lead = nil
	m.Stock = nil
	m.Pending = nil
	m.Settling = nil
	m.Waiting = false
	m.LastWinner = -1
}

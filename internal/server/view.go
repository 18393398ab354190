package server

import "tute/internal/engine"

type PlayerView struct {
	ID         string   `json:"id"`
	Seat       int      `json:"seat"`
	HandCount  int      `json:"handCount"`
	StackCount int      `json:"stackCount"`
	Sings      []string `json:"sings"`
	Penalties  int      `json:"penalties"`
	Connected  bool     `json:"connected"`
	Bot        bool     `json:"bot"`
}

// HandCard is a card in the viewer's hand, flagged with whether playing it
// right now would be accepted.
type HandCard struct {
	CardDTO
	Legal bool `json:"legal"`
}

type SingPromptView struct {
	Table   string   `json:"table"`
	Seat    int      `json:"seat"`
	Offered []string `json:"offered"`
}

type GameView struct {
	Table      string          `json:"table"`
	Status     string          `json:"status"`
	Round      int             `json:"round"`
	Seat       int             `json:"seat"`
	Turn       int             `json:"turn"`
	Beginner   int             `json:"beginner"`
	LastWinner int             `json:"lastWinner"`
	Waiting    bool            `json:"waiting"`
	Trump      string          `json:"trump,omitempty"`
	Lead       *CardDTO        `json:"lead,omitempty"`
	TableCards []*CardDTO      `json:"tableCards"`
	Hand       []HandCard      `json:"hand"`
	Stack      []CardDTO       `json:"stack"`
	Players    []PlayerView    `json:"players"`
	Pending    *SingPromptView `json:"pending,omitempty"`
}

type RoundResultView struct {
	Round     int      `json:"round"`
	Kind      string   `json:"kind"`
	Winner    string   `json:"winner,omitempty"`
	Scores    []int    `json:"scores,omitempty"`
	Penalized []string `json:"penalized"`
	Penalties []int    `json:"penalties"`
}

type LobbyView struct {
	Table    string   `json:"table"`
	Host     string   `json:"host"`
	Players  []string `json:"players"`
	Status   string   `json:"status"`
	CanBegin bool     `json:"canBegin"`
}

type TableSummary struct {
	ID      string   `json:"id"`
	Host    string   `json:"host"`
	Players []string `json:"players"`
	Seats   int      `json:"seats"`
	Status  string   `json:"status"`
}

// BuildGameView renders the match as seen from viewer's seat: only the
// viewer's own hand and stack are revealed.
func BuildGameView(tableID string, m *engine.Match, viewer string, connected func(string) bool, isBot func(string) bool) *GameView {
	seat := m.Seat(viewer)
	players := make([]PlayerView, 0, len(m.Players))
	for i, p := range m.Players {
		players = append(players, PlayerView{
			ID:         p.ID,
			Seat:       i,
			HandCount:  len(p.Hand),
			StackCount: len(p.Stack),
			Sings:      suitsToStrings(p.Sings),
			Penalties:  p.Penalties,
			Connected:  connected(p.ID),
			Bot:        isBot(p.ID),
		})
	}
	tableCards := make([]*CardDTO, len(m.Table))
	for i, c := range m.Table {
		if c != nil {
			tableCards[i] = cardToDTO(*c)
		}
	}
	view := &GameView{
		Table:      tableID,
		Status:     m.Status.String(),
		Round:      m.Round,
		Seat:       seat,
		Turn:       m.Turn,
		Beginner:   m.Beginner,
		LastWinner: m.LastWinner,
		Waiting:    m.Waiting,
		TableCards: tableCards,
		Hand:       []HandCard{},
		Stack:      []CardDTO{},
		Players:    players,
	}
	if m.Status != engine.StatusQueued {
		view.Trump = suitToString(m.Trump)
	}
	if m.Lead != nil {
		view.Lead = cardToDTO(*m.Lead)
	}
	if seat >= 0 {
		for _, c := range m.Players[seat].Hand {
			view.Hand = append(view.Hand, HandCard{CardDTO: *cardToDTO(c), Legal: engine.LegalMove(m, viewer, c)})
		}
		view.Stack = cardsToDTO(m.Players[seat].Stack)
	}
	if d := m.PendingFor(viewer); d != nil {
		view.Pending = &SingPromptView{Table: tableID, Seat: d.Seat, Offered: suitsToStrings(d.Offered)}
	}
	return view
}

func buildRoundResult(m *engine.Match, res engine.RoundResult) *RoundResultView {
	view := &RoundResultView{
		Round:     res.Round,
		Kind:      res.Kind.String(),
		Scores:    res.Scores,
		Penalized: seatIDs(m, res.Penalized),
		Penalties: res.Penalties,
	}
	if res.Winner >= 0 {
		view.Winner = m.Players[res.Winner].ID
	}
	return view
}

func buildLobby(tableID string, m *engine.Match) *LobbyView {
	ids := make([]string, 0, len(m.Players))
	for _, p := range m.Players {
		ids = append(ids, p.ID)
	}
	n := len(m.Players)
	return &LobbyView{
		Table:    tableID,
		Host:     tableID,
		Players:  ids,
		Status:   m.Status.String(),
		CanBegin: m.Status == engine.StatusQueued && n >= m.Rules.MinPlayers && n <= m.Rules.MaxPlayers,
	}
}

func seatIDs(m *engine.Match, seats []int) []string {
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		out = append(out, m.Players[s].ID)
	}
	return out
}

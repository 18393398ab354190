package server

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"tute/internal/config"
	"tute/internal/engine"
	"tute/internal/sched"
)

type recorder struct {
	mu   sync.Mutex
	msgs []ServerMessage
}

func (r *recorder) Notify(msg ServerMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.Type == typ {
			n++
		}
	}
	return n
}

func (r *recorder) last(typ string) (ServerMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].Type == typ {
			return r.msgs[i], true
		}
	}
	return ServerMessage{}, false
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []ServerMessage
}

func (p *recordingPublisher) Publish(tableID string, msg ServerMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
}

func (p *recordingPublisher) find(typ string) (ServerMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range p.msgs {
		if m.Type == typ {
			return m, true
		}
	}
	return ServerMessage{}, false
}

type fixture struct {
	reg   *Registry
	clock *sched.Manual
	pub   *recordingPublisher
	conns map[string]*recorder
}

func newFixture(t *testing.T, cfg config.Config, players ...string) *fixture {
	t.Helper()
	f := &fixture{
		clock: sched.NewManual(),
		pub:   &recordingPublisher{},
		conns: map[string]*recorder{},
	}
	f.reg = NewRegistry(cfg, NewPlayers(), f.clock, f.pub, zap.NewNop())
	f.reg.seed = func() int64 { return 7 }
	for _, id := range players {
		f.conns[id] = &recorder{}
		if err := f.reg.Players().Register(id, f.conns[id]); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	return f
}

// seatTable creates a table hosted by the first player and seats the rest.
func (f *fixture) seatTable(t *testing.T, players ...string) *Table {
	t.Helper()
	id, err := f.reg.CreateTable(players[0])
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	for _, p := range players[1:] {
		if err := f.reg.JoinTable(id, p); err != nil {
			t.Fatalf("join %s: %v", p, err)
		}
	}
	tbl, err := f.reg.table(id)
	if err != nil {
		t.Fatalf("table lookup: %v", err)
	}
	return tbl
}

// rig puts the table's match in round with the given hands, seat 0 to play.
func rig(tbl *Table, trump engine.Suit, hands ...[]engine.Card) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	m := tbl.match
	if len(hands) != len(m.Players) {
		panic(fmt.Sprintf("rig: %d hands for %d seats", len(hands), len(m.Players)))
	}
	m.Status = engine.StatusInRound
	m.Round = 1
	m.Table = make([]*engine.Card, len(hands))
	m.Trump = trump
	m.Turn = 0
	for i, h := range hands {
		m.Players[i].Hand = append([]engine.Card(nil), h...)
	}
}

func (tbl *Table) inspect(fn func(m *engine.Match)) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	fn(tbl.match)
}

func card(r engine.Rank, s engine.Suit) engine.Card {
	return engine.Card{Suit: s, Rank: r}
}

func mustPlay(t *testing.T, f *fixture, table, player string, c engine.Card) {
	t.Helper()
	if err := f.reg.PlayCard(table, player, c); err != nil {
		t.Fatalf("%s play %v: %v", player, c, err)
	}
}

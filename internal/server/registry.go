package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tute/internal/bots"
	"tute/internal/config"
	"tute/internal/engine"
	"tute/internal/sched"
)

var (
	ErrTableExists   = errors.New("table already exists")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomNotFound  = errors.New("room not found")
	ErrAlreadySeated = errors.New("player already seated")
	ErrMatchStarted  = errors.New("match already started")
	ErrNotSeated     = errors.New("player not seated at table")
)

// Registry owns every open table, keyed by the host's identity.
type Registry struct {
	mu      sync.Mutex
	tables  map[string]*Table
	cfg     config.Config
	players *Players
	sched   sched.Scheduler
	pub     Publisher
	log     *zap.Logger
	seed    func() int64
}

func NewRegistry(cfg config.Config, players *Players, s sched.Scheduler, pub Publisher, log *zap.Logger) *Registry {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &Registry{
		tables:  map[string]*Table{},
		cfg:     cfg,
		players: players,
		sched:   s,
		pub:     pub,
		log:     log,
		seed:    func() int64 { return time.Now().UnixNano() },
	}
}

func (r *Registry) Players() *Players {
	return r.players
}

// CreateTable opens a table named after host with host in the first seat.
func (r *Registry) CreateTable(host string) (string, error) {
	if _, ok := r.players.Lookup(host); !ok {
		return "", ErrNotRegistered
	}
	r.mu.Lock()
	if _, ok := r.tables[host]; ok {
		r.mu.Unlock()
		return "", ErrTableExists
	}
	t := newTable(r, host, r.seed())
	r.tables[host] = t
	r.mu.Unlock()

	r.log.Info("table created", zap.String("table", host))
	t.mu.Lock()
	t.broadcastLobbyLocked()
	t.mu.Unlock()
	return host, nil
}

func (r *Registry) JoinTable(id, player string) error {
	if _, ok := r.players.Lookup(player); !ok {
		return ErrNotRegistered
	}
	t, err := r.table(id)
	if err != nil {
		return err
	}
	return t.join(player)
}

// AddBot seats a computer player at a queued table. level is "easy" or
// "normal".
func (r *Registry) AddBot(id, requester, level string) (string, error) {
	t, err := r.table(id)
	if err != nil {
		return "", err
	}
	botID := "bot-" + uuid.NewString()[:8]
	var bot bots.Bot
	if level == "easy" {
		bot = bots.NewEasy(r.seed())
	} else {
		bot = bots.NewNormal(r.seed())
	}
	if err := t.addBot(requester, botID, bot); err != nil {
		return "", err
	}
	return botID, nil
}

// BeginMatch deals the first round. It is ignored unless the table is
// queued with an allowed number of seats and requester is seated.
func (r *Registry) BeginMatch(id, requester string) error {
	t, err := r.table(id)
	if err != nil {
		return err
	}
	return t.begin(requester)
}

// PlayCard is ignored unless the card is a legal play for player right now.
func (r *Registry) PlayCard(id, player string, card engine.Card) error {
	t, err := r.table(id)
	if err != nil {
		return err
	}
	return t.play(player, card)
}

// ResolveSing answers the pending sing decision. A nil choice declines. It
// is ignored unless player is the one being asked.
func (r *Registry) ResolveSing(id, player string, choice *engine.Suit) error {
	t, err := r.table(id)
	if err != nil {
		return err
	}
	return t.resolveSing(player, choice)
}

// LeaveTable detaches player from the table, discarding the table when
// nobody connected remains.
func (r *Registry) LeaveTable(id, player string) error {
	t, err := r.table(id)
	if err != nil {
		return err
	}
	t.leave(player)
	return nil
}

// ListOpenTables returns the queued tables that still accept players.
func (r *Registry) ListOpenTables() []TableSummary {
	out := []TableSummary{}
	for _, t := range r.snapshot() {
		if !t.open() {
			continue
		}
		if s, ok := t.summary(); ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) Table(id string) (TableSummary, error) {
	t, err := r.table(id)
	if err != nil {
		return TableSummary{}, err
	}
	s, ok := t.summary()
	if !ok {
		return TableSummary{}, ErrRoomNotFound
	}
	return s, nil
}

// Reconnect binds player to a fresh handle and re-sends the current state
// of every table the player is attached to.
func (r *Registry) Reconnect(player string, n Notifier) error {
	if err := r.players.Reconnect(player, n); err != nil {
		return err
	}
	for _, t := range r.snapshot() {
		t.resend(player)
	}
	return nil
}

// Disconnect unbinds the handle and lets every table react to the loss.
func (r *Registry) Disconnect(n Notifier) {
	player, ok := r.players.Unregister(n)
	if !ok {
		return
	}
	for _, t := range r.snapshot() {
		t.disconnected(player)
	}
}

// Close tears every table down.
func (r *Registry) Close() {
	for _, t := range r.snapshot() {
		t.teardown()
	}
}

func (r *Registry) table(id string) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return t, nil
}

func (r *Registry) snapshot() []*Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	return out
}

func (r *Registry) remove(id string, t *Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tables[id] == t {
		delete(r.tables, id)
	}
}

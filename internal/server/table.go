package server

import (
	"sync"

	"go.uber.org/zap"

	"tute/internal/bots"
	"tute/internal/engine"
	"tute/internal/sched"
)

// maxBotSteps bounds one run of bot moves between human inputs.
const maxBotSteps = 1000

// Table is one room: a match plus the people attached to it. Every inbound
// event for the table, timer callbacks included, runs under mu.
type Table struct {
	mu       sync.Mutex
	id       string
	match    *engine.Match
	members  map[string]bool
	bots     map[string]bots.Bot
	timer    sched.Timer
	timerGen int
	closed   bool
	reg      *Registry
	log      *zap.Logger
}

func newTable(reg *Registry, host string, seed int64) *Table {
	return &Table{
		id:      host,
		match:   engine.NewMatch(reg.cfg.Rules, host, seed),
		members: map[string]bool{host: true},
		bots:    map[string]bots.Bot{},
		reg:     reg,
		log:     reg.log.With(zap.String("table", host)),
	}
}

func (t *Table) join(player string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRoomNotFound
	}
	if t.match.Seat(player) >= 0 {
		if t.match.Status == engine.StatusQueued || t.members[player] {
			return ErrAlreadySeated
		}
		// A seated player coming back to a running match.
		t.members[player] = true
		t.sendStateToLocked(player, nil)
		return nil
	}
	if t.match.Status != engine.StatusQueued {
		return ErrMatchStarted
	}
	if len(t.match.Players) >= t.reg.cfg.RoomFull || !t.match.AddPlayer(player) {
		return ErrRoomFull
	}
	t.members[player] = true
	t.log.Info("player joined", zap.String("player", player), zap.Int("seats", len(t.match.Players)))
	t.broadcastLobbyLocked()
	return nil
}

func (t *Table) addBot(requester string, id string, bot bots.Bot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRoomNotFound
	}
	if t.match.Seat(requester) < 0 {
		return ErrNotSeated
	}
	if t.match.Status != engine.StatusQueued {
		return ErrMatchStarted
	}
	if len(t.match.Players) >= t.reg.cfg.RoomFull || !t.match.AddPlayer(id) {
		return ErrRoomFull
	}
	t.bots[id] = bot
	t.log.Info("bot joined", zap.String("bot", id))
	t.broadcastLobbyLocked()
	return nil
}

func (t *Table) begin(requester string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRoomNotFound
	}
	events, ok := t.match.Begin(requester)
	if !ok {
		t.log.Debug("begin ignored", zap.String("player", requester), zap.Int("seats", len(t.match.Players)))
		return nil
	}
	t.log.Info("match begun", zap.Int("seats", len(t.match.Players)))
	t.broadcastLobbyLocked()
	t.advanceLocked(events)
	return nil
}

func (t *Table) play(player string, card engine.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRoomNotFound
	}
	events, ok := t.match.Play(player, card)
	if !ok {
		t.log.Debug("play ignored", zap.String("player", player), zap.Stringer("card", card))
		return nil
	}
	t.advanceLocked(events)
	return nil
}

func (t *Table) resolveSing(player string, choice *engine.Suit) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrRoomNotFound
	}
	if t.match.PendingFor(player) == nil {
		return nil
	}
	events, ok := t.match.ResolveSing(choice)
	if !ok {
		return nil
	}
	t.advanceLocked(events)
	return nil
}

func (t *Table) settle(gen int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	events, ok := t.match.Settle(gen)
	if !ok {
		return
	}
	t.advanceLocked(events)
}

// leave detaches player from the table. A queued seat is given up; a seat
// in a running match is kept. The table is torn down once nobody connected
// is left attached. It reports whether that happened.
func (t *Table) leave(player string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.members[player] {
		return t.closed
	}
	delete(t.members, player)
	if t.match.Status == engine.StatusQueued {
		t.match.RemovePlayer(player)
	}
	t.log.Info("player left", zap.String("player", player))
	if t.teardownIfEmptyLocked() {
		return true
	}
	t.broadcastLobbyLocked()
	return false
}

// disconnected is called after player's connection went away.
func (t *Table) disconnected(player string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.members[player] {
		return
	}
	t.log.Info("player disconnected", zap.String("player", player))
	if t.match.Status == engine.StatusQueued {
		delete(t.members, player)
		t.match.RemovePlayer(player)
	}
	if t.teardownIfEmptyLocked() {
		return
	}
	if t.match.Status == engine.StatusQueued {
		t.broadcastLobbyLocked()
		return
	}
	t.broadcastStateLocked(nil)
}

// resend pushes the current snapshot to player if attached.
func (t *Table) resend(player string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || !t.members[player] {
		return
	}
	if t.match.Status == engine.StatusQueued {
		t.sendToLocked(player, ServerMessage{Type: "lobby", Table: t.id, Lobby: buildLobby(t.id, t.match)})
		return
	}
	t.sendStateToLocked(player, nil)
	if d := t.match.PendingFor(player); d != nil {
		t.sendToLocked(player, ServerMessage{Type: "sing_prompt", Table: t.id, Prompt: &SingPromptView{Table: t.id, Seat: d.Seat, Offered: suitsToStrings(d.Offered)}})
	}
}

func (t *Table) summary() (TableSummary, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return TableSummary{}, false
	}
	ids := make([]string, 0, len(t.match.Players))
	for _, p := range t.match.Players {
		ids = append(ids, p.ID)
	}
	return TableSummary{
		ID:      t.id,
		Host:    t.id,
		Players: ids,
		Seats:   len(ids),
		Status:  t.match.Status.String(),
	}, true
}

func (t *Table) open() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.match.Status == engine.StatusQueued && len(t.match.Players) < t.reg.cfg.RoomFull
}

func (t *Table) teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardownLocked()
}

func (t *Table) teardownIfEmptyLocked() bool {
	for id := range t.members {
		if _, ok := t.reg.players.Lookup(id); ok {
			return false
		}
	}
	t.teardownLocked()
	return true
}

func (t *Table) teardownLocked() {
	if t.closed {
		return
	}
	t.closed = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.match.Abandon()
	t.reg.remove(t.id, t)
	t.log.Info("table discarded")
}

// advanceLocked publishes the outcome of a transition, arms the settle
// timer and then lets bots move until a human or the timer is due.
func (t *Table) advanceLocked(events []engine.Event) {
	t.dispatchLocked(events)
	for step := 0; step < maxBotSteps; step++ {
		player, ok := engine.CurrentPlayer(t.match)
		if !ok {
			return
		}
		bot, isBot := t.bots[player]
		if !isBot {
			return
		}
		action := bot.ChooseAction(t.match, player)
		next, err := engine.ApplyAction(t.match, player, action)
		if err != nil {
			t.log.Error("bot action rejected", zap.String("bot", player), zap.Error(err))
			return
		}
		t.dispatchLocked(next)
	}
	t.log.Warn("bot step limit reached")
}

func (t *Table) dispatchLocked(events []engine.Event) {
	t.broadcastStateLocked(buildEvents(t.match, events))
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case engine.SingPromptPayload:
			player := t.match.Players[ev.Seat].ID
			t.sendToLocked(player, ServerMessage{Type: "sing_prompt", Table: t.id, Prompt: &SingPromptView{Table: t.id, Seat: ev.Seat, Offered: suitsToStrings(p.Offered)}})
		case engine.RoundResult:
			t.log.Info("round finished", zap.Int("round", p.Round), zap.Stringer("kind", p.Kind), zap.Ints("penalties", p.Penalties))
			t.broadcastLocked(ServerMessage{Type: "round_result", Table: t.id, Result: buildRoundResult(t.match, p)}, true)
		case engine.MatchOverPayload:
			losers := seatIDs(t.match, p.Losers)
			t.log.Info("match over", zap.Strings("losers", losers))
			t.broadcastLocked(ServerMessage{Type: "match_over", Table: t.id, Losers: losers}, true)
		}
		if text, ok := announcement(t.match, ev); ok {
			t.broadcastLocked(ServerMessage{Type: "announcement", Table: t.id, Text: text}, true)
		}
	}
	t.armSettleLocked()
}

func (t *Table) armSettleLocked() {
	s := t.match.Settling
	if s == nil || s.Gen == t.timerGen {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	gen := s.Gen
	t.timerGen = gen
	t.timer = t.reg.sched.AfterFunc(t.reg.cfg.SettleDelay, func() { t.settle(gen) })
}

func (t *Table) broadcastLobbyLocked() {
	t.broadcastLocked(ServerMessage{Type: "lobby", Table: t.id, Lobby: buildLobby(t.id, t.match)}, false)
}

func (t *Table) broadcastStateLocked(events []Event) {
	if t.match.Status == engine.StatusQueued {
		return
	}
	for id := range t.members {
		t.sendStateToLocked(id, events)
	}
}

func (t *Table) sendStateToLocked(player string, events []Event) {
	view := BuildGameView(t.id, t.match, player, t.connectedLocked, t.isBot)
	t.sendToLocked(player, ServerMessage{Type: "state", Table: t.id, State: view, Events: events})
}

func (t *Table) broadcastLocked(msg ServerMessage, publish bool) {
	for id := range t.members {
		t.sendToLocked(id, msg)
	}
	if publish {
		t.reg.pub.Publish(t.id, msg)
	}
}

func (t *Table) sendToLocked(player string, msg ServerMessage) {
	if !t.members[player] {
		return
	}
	if n, ok := t.reg.players.Lookup(player); ok {
		n.Notify(msg)
	}
}

func (t *Table) connectedLocked(player string) bool {
	if _, ok := t.bots[player]; ok {
		return true
	}
	if !t.members[player] {
		return false
	}
	_, ok := t.reg.players.Lookup(player)
	return ok
}

func (t *Table) isBot(player string) bool {
	_, ok := t.bots[player]
	return ok
}

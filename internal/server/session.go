package server

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"tute/internal/engine"
)

type ClientMessage struct {
	Type      string   `json:"type"`
	RequestID string   `json:"requestId,omitempty"`
	Name      string   `json:"name,omitempty"`
	Table     string   `json:"table,omitempty"`
	Card      *CardDTO `json:"card,omitempty"`
	Suit      string   `json:"suit,omitempty"`
	Level     string   `json:"level,omitempty"`
}

type ServerMessage struct {
	Type      string           `json:"type"`
	RequestID string           `json:"requestId,omitempty"`
	Table     string           `json:"table,omitempty"`
	Player    string           `json:"player,omitempty"`
	State     *GameView        `json:"state,omitempty"`
	Events    []Event          `json:"events,omitempty"`
	Prompt    *SingPromptView  `json:"prompt,omitempty"`
	Result    *RoundResultView `json:"result,omitempty"`
	Losers    []string         `json:"losers,omitempty"`
	Text      string           `json:"text,omitempty"`
	Lobby     *LobbyView       `json:"lobby,omitempty"`
	Tables    []TableSummary   `json:"tables,omitempty"`
	Error     *ErrorView       `json:"error,omitempty"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Session is one client connection. Until it registers an identity it can
// only list tables.
type Session struct {
	mu     sync.Mutex
	id     string
	player string
	out    Notifier
	reg    *Registry
	log    *zap.Logger
}

func newSession(id string, out Notifier, reg *Registry, log *zap.Logger) *Session {
	return &Session{id: id, out: out, reg: reg, log: log.With(zap.String("conn", id))}
}

func (s *Session) identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

func (s *Session) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case "register":
		s.register(msg, false)
	case "reconnect":
		s.register(msg, true)
	case "list_tables":
		s.out.Notify(ServerMessage{Type: "tables", RequestID: msg.RequestID, Tables: s.reg.ListOpenTables()})
	case "create_table", "join_table", "leave_table", "begin_match", "add_bot",
		"play_card", "sing", "decline", "request_state":
		player := s.identity()
		if player == "" {
			s.sendError(msg.RequestID, ErrNotRegistered)
			return
		}
		s.handleTableMessage(player, msg)
	default:
		s.sendError(msg.RequestID, errUnknownType)
	}
}

func (s *Session) register(msg ClientMessage, reconnect bool) {
	if s.identity() != "" {
		s.sendError(msg.RequestID, ErrAlreadyRegistered)
		return
	}
	var err error
	if reconnect {
		err = s.reg.Reconnect(msg.Name, s.out)
	} else {
		err = s.reg.Players().Register(msg.Name, s.out)
	}
	if err != nil {
		s.sendError(msg.RequestID, err)
		return
	}
	s.mu.Lock()
	s.player = msg.Name
	s.mu.Unlock()
	s.log.Info("player registered", zap.String("player", msg.Name), zap.Bool("reconnect", reconnect))
	s.out.Notify(ServerMessage{Type: "registered", RequestID: msg.RequestID, Player: msg.Name})
}

func (s *Session) handleTableMessage(player string, msg ClientMessage) {
	var err error
	switch msg.Type {
	case "create_table":
		var id string
		if id, err = s.reg.CreateTable(player); err == nil {
			s.out.Notify(ServerMessage{Type: "table_created", RequestID: msg.RequestID, Table: id})
		}
	case "join_table":
		err = s.reg.JoinTable(msg.Table, player)
	case "leave_table":
		err = s.reg.LeaveTable(msg.Table, player)
	case "begin_match":
		err = s.reg.BeginMatch(msg.Table, player)
	case "add_bot":
		_, err = s.reg.AddBot(msg.Table, player, msg.Level)
	case "play_card":
		if msg.Card == nil {
			err = errBadCard
			break
		}
		var card engine.Card
		if card, err = msg.Card.toEngine(); err != nil {
			err = errBadCard
			break
		}
		err = s.reg.PlayCard(msg.Table, player, card)
	case "sing":
		var suit engine.Suit
		if suit, err = parseSuit(msg.Suit); err != nil {
			err = errBadSuit
			break
		}
		err = s.reg.ResolveSing(msg.Table, player, &suit)
	case "decline":
		err = s.reg.ResolveSing(msg.Table, player, nil)
	case "request_state":
		err = s.reg.Reconnect(player, s.out)
	}
	if err != nil {
		s.sendError(msg.RequestID, err)
	}
}

// close releases the identity when the connection ends.
func (s *Session) close() {
	s.reg.Disconnect(s.out)
	if player := s.identity(); player != "" {
		s.log.Info("player disconnected", zap.String("player", player))
	}
}

var (
	errUnknownType = errors.New("unknown message type")
	errBadCard     = errors.New("invalid card")
	errBadSuit     = errors.New("invalid suit")
	errBadJSON     = errors.New("invalid json")
)

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrTableExists):
		return "room_exists"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrAlreadySeated):
		return "already_seated"
	case errors.Is(err, ErrMatchStarted):
		return "match_started"
	case errors.Is(err, ErrNotSeated):
		return "not_seated"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrInvalidIdentity):
		return "invalid_identity"
	case errors.Is(err, errUnknownType):
		return "unknown_type"
	case errors.Is(err, errBadJSON):
		return "bad_request"
	case errors.Is(err, errBadCard), errors.Is(err, errBadSuit):
		return "bad_action"
	default:
		return "internal"
	}
}

func (s *Session) sendError(requestID string, err error) {
	s.out.Notify(ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Error:     &ErrorView{Code: errorCode(err), Message: err.Error()},
	})
}

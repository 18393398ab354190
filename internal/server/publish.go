package server

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher mirrors table-wide messages to the outside world.
type Publisher interface {
	Publish(tableID string, msg ServerMessage)
}

type NopPublisher struct{}

func (NopPublisher) Publish(string, ServerMessage) {}

// PublishedEvent is the envelope written to the broker.
type PublishedEvent struct {
	ID      string        `json:"id"`
	Table   string        `json:"table"`
	At      int64         `json:"at"`
	Message ServerMessage `json:"message"`
}

type NATSPublisher struct {
	nc  *nats.Conn
	log *zap.Logger
}

func NewNATSPublisher(nc *nats.Conn, log *zap.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, log: log}
}

// BrokerConnect dials the NATS server with reconnects enabled.
func BrokerConnect(url string, log *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("tute-server"),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}
	return nats.Connect(url, opts...)
}

func (p *NATSPublisher) Publish(tableID string, msg ServerMessage) {
	data, err := json.Marshal(PublishedEvent{
		ID:      uuid.NewString(),
		Table:   tableID,
		At:      time.Now().UnixMilli(),
		Message: msg,
	})
	if err != nil {
		p.log.Error("marshal published event", zap.Error(err))
		return
	}
	if err := p.nc.Publish(EventSubject(tableID), data); err != nil {
		p.log.Warn("publish table event", zap.String("table", tableID), zap.Error(err))
	}
}

// ServeTableListing answers table listing requests on TableListSubject.
func ServeTableListing(nc *nats.Conn, reg *Registry, log *zap.Logger) (*nats.Subscription, error) {
	return nc.Subscribe(TableListSubject, func(m *nats.Msg) {
		data, err := json.Marshal(reg.ListOpenTables())
		if err != nil {
			log.Error("marshal table listing", zap.Error(err))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Warn("respond table listing", zap.Error(err))
		}
	})
}

const TableListSubject = "tute.tables.list"

// EventSubject is the subject a table's events are published on. Table ids
// are player names, so characters NATS treats specially are replaced.
func EventSubject(tableID string) string {
	token := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, tableID)
	if token == "" {
		token = "_"
	}
	return "tute.tables." + token + ".events"
}

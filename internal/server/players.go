package server

import (
	"errors"
	"sync"
)

var (
	ErrAlreadyRegistered = errors.New("identity already registered")
	ErrNotRegistered     = errors.New("identity not registered")
	ErrInvalidIdentity   = errors.New("identity must not be empty")
)

// Notifier delivers server messages to one connected player.
type Notifier interface {
	Notify(msg ServerMessage)
}

// Players maps player identities to their current delivery handle.
type Players struct {
	mu   sync.Mutex
	byID map[string]Notifier
}

func NewPlayers() *Players {
	return &Players{byID: map[string]Notifier{}}
}

func (p *Players) Register(id string, n Notifier) error {
	if id == "" {
		return ErrInvalidIdentity
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byID[id]; ok {
		return ErrAlreadyRegistered
	}
	p.byID[id] = n
	return nil
}

// Unregister drops the identity bound to n. It reports the identity, or
// false when n was already replaced by a newer handle.
func (p *Players) Unregister(n Notifier) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, cur := range p.byID {
		if cur == n {
			delete(p.byID, id)
			return id, true
		}
	}
	return "", false
}

// Reconnect binds id to a fresh handle, replacing a stale one if present.
func (p *Players) Reconnect(id string, n Notifier) error {
	if id == "" {
		return ErrInvalidIdentity
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[id] = n
	return nil
}

func (p *Players) Lookup(id string) (Notifier, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.byID[id]
	return n, ok
}

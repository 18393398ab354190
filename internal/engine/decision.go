package engine

// ResolveSing answers the pending sing decision. A nil choice declines.
// It reports false, changing nothing, when no decision is pending or the
// choice was not offered; a second call after a valid one is therefore a
// no-op.
func (m *Match) ResolveSing(choice *Suit) ([]Event, bool) {
	d := m.Pending
	if d == nil {
		return nil, false
	}
	if choice != nil && !hasSuit(d.Offered, *choice) {
		return nil, false
	}
	m.Pending = nil

	var events []Event
	if choice != nil {
		m.Players[d.Seat].Sings = append(m.Players[d.Seat].Sings, *choice)
		events = append(events, Event{Kind: EventSung, Seat: d.Seat, Payload: SungPayload{Suit: *choice}})
	} else {
		events = append(events, Event{Kind: EventSingDeclined, Seat: d.Seat})
	}
	return append(events, m.completeTrick(d.Seat)...), true
}

// Abandon drops any pending decision or settle. Used when the table is torn
// down with a transition still outstanding.
func (m *Match) Abandon() {
	m.Pending = nil
	m.Settling = nil
	m.Waiting = false
}

// PendingFor returns the pending decision when it belongs to playerID.
func (m *Match) PendingFor(playerID string) *PendingDecision {
	if m.Pending == nil {
		return nil
	}
	if seat := m.Seat(playerID); seat != m.Pending.Seat {
		return nil
	}
	return m.Pending
}

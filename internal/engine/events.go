package engine

type EventKind int

const (
	EventRoundDealt EventKind = iota
	EventCardPlayed
	EventTrickComplete
	EventSingPrompt
	EventSung
	EventSingDeclined
	EventTrickWon
	EventRoundResult
	EventMatchOver
)

func (k EventKind) String() string {
	switch k {
	case EventRoundDealt:
		return "round_dealt"
	case EventCardPlayed:
		return "card_played"
	case EventTrickComplete:
		return "trick_complete"
	case EventSingPrompt:
		return "sing_prompt"
	case EventSung:
		return "sung"
	case EventSingDeclined:
		return "sing_declined"
	case EventTrickWon:
		return "trick_won"
	case EventRoundResult:
		return "round_result"
	case EventMatchOver:
		return "match_over"
	default:
		return "unknown"
	}
}

// Event records one observable step of a match. Seat is -1 when the event
// is not about a single seat.
type Event struct {
	Kind    EventKind
	Seat    int
	Payload any
}

type RoundDealtPayload struct {
	Round    int
	Trump    Suit
	Beginner int
}

type CardPlayedPayload struct {
	Card Card
}

type TrickCompletePayload struct {
	Winner  int
	Instant bool
}

type SingPromptPayload struct {
	Offered []Suit
}

type SungPayload struct {
	Suit Suit
}

type TrickWonPayload struct {
	Cards []Card
}

type MatchOverPayload struct {
	Losers []int
}

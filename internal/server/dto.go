package server

import (
	"errors"
	"strconv"

	"tute/internal/engine"
)

type CardDTO struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

func (c CardDTO) toEngine() (engine.Card, error) {
	s, err := parseSuit(c.Suit)
	if err != nil {
		return engine.Card{}, err
	}
	r, err := parseRank(c.Rank)
	if err != nil {
		return engine.Card{}, err
	}
	return engine.Card{Suit: s, Rank: r}, nil
}

func cardToDTO(c engine.Card) *CardDTO {
	return &CardDTO{Suit: suitToString(c.Suit), Rank: c.Rank.String()}
}

func cardsToDTO(cards []engine.Card) []CardDTO {
	out := make([]CardDTO, 0, len(cards))
	for _, c := range cards {
		out = append(out, *cardToDTO(c))
	}
	return out
}

func suitsToStrings(suits []engine.Suit) []string {
	out := make([]string, 0, len(suits))
	for _, s := range suits {
		out = append(out, suitToString(s))
	}
	return out
}

func parseSuit(s string) (engine.Suit, error) {
	switch s {
	case "oros":
		return engine.SuitOros, nil
	case "copas":
		return engine.SuitCopas, nil
	case "espadas":
		return engine.SuitEspadas, nil
	case "bastos":
		return engine.SuitBastos, nil
	default:
		return engine.SuitOros, errors.New("invalid suit")
	}
}

func parseRank(r string) (engine.Rank, error) {
	n, err := strconv.Atoi(r)
	if err != nil || n < 1 || n > len(engine.Ranks) {
		return engine.RankOne, errors.New("invalid rank")
	}
	return engine.Ranks[n-1], nil
}

func suitToString(s engine.Suit) string {
	switch s {
	case engine.SuitOros:
		return "oros"
	case engine.SuitCopas:
		return "copas"
	case engine.SuitEspadas:
		return "espadas"
	case engine.SuitBastos:
		return "bastos"
	default:
		return "?"
	}
}

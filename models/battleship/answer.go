package battleship

import (
	"fmt"

	cerr "github.com/Machurui/longship/internal/error"
)

// Attack status codes as shown to clients
const (
	AnswerStatusMiss uint8 = iota
	AnswerStatusHit
	AnswerStatusSunk
)

type Answer struct {
	Coord  Coordinates `json:"coord"`
	Damage Damage      `json:"damage"`
	Sunk   bool        `json:"sunk"`
}

func NewAnswer(coord Coordinates, damage Damage, sunk bool) Answer {
	return Answer{Coord: coord, Damage: damage, Sunk: sunk}
}

// NewAnswerFromStatus builds the answer an operator gives
// with the miss / hit / sunk buttons.
func NewAnswerFromStatus(coord Coordinates, status uint8) (Answer, error) {
	switch status {
	case AnswerStatusMiss:
		return NewAnswer(coord, DamageNone, false), nil
	case AnswerStatusHit:
		return NewAnswer(coord, DamageHit, false), nil
	case AnswerStatusSunk:
		return NewAnswer(coord, DamageHit, true), nil
	default:
		return Answer{}, cerr.ErrUnexpectedAnswer(fmt.Sprintf("unknown answer status %d", status))
	}
}

func (a Answer) Status() uint8 {
	switch {
	case a.Sunk:
		return AnswerStatusSunk
	case a.Damage == DamageHit:
		return AnswerStatusHit
	default:
		return AnswerStatusMiss
	}
}

func (a Answer) IsHit() bool {
	return a.Damage == DamageHit
}

// Validate checks the answer is well formed. It says nothing
// about whether the answer is truthful.
func (a Answer) Validate() error {
	if a.Damage != DamageNone && a.Damage != DamageHit {
		return cerr.ErrUnexpectedAnswer(fmt.Sprintf("unknown damage %d", a.Damage))
	}
	if a.Sunk && a.Damage != DamageHit {
		return cerr.ErrUnexpectedAnswer("sunk answer must be a hit")
	}
	return nil
}

func (a Answer) String() string {
	s := fmt.Sprintf("%s : %s", a.Coord, a.Damage)
	if a.Sunk {
		s += ", SUNK!"
	}
	return s
}

package battleship

import (
	"sync"

	cerr "github.com/Machurui/longship/internal/error"
)

type OpponentKind uint8

const (
	OpponentHuman OpponentKind = iota
	OpponentBot
)

func (k OpponentKind) String() string {
	if k == OpponentBot {
		return "bot"
	}
	return "human"
}

// Opponent is the decision logic of one side. It only reasons from the
// coordinates and answers it has sent or received, never from the other
// side's board.
type Opponent interface {
	Kind() OpponentKind
	AnswerAttack(c Coordinates) (Answer, error)
	ChooseNextAttack(history []AttackRecord) (Coordinates, error)
}

// HumanOpponent relays the decisions of a human operator. The transport
// stages the operator's input, the game consumes it through the Opponent
// methods. With a board the human's answers are computed by the server.
type HumanOpponent struct {
	mu     sync.Mutex
	board  *Board
	answer *Answer
	attack *Coordinates
}

var _ Opponent = (*HumanOpponent)(nil)

func NewHumanOpponent() *HumanOpponent {
	return &HumanOpponent{}
}

func NewAutoAnswerHumanOpponent(board *Board) *HumanOpponent {
	return &HumanOpponent{board: board}
}

func (h *HumanOpponent) Kind() OpponentKind {
	return OpponentHuman
}

// AnswersAutomatically reports whether the server answers on the human's behalf.
func (h *HumanOpponent) AnswersAutomatically() bool {
	return h.board != nil
}

// Board is nil unless the server answers for the human.
func (h *HumanOpponent) Board() *Board {
	return h.board
}

func (h *HumanOpponent) StageAnswer(a Answer) {
	h.mu.Lock()
	h.answer = &a
	h.mu.Unlock()
}

func (h *HumanOpponent) StageAttack(c Coordinates) {
	h.mu.Lock()
	h.attack = &c
	h.mu.Unlock()
}

// AnswerAttack hands back the staged answer as is. Whether it matches the
// attack is for the match to decide.
func (h *HumanOpponent) AnswerAttack(c Coordinates) (Answer, error) {
	if h.board != nil {
		return h.board.Answer(c)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.answer == nil {
		return Answer{}, cerr.ErrAwaitingInput
	}
	a := *h.answer
	h.answer = nil
	return a, nil
}

func (h *HumanOpponent) ChooseNextAttack(history []AttackRecord) (Coordinates, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attack == nil {
		return Coordinates{}, cerr.ErrAwaitingInput
	}
	c := *h.attack
	h.attack = nil
	return c, nil
}

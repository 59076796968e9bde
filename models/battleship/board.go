package battleship

import (
	cerr "github.com/Machurui/longship/internal/error"
)

// Board is the ground truth a side keeps secret: its own grid and fleet.
type Board struct {
	grid     Grid
	fleet    Fleet
	answered map[Coordinates]struct{}
}

func NewBoard(catalogue Catalogue, gridSize int, placements []Placement) (*Board, error) {
	fleet, grid, err := NewFleet(catalogue, gridSize, placements)
	if err != nil {
		return nil, err
	}

	return &Board{
		grid:     grid,
		fleet:    fleet,
		answered: make(map[Coordinates]struct{}, gridSize*gridSize),
	}, nil
}

// Answer tells the truth about an incoming attack at c and
// records the damage on the board.
func (b *Board) Answer(c Coordinates) (Answer, error) {
	cell, err := b.grid.Cell(c)
	if err != nil {
		return Answer{}, err
	}
	if _, prs := b.answered[c]; prs {
		return Answer{}, cerr.ErrDefenceGridPositionAlreadyHit(c.Row, c.Column)
	}
	b.answered[c] = struct{}{}

	if cell.Presence != PresenceBoat {
		return NewAnswer(c, DamageNone, false), nil
	}

	if err := b.grid.ApplyDamage(c, DamageHit); err != nil {
		return Answer{}, err
	}

	ship, ok := b.fleet.ShipAt(c)
	if !ok {
		// boat cell with no ship breaks the grid invariant
		return Answer{}, cerr.ErrUnexpectedAnswer("boat cell without a ship at " + c.String())
	}
	return NewAnswer(c, DamageHit, ship.GotHit(c)), nil
}

func (b *Board) Grid() Grid {
	return b.grid.Clone()
}

func (b *Board) Fleet() Fleet {
	return b.fleet
}

func (b *Board) Size() int {
	return b.grid.Size()
}

func (b *Board) IsDefeated() bool {
	return b.fleet.AllSunk()
}

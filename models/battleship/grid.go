package battleship

import (
	cerr "github.com/Machurui/longship/internal/error"
)

type Presence uint8

const (
	PresenceWater Presence = iota
	PresenceBoat

	// Only used in a known grid of the opponent
	PresenceUnknown
)

func (p Presence) String() string {
	switch p {
	case PresenceWater:
		return "water"
	case PresenceBoat:
		return "boat"
	default:
		return "unknown"
	}
}

type Damage uint8

const (
	DamageNone Damage = iota
	DamageHit
)

func (d Damage) String() string {
	if d == DamageHit {
		return "hit"
	}
	return "none"
}

type Cell struct {
	Presence Presence `json:"presence"`
	Damage   Damage   `json:"damage"`
}

type Grid [][]Cell

// Creates a new square grid where every cell is
// {defaultPresence, DamageNone}
func NewGrid(gridSize int, defaultPresence Presence) Grid {
	grid := make(Grid, gridSize)

	for i := 0; i < gridSize; i++ {
		grid[i] = make([]Cell, gridSize)
		for j := range grid[i] {
			grid[i][j] = Cell{Presence: defaultPresence, Damage: DamageNone}
		}
	}
	return grid
}

func (g Grid) Size() int {
	return len(g)
}

func (g Grid) InBounds(c Coordinates) bool {
	return c.Row >= 0 && c.Row < len(g) && c.Column >= 0 && c.Column < len(g)
}

func (g Grid) Cell(c Coordinates) (Cell, error) {
	if !g.InBounds(c) {
		return Cell{}, cerr.ErrXorYOutOfGridBound(c.Row, c.Column)
	}
	return g[c.Row][c.Column], nil
}

// PlaceShip sets boat presence on every coordinate the ship occupies.
// Nothing is written unless all coordinates are free and in bound.
func (g Grid) PlaceShip(ship *Ship) error {
	coords := ship.Coordinates()

	for _, c := range coords {
		if !g.InBounds(c) {
			return cerr.ErrXorYOutOfGridBound(c.Row, c.Column)
		}
		if g[c.Row][c.Column].Presence == PresenceBoat {
			return cerr.ErrShipOverlap(c.Row, c.Column)
		}
	}

	for _, c := range coords {
		g[c.Row][c.Column].Presence = PresenceBoat
	}
	return nil
}

func (g Grid) ApplyDamage(c Coordinates, damage Damage) error {
	if !g.InBounds(c) {
		return cerr.ErrXorYOutOfGridBound(c.Row, c.Column)
	}
	g[c.Row][c.Column].Damage = damage
	return nil
}

// reveal records what an answer told about a cell of the opponent's grid.
func (g Grid) reveal(a Answer) {
	presence := PresenceWater
	if a.Damage == DamageHit {
		presence = PresenceBoat
	}
	g[a.Coord.Row][a.Coord.Column] = Cell{Presence: presence, Damage: DamageHit}
}

func (g Grid) CountPresence(p Presence) int {
	var n int
	for i := range g {
		for _, cell := range g[i] {
			if cell.Presence == p {
				n++
			}
		}
	}
	return n
}

func (g Grid) Clone() Grid {
	clone := make(Grid, len(g))
	for i := range g {
		clone[i] = make([]Cell, len(g[i]))
		copy(clone[i], g[i])
	}
	return clone
}

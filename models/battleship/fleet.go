package battleship

import (
	"errors"
	"math/rand"
	"sort"

	cerr "github.com/Machurui/longship/internal/error"
)

const maxRandomPlacementTries = 10000

type Placement struct {
	Type        ShipType
	Anchor      Coordinates
	Orientation Orientation
}

func NewPlacement(shipType ShipType, row, column int, orientation Orientation) Placement {
	return Placement{Type: shipType, Anchor: NewCoordinates(row, column), Orientation: orientation}
}

func invalidPlacement(p Placement, err error) error {
	return &cerr.InvalidPlacementError{
		Ship:   p.Type.String(),
		Row:    p.Anchor.Row,
		Column: p.Anchor.Column,
		Err:    err,
	}
}

// Fleet holds exactly one ship instance per catalogue type.
type Fleet map[ShipType]*Ship

// NewFleet validates the placements against the catalogue and the grid
// bounds and returns the fleet together with its populated grid.
func NewFleet(catalogue Catalogue, gridSize int, placements []Placement) (Fleet, Grid, error) {
	counts := make(map[ShipType]int, len(catalogue))
	for _, p := range placements {
		if _, ok := catalogue[p.Type]; !ok {
			return nil, nil, invalidPlacement(p, cerr.ErrUnknownShipType(p.Type.String()))
		}
		counts[p.Type]++
		if counts[p.Type] > 1 {
			return nil, nil, invalidPlacement(p, cerr.ErrShipCountMismatch(p.Type.String(), counts[p.Type]))
		}
	}
	for _, st := range catalogue.Types() {
		if counts[st] != 1 {
			return nil, nil, invalidPlacement(Placement{Type: st}, cerr.ErrShipCountMismatch(st.String(), counts[st]))
		}
	}

	grid := NewGrid(gridSize, PresenceWater)
	fleet := make(Fleet, len(catalogue))
	for _, p := range placements {
		ship := NewShip(p.Type, catalogue[p.Type], p.Anchor, p.Orientation)
		if err := grid.PlaceShip(ship); err != nil {
			return nil, nil, invalidPlacement(p, err)
		}
		fleet[p.Type] = ship
	}

	return fleet, grid, nil
}

// ShipAt returns the ship occupying c, if any.
func (f Fleet) ShipAt(c Coordinates) (*Ship, bool) {
	for _, ship := range f {
		if ship.Occupies(c) {
			return ship, true
		}
	}
	return nil, false
}

func (f Fleet) SunkCount() int {
	var n int
	for _, ship := range f {
		if ship.IsSunk() {
			n++
		}
	}
	return n
}

func (f Fleet) AllSunk() bool {
	return f.SunkCount() == len(f)
}

// RandomPlacements places the catalogue ships at random, longest first,
// retrying on collisions.
func RandomPlacements(catalogue Catalogue, gridSize int, rng *rand.Rand) ([]Placement, error) {
	types := catalogue.Types()
	sort.SliceStable(types, func(i, j int) bool { return catalogue[types[i]] > catalogue[types[j]] })

	grid := NewGrid(gridSize, PresenceWater)
	placements := make([]Placement, 0, len(types))
	tries := 0

	for _, st := range types {
		for {
			if tries > maxRandomPlacementTries {
				return nil, errors.New("failed to place ships randomly")
			}
			tries++

			p := Placement{
				Type:        st,
				Anchor:      NewCoordinates(rng.Intn(gridSize), rng.Intn(gridSize)),
				Orientation: Orientation(rng.Intn(2)),
			}
			if err := grid.PlaceShip(NewShip(st, catalogue[st], p.Anchor, p.Orientation)); err != nil {
				continue
			}
			placements = append(placements, p)
			break
		}
	}
	return placements, nil
}

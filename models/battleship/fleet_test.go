package battleship

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/Machurui/longship/internal/error"
)

// one ship per even row, all anchored on the first column
func defaultPlacements() []Placement {
	return []Placement{
		NewPlacement(ShipCarrier, 0, 0, OrientationHorizontal),
		NewPlacement(ShipBattleship, 2, 0, OrientationHorizontal),
		NewPlacement(ShipCruiser, 4, 0, OrientationHorizontal),
		NewPlacement(ShipSubmarine, 6, 0, OrientationHorizontal),
		NewPlacement(ShipDestroyer, 8, 0, OrientationHorizontal),
	}
}

func TestNewFleet(t *testing.T) {
	catalogue := DefaultCatalogue()

	fleet, grid, err := NewFleet(catalogue, GridSizeNormal, defaultPlacements())
	require.NoError(t, err)

	assert.Len(t, fleet, 5)
	assert.Equal(t, catalogue.TotalLength(), grid.CountPresence(PresenceBoat))
	assert.Equal(t, 0, fleet.SunkCount())
	assert.False(t, fleet.AllSunk())

	ship, ok := fleet.ShipAt(NewCoordinates(2, 3))
	require.True(t, ok)
	assert.Equal(t, ShipBattleship, ship.Type)

	_, ok = fleet.ShipAt(NewCoordinates(1, 0))
	assert.False(t, ok)
}

func TestNewFleetInvalidPlacements(t *testing.T) {
	tests := []struct {
		name        string
		placements  []Placement
		expectedErr error
	}{
		{
			name:        "missing ship",
			placements:  defaultPlacements()[:4],
			expectedErr: cerr.ErrInvalidPlacement,
		},
		{
			name:        "duplicate ship",
			placements:  append(defaultPlacements(), NewPlacement(ShipDestroyer, 9, 5, OrientationHorizontal)),
			expectedErr: cerr.ErrInvalidPlacement,
		},
		{
			name: "out of bounds",
			placements: append(defaultPlacements()[:4],
				NewPlacement(ShipDestroyer, 9, 9, OrientationHorizontal)),
			expectedErr: cerr.ErrOutOfBounds,
		},
		{
			name: "overlap",
			placements: append(defaultPlacements()[:4],
				NewPlacement(ShipDestroyer, 5, 2, OrientationVertical)),
			expectedErr: cerr.ErrOverlap,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := NewFleet(DefaultCatalogue(), GridSizeNormal, test.placements)
			require.Error(t, err)

			var placementErr *cerr.InvalidPlacementError
			assert.True(t, errors.As(err, &placementErr))
			assert.True(t, errors.Is(err, cerr.ErrInvalidPlacement))
			assert.True(t, errors.Is(err, test.expectedErr))
		})
	}
}

func TestNewFleetUnknownShip(t *testing.T) {
	catalogue := Catalogue{ShipDestroyer: 2}

	_, _, err := NewFleet(catalogue, 4, []Placement{
		NewPlacement(ShipDestroyer, 0, 0, OrientationHorizontal),
		NewPlacement(ShipCarrier, 1, 0, OrientationHorizontal),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, cerr.ErrInvalidPlacement))
	assert.Contains(t, err.Error(), "carrier")
}

func TestRandomPlacementsAreValid(t *testing.T) {
	catalogue := DefaultCatalogue()

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))

		placements, err := RandomPlacements(catalogue, GridSizeNormal, rng)
		require.NoError(t, err)

		_, grid, err := NewFleet(catalogue, GridSizeNormal, placements)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, catalogue.TotalLength(), grid.CountPresence(PresenceBoat))
	}
}

func TestShipSunkOnlyWhenEveryCellIsHit(t *testing.T) {
	ship := NewShip(ShipCruiser, 3, NewCoordinates(1, 1), OrientationVertical)

	assert.False(t, ship.GotHit(NewCoordinates(1, 1)))
	assert.False(t, ship.GotHit(NewCoordinates(3, 1)))
	assert.Equal(t, 1, ship.RemainingCells())

	// a repeated hit does not count twice
	assert.False(t, ship.GotHit(NewCoordinates(3, 1)))
	assert.True(t, ship.GotHit(NewCoordinates(2, 1)))
	assert.True(t, ship.IsSunk())
	assert.Equal(t, []Coordinates{{1, 1}, {2, 1}, {3, 1}}, ship.GetHitCoordinates())
}

func TestParseShipType(t *testing.T) {
	st, err := ParseShipType(" Carrier ")
	require.NoError(t, err)
	assert.Equal(t, ShipCarrier, st)

	_, err = ParseShipType("canoe")
	assert.Error(t, err)
}

package battleship

import (
	"sort"
	"strings"

	cerr "github.com/Machurui/longship/internal/error"
)

type ShipType uint8

const (
	ShipCarrier ShipType = iota + 1
	ShipBattleship
	ShipCruiser
	ShipSubmarine
	ShipDestroyer
)

var shipTypeNames = map[ShipType]string{
	ShipCarrier:    "carrier",
	ShipBattleship: "battleship",
	ShipCruiser:    "cruiser",
	ShipSubmarine:  "submarine",
	ShipDestroyer:  "destroyer",
}

func (st ShipType) String() string {
	if name, ok := shipTypeNames[st]; ok {
		return name
	}
	return "unknown"
}

func ParseShipType(name string) (ShipType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for st, n := range shipTypeNames {
		if n == name {
			return st, nil
		}
	}
	return 0, cerr.ErrUnknownShipType(name)
}

type Orientation uint8

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

// Catalogue maps every ship type of a fleet to its length.
type Catalogue map[ShipType]int

func DefaultCatalogue() Catalogue {
	return Catalogue{
		ShipCarrier:    5,
		ShipBattleship: 4,
		ShipCruiser:    3,
		ShipSubmarine:  3,
		ShipDestroyer:  2,
	}
}

// Types returns the catalogue ship types in a stable order.
func (c Catalogue) Types() []ShipType {
	types := make([]ShipType, 0, len(c))
	for st := range c {
		types = append(types, st)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (c Catalogue) TotalLength() int {
	var total int
	for _, length := range c {
		total += length
	}
	return total
}

type Ship struct {
	Type           ShipType
	Anchor         Coordinates
	Orientation    Orientation
	length         int
	hitCoordinates map[Coordinates]struct{}
}

func NewShip(shipType ShipType, length int, anchor Coordinates, orientation Orientation) *Ship {
	return &Ship{
		Type:           shipType,
		Anchor:         anchor,
		Orientation:    orientation,
		length:         length,
		hitCoordinates: make(map[Coordinates]struct{}, length),
	}
}

func (sh *Ship) Length() int {
	return sh.length
}

// Coordinates returns the cells occupied from the anchor along the orientation.
func (sh *Ship) Coordinates() []Coordinates {
	coords := make([]Coordinates, sh.length)
	for i := 0; i < sh.length; i++ {
		if sh.Orientation == OrientationHorizontal {
			coords[i] = NewCoordinates(sh.Anchor.Row, sh.Anchor.Column+i)
		} else {
			coords[i] = NewCoordinates(sh.Anchor.Row+i, sh.Anchor.Column)
		}
	}
	return coords
}

func (sh *Ship) Occupies(c Coordinates) bool {
	if sh.Orientation == OrientationHorizontal {
		return c.Row == sh.Anchor.Row && c.Column >= sh.Anchor.Column && c.Column < sh.Anchor.Column+sh.length
	}
	return c.Column == sh.Anchor.Column && c.Row >= sh.Anchor.Row && c.Row < sh.Anchor.Row+sh.length
}

// GotHit records a hit and reports whether it sank the ship.
func (sh *Ship) GotHit(c Coordinates) bool {
	sh.hitCoordinates[c] = struct{}{}
	return sh.IsSunk()
}

func (sh *Ship) IsSunk() bool {
	return len(sh.hitCoordinates) == sh.length
}

func (sh *Ship) RemainingCells() int {
	return sh.length - len(sh.hitCoordinates)
}

func (sh *Ship) GetHitCoordinates() []Coordinates {
	coords := make([]Coordinates, 0, len(sh.hitCoordinates))
	for c := range sh.hitCoordinates {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

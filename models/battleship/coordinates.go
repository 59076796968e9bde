package battleship

import "fmt"

type Coordinates struct {
	Row    int `json:"row" mapstructure:"row"`
	Column int `json:"column" mapstructure:"column"`
}

func NewCoordinates(row, column int) Coordinates {
	return Coordinates{Row: row, Column: column}
}

// Less orders coordinates row-major.
func (c Coordinates) Less(other Coordinates) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Column < other.Column
}

// String renders the board label, e.g. B3 for row 1 column 2.
func (c Coordinates) String() string {
	if c.Row < 0 || c.Row >= 26 {
		return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
	}
	return fmt.Sprintf("%c%d", 'A'+rune(c.Row), c.Column+1)
}

func (c Coordinates) neighbours() []Coordinates {
	return []Coordinates{
		{Row: c.Row - 1, Column: c.Column},
		{Row: c.Row + 1, Column: c.Column},
		{Row: c.Row, Column: c.Column - 1},
		{Row: c.Row, Column: c.Column + 1},
	}
}

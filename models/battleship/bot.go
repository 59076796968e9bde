package battleship

import (
	"math/rand"
	"sort"

	cerr "github.com/Machurui/longship/internal/error"
)

// BotOpponent answers truthfully from its own secret board and hunts
// the other fleet: random parity shots until a hit, then the neighbours
// of hits that are not yet part of a sunk ship.
// Not safe for concurrent use.
type BotOpponent struct {
	board         *Board
	gridSize      int
	maxShipLength int
	rng           *rand.Rand
}

var _ Opponent = (*BotOpponent)(nil)

// NewBotOpponent places the bot fleet at random.
func NewBotOpponent(rules Rules, rng *rand.Rand) (*BotOpponent, error) {
	placements, err := RandomPlacements(rules.Catalogue, rules.GridSize, rng)
	if err != nil {
		return nil, err
	}

	board, err := NewBoard(rules.Catalogue, rules.GridSize, placements)
	if err != nil {
		return nil, err
	}
	return NewBotOpponentWithBoard(board, rng), nil
}

// Both sides play the same catalogue, so the bot's own fleet tells how
// long the other side's ships can be.
func NewBotOpponentWithBoard(board *Board, rng *rand.Rand) *BotOpponent {
	var maxShipLength int
	for _, ship := range board.Fleet() {
		if ship.Length() > maxShipLength {
			maxShipLength = ship.Length()
		}
	}

	return &BotOpponent{
		board:         board,
		gridSize:      board.Size(),
		maxShipLength: maxShipLength,
		rng:           rng,
	}
}

func (b *BotOpponent) Kind() OpponentKind {
	return OpponentBot
}

func (b *BotOpponent) Board() *Board {
	return b.board
}

func (b *BotOpponent) AnswerAttack(c Coordinates) (Answer, error) {
	return b.board.Answer(c)
}

// ChooseNextAttack expects the bot's own attacks, oldest first.
func (b *BotOpponent) ChooseNextAttack(history []AttackRecord) (Coordinates, error) {
	attacked := make(map[Coordinates]struct{}, len(history))
	hits := make(map[Coordinates]struct{})
	for _, r := range history {
		attacked[r.Coord] = struct{}{}
		if !r.Answer.IsHit() {
			continue
		}

		// only hits known when the ship sank can belong to it
		hits[r.Coord] = struct{}{}
		if r.Answer.Sunk {
			b.resolveSunk(r.Coord, hits)
		}
	}

	if c, ok := b.target(hits, attacked); ok {
		return c, nil
	}
	return b.hunt(attacked)
}

func (b *BotOpponent) inBounds(c Coordinates) bool {
	return c.Row >= 0 && c.Row < b.gridSize && c.Column >= 0 && c.Column < b.gridSize
}

// resolveSunk drops the hits of the ship sunk at c: the straight run of
// hits through c on its longest axis. A run longer than any ship mixes in
// another ship, so then only c is dropped.
func (b *BotOpponent) resolveSunk(c Coordinates, hits map[Coordinates]struct{}) {
	line := hitRun(c, 0, 1, hits)
	if vertical := hitRun(c, 1, 0, hits); len(vertical) > len(line) {
		line = vertical
	}
	if len(line) > b.maxShipLength {
		line = []Coordinates{c}
	}

	for _, h := range line {
		delete(hits, h)
	}
}

func hitRun(c Coordinates, dRow, dColumn int, hits map[Coordinates]struct{}) []Coordinates {
	line := []Coordinates{c}
	for _, sign := range []int{-1, 1} {
		next := NewCoordinates(c.Row+sign*dRow, c.Column+sign*dColumn)
		for {
			if _, prs := hits[next]; !prs {
				break
			}
			line = append(line, next)
			next = NewCoordinates(next.Row+sign*dRow, next.Column+sign*dColumn)
		}
	}
	return line
}

func (b *BotOpponent) target(hits, attacked map[Coordinates]struct{}) (Coordinates, bool) {
	liveHits := make([]Coordinates, 0, len(hits))
	for c := range hits {
		liveHits = append(liveHits, c)
	}
	sort.Slice(liveHits, func(i, j int) bool { return liveHits[i].Less(liveHits[j]) })

	var (
		best      []Coordinates
		bestScore int
	)
	for _, h := range liveHits {
		for _, n := range h.neighbours() {
			if !b.inBounds(n) {
				continue
			}
			if _, prs := attacked[n]; prs {
				continue
			}

			// extending a line of hits beats a lone neighbour
			score := 1
			behind := NewCoordinates(2*h.Row-n.Row, 2*h.Column-n.Column)
			if _, prs := hits[behind]; prs {
				score = 2
			}

			switch {
			case score > bestScore:
				best = []Coordinates{n}
				bestScore = score
			case score == bestScore:
				best = append(best, n)
			}
		}
	}

	if len(best) == 0 {
		return Coordinates{}, false
	}
	return best[b.rng.Intn(len(best))], true
}

func (b *BotOpponent) hunt(attacked map[Coordinates]struct{}) (Coordinates, error) {
	var parity, others []Coordinates
	for row := 0; row < b.gridSize; row++ {
		for column := 0; column < b.gridSize; column++ {
			c := NewCoordinates(row, column)
			if _, prs := attacked[c]; prs {
				continue
			}
			if (row+column)%2 == 0 {
				parity = append(parity, c)
			} else {
				others = append(others, c)
			}
		}
	}

	switch {
	case len(parity) > 0:
		return parity[b.rng.Intn(len(parity))], nil
	case len(others) > 0:
		return others[b.rng.Intn(len(others))], nil
	}
	return Coordinates{}, cerr.ErrNoTargetsLeft
}

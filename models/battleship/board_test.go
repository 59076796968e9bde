package battleship

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/Machurui/longship/internal/error"
)

func TestBoardAnswerSinksCruiser(t *testing.T) {
	catalogue := Catalogue{ShipCruiser: 3}
	board, err := NewBoard(catalogue, 10, []Placement{NewPlacement(ShipCruiser, 0, 0, OrientationHorizontal)})
	require.NoError(t, err)

	tests := []struct {
		coord    Coordinates
		expected Answer
	}{
		{coord: NewCoordinates(0, 0), expected: NewAnswer(NewCoordinates(0, 0), DamageHit, false)},
		{coord: NewCoordinates(0, 1), expected: NewAnswer(NewCoordinates(0, 1), DamageHit, false)},
		{coord: NewCoordinates(0, 2), expected: NewAnswer(NewCoordinates(0, 2), DamageHit, true)},
	}

	for _, test := range tests {
		answer, err := board.Answer(test.coord)
		require.NoError(t, err)
		assert.Equal(t, test.expected, answer)
	}

	assert.Equal(t, 1, board.Fleet().SunkCount())
	assert.True(t, board.IsDefeated())
}

func TestBoardAnswerWaterIsMiss(t *testing.T) {
	board, err := NewBoard(DefaultCatalogue(), GridSizeNormal, defaultPlacements())
	require.NoError(t, err)

	answer, err := board.Answer(NewCoordinates(1, 1))
	require.NoError(t, err)
	assert.Equal(t, NewAnswer(NewCoordinates(1, 1), DamageNone, false), answer)
	assert.Equal(t, AnswerStatusMiss, answer.Status())
}

func TestBoardSingleCellShipSunkOnFirstHit(t *testing.T) {
	board, err := NewBoard(Catalogue{ShipDestroyer: 1}, 3, []Placement{NewPlacement(ShipDestroyer, 1, 1, OrientationVertical)})
	require.NoError(t, err)

	answer, err := board.Answer(NewCoordinates(1, 1))
	require.NoError(t, err)
	assert.True(t, answer.IsHit())
	assert.True(t, answer.Sunk)
}

func TestBoardAnswerTwice(t *testing.T) {
	board, err := NewBoard(DefaultCatalogue(), GridSizeNormal, defaultPlacements())
	require.NoError(t, err)

	_, err = board.Answer(NewCoordinates(0, 0))
	require.NoError(t, err)

	_, err = board.Answer(NewCoordinates(0, 0))
	assert.True(t, errors.Is(err, cerr.ErrAlreadyAnswered))

	_, err = board.Answer(NewCoordinates(10, 0))
	assert.True(t, errors.Is(err, cerr.ErrOutOfBounds))
}

func TestBoardGridIsACopy(t *testing.T) {
	board, err := NewBoard(DefaultCatalogue(), GridSizeNormal, defaultPlacements())
	require.NoError(t, err)

	grid := board.Grid()
	grid[0][0].Damage = DamageHit

	assert.Equal(t, DamageNone, board.Grid()[0][0].Damage)
}

func TestAnswerFromStatus(t *testing.T) {
	c := NewCoordinates(3, 4)

	tests := []struct {
		status   uint8
		expected Answer
	}{
		{status: AnswerStatusMiss, expected: NewAnswer(c, DamageNone, false)},
		{status: AnswerStatusHit, expected: NewAnswer(c, DamageHit, false)},
		{status: AnswerStatusSunk, expected: NewAnswer(c, DamageHit, true)},
	}

	for _, test := range tests {
		answer, err := NewAnswerFromStatus(c, test.status)
		require.NoError(t, err)
		assert.Equal(t, test.expected, answer)
		assert.Equal(t, test.status, answer.Status())
	}

	_, err := NewAnswerFromStatus(c, 3)
	assert.True(t, errors.Is(err, cerr.ErrProtocolViolation))
}

func TestAnswerValidate(t *testing.T) {
	assert.NoError(t, NewAnswer(NewCoordinates(0, 0), DamageHit, true).Validate())
	assert.True(t, errors.Is(NewAnswer(NewCoordinates(0, 0), DamageNone, true).Validate(), cerr.ErrProtocolViolation))
	assert.True(t, errors.Is(NewAnswer(NewCoordinates(0, 0), Damage(7), false).Validate(), cerr.ErrProtocolViolation))
	assert.Equal(t, "A1 : hit, SUNK!", NewAnswer(NewCoordinates(0, 0), DamageHit, true).String())
}

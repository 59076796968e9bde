package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed = "attack operation failed"
	ConstErrAnswerFailed = "answer operation failed"
)

var (
	ErrOutOfBounds       = errors.New("coordinates out of grid bound")
	ErrOverlap           = errors.New("ship overlaps another ship")
	ErrInvalidPlacement  = errors.New("invalid fleet placement")
	ErrDuplicateAttack   = errors.New("coordinates already attacked")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrNotYourTurn       = errors.New("not the turn of this side")
	ErrMatchOver         = errors.New("match is over")
	ErrMatchNotStarted   = errors.New("match has not started")
	ErrAlreadyAnswered   = errors.New("coordinates already answered")
	ErrAwaitingInput     = errors.New("no staged input from the operator")
	ErrNoTargetsLeft     = errors.New("no coordinates left to attack")
	ErrInvalidRules      = errors.New("invalid match rules")
)

// InvalidPlacementError carries the placement that broke the grid invariant.
type InvalidPlacementError struct {
	Ship   string
	Row    int
	Column int
	Err    error
}

func (e *InvalidPlacementError) Error() string {
	return fmt.Sprintf("%s: ship %s at row: %d\tcolumn: %d: %v", ErrInvalidPlacement, e.Ship, e.Row, e.Column, e.Err)
}

func (e *InvalidPlacementError) Unwrap() []error {
	return []error{ErrInvalidPlacement, e.Err}
}

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("player with this uuid does not exist, uuid: %s", playerUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrSessionWithoutGame(sessionId string) error {
	return fmt.Errorf("session has not created or joined a game, id: %s", sessionId)
}

func ErrRematchNotCalled(gameUuid string) error {
	return fmt.Errorf("no rematch was called in this game, uuid: %s", gameUuid)
}

func ErrRematchAlreadyCalled(gameUuid string) error {
	return fmt.Errorf("rematch was already called in this game, uuid: %s", gameUuid)
}

func ErrGameIsFull(gameUuid string) error {
	return fmt.Errorf("game already has two players, uuid: %s", gameUuid)
}

func ErrInvalidGameDifficulty() error {
	return fmt.Errorf("game difficulty must be easy, normal or hard")
}

func ErrInvalidGameMode() error {
	return fmt.Errorf("game mode must be duel or bot")
}

func ErrNilPayload() error {
	return fmt.Errorf("the payload is nil and is not of type map")
}

func ErrDecodePayload(err error) error {
	return fmt.Errorf("failed to decode payload: %w", err)
}

func ErrXorYOutOfGridBound(row, column int) error {
	return fmt.Errorf("%w\trow: %d\tcolumn: %d", ErrOutOfBounds, row, column)
}

func ErrShipOverlap(row, column int) error {
	return fmt.Errorf("%w\trow: %d\tcolumn: %d", ErrOverlap, row, column)
}

func ErrAttackPositionAlreadyFilled(row, column int) error {
	return fmt.Errorf("%w\trow: %d\tcolumn: %d", ErrDuplicateAttack, row, column)
}

func ErrDefenceGridPositionAlreadyHit(row, column int) error {
	return fmt.Errorf("%w\trow: %d\tcolumn: %d", ErrAlreadyAnswered, row, column)
}

func ErrNotTurnForAttacker(side string) error {
	return fmt.Errorf("%w: %s", ErrNotYourTurn, side)
}

func ErrAnswerCoordinatesMismatch(expRow, expColumn, row, column int) error {
	return fmt.Errorf("%w: answer for row: %d\tcolumn: %d while awaiting row: %d\tcolumn: %d",
		ErrProtocolViolation, row, column, expRow, expColumn)
}

func ErrUnexpectedAnswer(reason string) error {
	return fmt.Errorf("%w: %s", ErrProtocolViolation, reason)
}

func ErrUnknownShipType(name string) error {
	return fmt.Errorf("unknown ship type: %s", name)
}

func ErrShipCountMismatch(name string, count int) error {
	return fmt.Errorf("ship %s must be placed exactly once, got %d", name, count)
}

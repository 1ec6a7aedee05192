package apperror

import "errors"

// Move rejections. The game state is left untouched.
var (
	ErrOutOfBounds         = errors.New("out of bounds")
	ErrGameOver            = errors.New("game is over")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrCellOwnedByOpponent = errors.New("cell owned by opponent")
)

var (
	ErrConflict        = errors.New("concurrent update detected, please retry")
	ErrNotFound        = errors.New("not found")
	ErrNotActive       = errors.New("game is not active")
	ErrForbidden       = errors.New("you are not a player in this game")
	ErrAlreadyJoined   = errors.New("player already joined this game")
	ErrInvalidGridSize = errors.New("invalid grid size")
	ErrInvalidPlayer   = errors.New("invalid player")
)

const (
	KindOutOfBounds         = "OutOfBounds"
	KindGameOver            = "GameOver"
	KindNotYourTurn         = "NotYourTurn"
	KindCellOwnedByOpponent = "CellOwnedByOpponent"
	KindConflict            = "Conflict"
	KindNotFound            = "NotFound"
	KindNotActive           = "NotActive"
	KindForbidden           = "Forbidden"
	KindAlreadyJoined       = "AlreadyJoined"
	KindInvalidInput        = "InvalidInput"
	KindUnauthorized        = "Unauthorized"
	KindInternal            = "Internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrOutOfBounds, KindOutOfBounds},
	{ErrGameOver, KindGameOver},
	{ErrNotYourTurn, KindNotYourTurn},
	{ErrCellOwnedByOpponent, KindCellOwnedByOpponent},
	{ErrConflict, KindConflict},
	{ErrNotFound, KindNotFound},
	{ErrNotActive, KindNotActive},
	{ErrForbidden, KindForbidden},
	{ErrAlreadyJoined, KindAlreadyJoined},
	{ErrInvalidGridSize, KindInvalidInput},
	{ErrInvalidPlayer, KindInvalidInput},
}

// Kind returns the machine-readable kind of err, or KindInternal when err
// is not one of the known sentinels.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}

// IsMoveRejection reports whether err is a validator rejection.
func IsMoveRejection(err error) bool {
	return errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrGameOver) ||
		errors.Is(err, ErrNotYourTurn) ||
		errors.Is(err, ErrCellOwnedByOpponent)
}

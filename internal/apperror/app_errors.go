package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrNodeNotFound    = errors.New("move not found in history")
	ErrSessionNotFound = errors.New("session not found")
)

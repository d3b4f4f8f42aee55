package apperror

import "errors"

var (
	ErrPlayerIDRequired = errors.New("playerId is required and must be a non-empty string")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameNotActive    = errors.New("game is not active")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("that cell is already taken")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrBrokenGameState  = errors.New("broken game state: can't find open game")
)

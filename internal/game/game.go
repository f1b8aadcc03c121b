package game

import "errors"

type GameType string

const (
	TypeConcentration GameType = "concentration"
)

const (
	StatusActive    = "active"
	StatusFinished  = "finished"
	StatusAbandoned = "abandoned"
)

var (
	ErrGameNotActive = errors.New("game is not active")
	ErrAlreadyPicked = errors.New("cell already picked this turn")
)

// Position координаты ячейки на поле
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

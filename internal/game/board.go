package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration    = errors.New("board configuration mismatch")
	ErrOutOfRange       = errors.New("cell is out of range")
	ErrInvalidSelection = errors.New("invalid selection")
)

// HiddenPlaceholder выводится вместо значения закрытой карточки
const HiddenPlaceholder = "_____"

// PairOutcome результат сравнения двух карточек
type PairOutcome int

const (
	OutcomeNoMatch PairOutcome = iota
	OutcomeMatch
)

func (o PairOutcome) Matched() bool { return o == OutcomeMatch }

func (o PairOutcome) String() string {
	if o == OutcomeMatch {
		return "Match found!"
	}
	return "No match. Try again."
}

// Board фиксированная сетка карточек rows x cols
type Board struct {
	rows  int
	cols  int
	tiles [][]Tile
}

// создает поле, раскладывая значения построчно в переданном порядке
func NewBoard(values []string, rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrConfiguration, rows, cols)
	}
	if rows*cols != len(values) {
		return nil, fmt.Errorf("%w: grid %dx%d needs %d values, got %d",
			ErrConfiguration, rows, cols, rows*cols, len(values))
	}

	b := &Board{rows: rows, cols: cols, tiles: make([][]Tile, rows)}
	index := 0
	for row := 0; row < rows; row++ {
		b.tiles[row] = make([]Tile, cols)
		for col := 0; col < cols; col++ {
			b.tiles[row][col] = NewTile(values[index])
			index++
		}
	}
	return b, nil
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

func (b *Board) inRange(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// Tile возвращает копию карточки
func (b *Board) Tile(row, col int) (Tile, error) {
	if !b.inRange(row, col) {
		return Tile{}, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row, col)
	}
	return b.tiles[row][col], nil
}

// Render текстовое представление поля: открытые карточки показывают значение,
// закрытые выводятся как "_____". Ячейки разделены табами, каждая строка заканчивается \n
func (b *Board) Render() string {
	var sb strings.Builder
	for _, row := range b.tiles {
		for _, tile := range row {
			if tile.IsRevealed() {
				sb.WriteString(tile.Value())
			} else {
				sb.WriteString(HiddenPlaceholder)
			}
			sb.WriteByte('\t')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DebugDump выводит все значения независимо от состояния, только для отладки
func (b *Board) DebugDump() string {
	var sb strings.Builder
	for _, row := range b.tiles {
		for _, tile := range row {
			sb.WriteString(tile.Value())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// IsComplete true когда все пары найдены
func (b *Board) IsComplete() bool {
	return b.Remaining() == 0
}

// количество еще не найденных карточек
func (b *Board) Remaining() int {
	n := 0
	for _, row := range b.tiles {
		for _, tile := range row {
			if !tile.IsMatched() {
				n++
			}
		}
	}
	return n
}

// сколько раз каждое значение встречается на поле
func (b *Board) ValueCounts() map[string]int {
	counts := make(map[string]int)
	for _, row := range b.tiles {
		for _, tile := range row {
			counts[tile.Value()]++
		}
	}
	return counts
}

// Reveal открывает карточку. Координаты за пределами поля отклоняются с ErrOutOfRange
func (b *Board) Reveal(row, col int) error {
	if !b.inRange(row, col) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row, col)
	}
	b.tiles[row][col].Show()
	return nil
}

// ValidateSelection можно ли выбрать ячейку: она на поле и еще не найдена
func (b *Board) ValidateSelection(row, col int) bool {
	if !b.inRange(row, col) {
		return false
	}
	return !b.tiles[row][col].IsMatched()
}

// ResolvePair сравнивает две карточки. При совпадении обе становятся найденными,
// иначе обе закрываются. При ошибке поле не меняется
func (b *Board) ResolvePair(row1, col1, row2, col2 int) (PairOutcome, error) {
	if !b.inRange(row1, col1) {
		return OutcomeNoMatch, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row1, col1)
	}
	if !b.inRange(row2, col2) {
		return OutcomeNoMatch, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row2, col2)
	}
	if row1 == row2 && col1 == col2 {
		return OutcomeNoMatch, fmt.Errorf("%w: same cell (%d,%d) chosen twice", ErrInvalidSelection, row1, col1)
	}

	tile1 := &b.tiles[row1][col1]
	tile2 := &b.tiles[row2][col2]
	if tile1.IsMatched() || tile2.IsMatched() {
		return OutcomeNoMatch, fmt.Errorf("%w: tile already matched", ErrInvalidSelection)
	}

	if tile1.Value() == tile2.Value() {
		tile1.SetMatched()
		tile2.SetMatched()
		return OutcomeMatch, nil
	}
	tile1.Hide()
	tile2.Hide()
	return OutcomeNoMatch, nil
}

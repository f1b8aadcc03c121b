package game

import "fmt"

// CellSnapshot полное состояние карточки, хранится только на сервере
type CellSnapshot struct {
	Value    string `json:"value"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

// BoardSnapshot полное состояние поля (построчно) для кэша
type BoardSnapshot struct {
	Rows  int            `json:"rows"`
	Cols  int            `json:"cols"`
	Cells []CellSnapshot `json:"cells"`
}

// CellView то, что видит клиент. Значение закрытой карточки не отдается
type CellView struct {
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Value    string `json:"value,omitempty"`
	Revealed bool   `json:"revealed"`
	Matched  bool   `json:"matched"`
}

type BoardView struct {
	Rows      int        `json:"rows"`
	Cols      int        `json:"cols"`
	Remaining int        `json:"remaining"`
	Cells     []CellView `json:"cells"`
}

func (b *Board) Snapshot() BoardSnapshot {
	s := BoardSnapshot{Rows: b.rows, Cols: b.cols, Cells: make([]CellSnapshot, 0, b.rows*b.cols)}
	for _, row := range b.tiles {
		for _, tile := range row {
			s.Cells = append(s.Cells, CellSnapshot{
				Value:    tile.value,
				Revealed: tile.revealed,
				Matched:  tile.matched,
			})
		}
	}
	return s
}

// RestoreBoard восстанавливает поле из снимка
func RestoreBoard(s BoardSnapshot) (*Board, error) {
	values := make([]string, len(s.Cells))
	for i, c := range s.Cells {
		values[i] = c.Value
	}
	b, err := NewBoard(values, s.Rows, s.Cols)
	if err != nil {
		return nil, fmt.Errorf("restore board: %w", err)
	}
	for i, c := range s.Cells {
		tile := &b.tiles[i/s.Cols][i%s.Cols]
		if c.Matched {
			tile.SetMatched()
			continue
		}
		if c.Revealed {
			tile.Show()
		}
	}
	return b, nil
}

func (b *Board) View() BoardView {
	v := BoardView{Rows: b.rows, Cols: b.cols, Remaining: b.Remaining(), Cells: make([]CellView, 0, b.rows*b.cols)}
	for r, row := range b.tiles {
		for c, tile := range row {
			cell := CellView{Row: r, Col: c, Revealed: tile.IsRevealed(), Matched: tile.IsMatched()}
			if cell.Revealed {
				cell.Value = tile.Value()
			}
			v.Cells = append(v.Cells, cell)
		}
	}
	return v
}

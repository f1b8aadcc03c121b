package game

import (
	"fmt"
	"sync"
	"time"
)

// Concentration одиночная партия в "найди пару".
// Ход состоит из двух выборов: после второго пара сравнивается автоматически.
// Все операции идут под одной блокировкой, чтобы ходы двух клиентов не перемешались
type Concentration struct {
	ID         string
	PlayerID   string
	Status     string
	Turns      int
	Matches    int
	CreatedAt  time.Time
	FinishedAt *time.Time

	board *Board
	picks []Position
	mu    sync.RWMutex
}

// PickedCell выбранная в текущем ходе ячейка вместе со значением
type PickedCell struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

// TurnResult что произошло после выбора ячейки
type TurnResult struct {
	Turn     int          `json:"turn"`
	Picks    []PickedCell `json:"picks"`
	Resolved bool         `json:"resolved"`
	Matched  bool         `json:"matched"`
	Message  string       `json:"message,omitempty"`
	Finished bool         `json:"finished"`
}

// SessionView состояние партии для клиента
type SessionView struct {
	ID         string     `json:"id"`
	PlayerID   string     `json:"player_id"`
	Status     string     `json:"status"`
	Turns      int        `json:"turns"`
	Matches    int        `json:"matches"`
	Complete   bool       `json:"complete"`
	Picks      []Position `json:"picks"`
	Board      BoardView  `json:"board"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// SessionSnapshot полное состояние партии для кэша
type SessionSnapshot struct {
	ID         string        `json:"id"`
	PlayerID   string        `json:"player_id"`
	Status     string        `json:"status"`
	Turns      int           `json:"turns"`
	Matches    int           `json:"matches"`
	Picks      []Position    `json:"picks"`
	Board      BoardSnapshot `json:"board"`
	CreatedAt  time.Time     `json:"created_at"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`
}

// создает новую партию на готовом поле
func NewConcentration(id, playerID string, board *Board) *Concentration {
	return &Concentration{
		ID:        id,
		PlayerID:  playerID,
		Status:    StatusActive,
		CreatedAt: time.Now(),
		board:     board,
	}
}

// Pick открывает ячейку. Второй выбор в ходе сразу сравнивает пару
func (g *Concentration) Pick(row, col int) (*TurnResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusActive {
		return nil, ErrGameNotActive
	}
	if _, err := g.board.Tile(row, col); err != nil {
		return nil, err
	}
	if !g.board.ValidateSelection(row, col) {
		return nil, fmt.Errorf("%w: (%d,%d) already matched", ErrInvalidSelection, row, col)
	}
	for _, p := range g.picks {
		if p.Row == row && p.Col == col {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrAlreadyPicked, row, col)
		}
	}

	if err := g.board.Reveal(row, col); err != nil {
		return nil, err
	}
	g.picks = append(g.picks, Position{Row: row, Col: col})

	res := &TurnResult{Turn: g.Turns + 1, Picks: g.pickedCellsUnlocked()}
	if len(g.picks) < 2 {
		return res, nil
	}

	first, second := g.picks[0], g.picks[1]
	g.picks = nil
	outcome, err := g.board.ResolvePair(first.Row, first.Col, second.Row, second.Col)
	if err != nil {
		// ход сорван: закрываем обе карточки, чтобы на поле не осталось лишних открытых
		g.hideUnlocked(first)
		g.hideUnlocked(second)
		return nil, err
	}

	g.Turns++
	if outcome.Matched() {
		g.Matches++
	}
	res.Resolved = true
	res.Matched = outcome.Matched()
	res.Message = outcome.String()

	if g.board.IsComplete() {
		g.Status = StatusFinished
		now := time.Now()
		g.FinishedAt = &now
		res.Finished = true
	}
	return res, nil
}

func (g *Concentration) hideUnlocked(p Position) {
	if g.board.inRange(p.Row, p.Col) {
		g.board.tiles[p.Row][p.Col].Hide()
	}
}

func (g *Concentration) pickedCellsUnlocked() []PickedCell {
	cells := make([]PickedCell, 0, len(g.picks))
	for _, p := range g.picks {
		t, _ := g.board.Tile(p.Row, p.Col)
		cells = append(cells, PickedCell{Row: p.Row, Col: p.Col, Value: t.Value()})
	}
	return cells
}

// Abandon завершает партию досрочно
func (g *Concentration) Abandon() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Status != StatusActive {
		return ErrGameNotActive
	}
	for _, p := range g.picks {
		g.hideUnlocked(p)
	}
	g.picks = nil
	g.Status = StatusAbandoned
	now := time.Now()
	g.FinishedAt = &now
	return nil
}

func (g *Concentration) IsActive() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Status == StatusActive
}

func (g *Concentration) Render() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Render()
}

func (g *Concentration) DebugDump() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.DebugDump()
}

// State возвращает состояние без скрытых значений
func (g *Concentration) State() SessionView {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return SessionView{
		ID:         g.ID,
		PlayerID:   g.PlayerID,
		Status:     g.Status,
		Turns:      g.Turns,
		Matches:    g.Matches,
		Complete:   g.board.IsComplete(),
		Picks:      append([]Position{}, g.picks...),
		Board:      g.board.View(),
		CreatedAt:  g.CreatedAt,
		FinishedAt: g.FinishedAt,
	}
}

func (g *Concentration) Snapshot() SessionSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return SessionSnapshot{
		ID:         g.ID,
		PlayerID:   g.PlayerID,
		Status:     g.Status,
		Turns:      g.Turns,
		Matches:    g.Matches,
		Picks:      append([]Position{}, g.picks...),
		Board:      g.board.Snapshot(),
		CreatedAt:  g.CreatedAt,
		FinishedAt: g.FinishedAt,
	}
}

// RestoreConcentration поднимает партию из снимка (например после рестарта сервера)
func RestoreConcentration(s SessionSnapshot) (*Concentration, error) {
	board, err := RestoreBoard(s.Board)
	if err != nil {
		return nil, err
	}
	if len(s.Picks) > 1 {
		return nil, fmt.Errorf("restore session %s: %d pending picks", s.ID, len(s.Picks))
	}
	for _, p := range s.Picks {
		if !board.ValidateSelection(p.Row, p.Col) {
			return nil, fmt.Errorf("restore session %s: %w: pick (%d,%d)", s.ID, ErrInvalidSelection, p.Row, p.Col)
		}
	}

	return &Concentration{
		ID:         s.ID,
		PlayerID:   s.PlayerID,
		Status:     s.Status,
		Turns:      s.Turns,
		Matches:    s.Matches,
		CreatedAt:  s.CreatedAt,
		FinishedAt: s.FinishedAt,
		board:      board,
		picks:      append([]Position(nil), s.Picks...),
	}, nil
}

// ToDetails детали партии для истории
func (g *Concentration) ToDetails() map[string]interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return map[string]interface{}{
		"game":    TypeConcentration,
		"rows":    g.board.Rows(),
		"cols":    g.board.Cols(),
		"turns":   g.Turns,
		"matches": g.Matches,
		"status":  g.Status,
	}
}

package game

// Tile одна карточка на поле: значение задается при создании и больше не меняется
type Tile struct {
	value    string
	revealed bool
	matched  bool
}

// создает закрытую карточку с заданным значением
func NewTile(value string) Tile {
	return Tile{value: value}
}

// Show переворачивает карточку лицом вверх
func (t *Tile) Show() {
	t.revealed = true
}

// Hide переворачивает карточку обратно. Для найденной пары ничего не делает
func (t *Tile) Hide() {
	if t.matched {
		return
	}
	t.revealed = false
}

// SetMatched помечает карточку как найденную. Обратного перехода нет
func (t *Tile) SetMatched() {
	t.matched = true
	t.revealed = true
}

// найденная карточка всегда считается открытой
func (t Tile) IsRevealed() bool {
	return t.revealed || t.matched
}

func (t Tile) IsMatched() bool { return t.matched }
func (t Tile) Value() string   { return t.value }

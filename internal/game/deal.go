package game

import (
	"crypto/rand"
	"math/big"
)

const (
	DefaultRows = 3
	DefaultCols = 4
)

// классический набор: шесть животных по две карточки
var defaultLabels = []string{"lion", "penguin", "dolphin", "fox", "monkey", "turtle"}

// DefaultLabels метки стандартного набора, по одной на пару
func DefaultLabels() []string {
	return append([]string(nil), defaultLabels...)
}

// DefaultValues стандартный набор для поля 3x4, каждая метка дважды
func DefaultValues() []string {
	return PairValues(defaultLabels)
}

// PairValues дублирует каждую метку: a, a, b, b, ...
func PairValues(labels []string) []string {
	values := make([]string, 0, len(labels)*2)
	for _, l := range labels {
		values = append(values, l, l)
	}
	return values
}

// Shuffler возвращает новую перестановку значений, исходный срез не трогает
type Shuffler func(values []string) []string

// NoShuffle сохраняет порядок
func NoShuffle(values []string) []string {
	return append([]string(nil), values...)
}

// CryptoShuffle перемешивание Фишера-Йетса на crypto/rand
func CryptoShuffle(values []string) []string {
	out := append([]string(nil), values...)
	for i := len(out) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			continue // запасной вариант: оставляем элемент на месте
		}
		j := int(n.Int64())
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal перемешивает копию значений и раскладывает их на новое поле
func Deal(values []string, rows, cols int, shuffle Shuffler) (*Board, error) {
	if shuffle == nil {
		shuffle = NoShuffle
	}
	return NewBoard(shuffle(values), rows, cols)
}

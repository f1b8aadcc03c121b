package game

import (
	"sort"
	"testing"
)

func TestPairValues(t *testing.T) {
	got := PairValues([]string{"a", "b"})
	want := []string{"a", "a", "b", "b"}
	if len(got) != len(want) {
		t.Fatalf("ожидалось %v, получено %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ожидалось %v, получено %v", want, got)
		}
	}
	if len(DefaultValues()) != DefaultRows*DefaultCols {
		t.Fatalf("стандартный набор должен заполнять поле %dx%d", DefaultRows, DefaultCols)
	}
}

func TestCryptoShuffleIsPermutation(t *testing.T) {
	values := DefaultValues()
	orig := append([]string(nil), values...)

	shuffled := CryptoShuffle(values)

	for i := range values {
		if values[i] != orig[i] {
			t.Fatalf("исходный срез не должен меняться")
		}
	}

	a := append([]string(nil), orig...)
	b := append([]string(nil), shuffled...)
	sort.Strings(a)
	sort.Strings(b)
	if len(a) != len(b) {
		t.Fatalf("длина изменилась: %d -> %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("перемешивание должно быть перестановкой: %v vs %v", a, b)
		}
	}
}

func TestDealKeepsCounts(t *testing.T) {
	for _, shuffle := range []Shuffler{nil, NoShuffle, CryptoShuffle} {
		b, err := Deal(DefaultValues(), DefaultRows, DefaultCols, shuffle)
		if err != nil {
			t.Fatalf("Deal: %v", err)
		}
		for v, n := range b.ValueCounts() {
			if n != 2 {
				t.Fatalf("значение %q встречается %d раз", v, n)
			}
		}
	}
}

func TestDealNoShuffleIsDeterministic(t *testing.T) {
	b1, _ := Deal(DefaultValues(), 3, 4, NoShuffle)
	b2, _ := Deal(DefaultValues(), 3, 4, nil)
	if b1.DebugDump() != b2.DebugDump() {
		t.Fatalf("без перемешивания раскладка должна совпадать")
	}
}

func TestDealConfigurationError(t *testing.T) {
	if _, err := Deal(DefaultValues(), 4, 4, CryptoShuffle); err == nil {
		t.Fatalf("ожидалась ошибка конфигурации")
	}
}

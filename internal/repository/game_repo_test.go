package repository

import (
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
)

// пустая выборка: остальные методы pgx.Rows сканеру не нужны
type emptyRows struct {
	pgx.Rows
}

func (emptyRows) Next() bool { return false }
func (emptyRows) Err() error { return nil }

func TestScanGameRecordsEmpty(t *testing.T) {
	records, err := scanGameRecords(emptyRows{})
	if err != nil {
		t.Fatalf("scanGameRecords: %v", err)
	}
	if records == nil {
		t.Fatalf("пустая история должна быть пустым срезом, а не nil")
	}

	data, _ := json.Marshal(records)
	if string(data) != "[]" {
		t.Fatalf("json = %s, want []", data)
	}
}

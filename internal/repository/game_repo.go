package repository

import (
	"context"
	"encoding/json"

	"concentration/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// история завершенных партий
type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// сохраняет партию. Повторная запись той же партии игнорируется
func (r *GameRepository) Create(ctx context.Context, rec *domain.GameRecord) error {
	detailsJSON, err := json.Marshal(rec.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO concentration_games
			(session_id, player_id, status, board_rows, board_cols, turns, matches, details, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (session_id) DO NOTHING
	`, rec.SessionID, rec.PlayerID, rec.Status, rec.Rows, rec.Cols, rec.Turns, rec.Matches,
		detailsJSON, rec.StartedAt, rec.FinishedAt)
	return err
}

// последние партии игрока
func (r *GameRepository) GetByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, player_id, status, board_rows, board_cols, turns, matches, details, started_at, finished_at
		FROM concentration_games
		WHERE player_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

func scanGameRecords(rows pgx.Rows) ([]*domain.GameRecord, error) {
	records := make([]*domain.GameRecord, 0)
	for rows.Next() {
		var rec domain.GameRecord
		var detailsJSON []byte
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PlayerID, &rec.Status, &rec.Rows, &rec.Cols,
			&rec.Turns, &rec.Matches, &detailsJSON, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(detailsJSON, &rec.Details); err != nil {
			rec.Details = make(map[string]interface{})
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

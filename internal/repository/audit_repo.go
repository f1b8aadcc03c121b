package repository

import (
	"context"
	"encoding/json"

	"concentration/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// отвечает за операции с базой данных для логов аудита
type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// создает новую запись в логе аудита
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	detailsJSON, err := json.Marshal(log.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (session_id, player_id, action, category, details)
		VALUES ($1, $2, $3, $4, $5)
	`, log.SessionID, log.PlayerID, log.Action, log.Category, detailsJSON)
	return err
}

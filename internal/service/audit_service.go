package service

import (
	"context"

	"concentration/internal/domain"
	"concentration/internal/logger"
	"concentration/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type auditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// обрабатывает логирование аудита
type AuditService struct {
	repo auditStore
}

// создает сервис аудита поверх postgres
func NewAuditService(db *pgxpool.Pool) *AuditService {
	return &AuditService{
		repo: repository.NewAuditRepository(db),
	}
}

// создает новую запись в журнале. Ошибка записи только логируется, партия не прерывается
func (s *AuditService) Log(ctx context.Context, sessionID, playerID, action string, details map[string]interface{}) {
	log := &domain.AuditLog{
		SessionID: sessionID,
		PlayerID:  playerID,
		Action:    action,
		Category:  domain.AuditCategoryGame,
		Details:   details,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		logger.Error("failed to write audit log", "error", err, "action", action, "session", sessionID)
	}
}

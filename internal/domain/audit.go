package domain

import "time"

// Журнал действий по партиям
type AuditLog struct {
	ID        int64                  `db:"id" json:"id"`
	SessionID string                 `db:"session_id" json:"session_id"`
	PlayerID  string                 `db:"player_id" json:"player_id"`
	Action    string                 `db:"action" json:"action"`
	Category  string                 `db:"category" json:"category"`
	Details   map[string]interface{} `db:"details" json:"details"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

const (
	AuditCategoryGame = "game"
)

const (
	AuditActionGameStart   = "game_start"
	AuditActionGameFinish  = "game_finish"
	AuditActionGameAbandon = "game_abandon"
	AuditActionGameExpire  = "game_expire"
)

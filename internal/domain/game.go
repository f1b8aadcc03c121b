package domain

import "time"

// GameRecord завершенная партия для истории
type GameRecord struct {
	ID         int64                  `db:"id" json:"id"`
	SessionID  string                 `db:"session_id" json:"session_id"`
	PlayerID   string                 `db:"player_id" json:"player_id"`
	Status     string                 `db:"status" json:"status"`
	Rows       int                    `db:"board_rows" json:"rows"`
	Cols       int                    `db:"board_cols" json:"cols"`
	Turns      int                    `db:"turns" json:"turns"`
	Matches    int                    `db:"matches" json:"matches"`
	Details    map[string]interface{} `db:"details" json:"details"`
	StartedAt  time.Time              `db:"started_at" json:"started_at"`
	FinishedAt time.Time              `db:"finished_at" json:"finished_at"`
}

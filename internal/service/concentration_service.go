package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"concentration/internal/domain"
	"concentration/internal/game"
	"concentration/internal/logger"
	"concentration/internal/metrics"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SnapshotStore хранилище снимков активных партий (redis)
type SnapshotStore interface {
	Save(ctx context.Context, s game.SessionSnapshot) error
	Load(ctx context.Context, id string) (*game.SessionSnapshot, error)
	Delete(ctx context.Context, id string) error
}

// GameStore история завершенных партий (postgres)
type GameStore interface {
	Create(ctx context.Context, rec *domain.GameRecord) error
	GetByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error)
}

type AuditLogger interface {
	Log(ctx context.Context, sessionID, playerID, action string, details map[string]interface{})
}

type ConcentrationOptions struct {
	Rows    int
	Cols    int
	Values  []string
	Shuffle game.Shuffler
	TTL     time.Duration

	// все три опциональны
	Snapshots SnapshotStore
	Games     GameStore
	Audit     AuditLogger
}

// управляет активными партиями
type ConcentrationService struct {
	opts        ConcentrationOptions
	activeGames map[string]*game.Concentration // sessionID -> game
	mu          sync.RWMutex
	now         func() time.Time

	// упорядочивает запись и удаление снимков между ходами одной партии
	snapMu sync.Mutex
}

// создает сервис, заранее проверяя что набор значений заполняет поле
func NewConcentrationService(opts ConcentrationOptions) (*ConcentrationService, error) {
	if _, err := game.NewBoard(opts.Values, opts.Rows, opts.Cols); err != nil {
		return nil, err
	}
	if opts.Shuffle == nil {
		opts.Shuffle = game.NoShuffle
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	return &ConcentrationService{
		opts:        opts,
		activeGames: make(map[string]*game.Concentration),
		now:         time.Now,
	}, nil
}

// начинает новую партию. Пустой playerID заменяется сгенерированным
func (s *ConcentrationService) StartGame(ctx context.Context, playerID string) (*game.Concentration, error) {
	if playerID == "" {
		playerID = uuid.New().String()
	}

	board, err := game.Deal(s.opts.Values, s.opts.Rows, s.opts.Cols, s.opts.Shuffle)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	gameID := uuid.New().String()[:8]
	for s.activeGames[gameID] != nil {
		gameID = uuid.New().String()[:8]
	}
	g := game.NewConcentration(gameID, playerID, board)
	s.activeGames[gameID] = g
	active := len(s.activeGames)
	s.mu.Unlock()

	metrics.GamesStarted.Inc()
	metrics.ActiveGames.Set(float64(active))

	log := logger.ForSession(gameID)
	log.Info("game started", "player", playerID, "rows", s.opts.Rows, "cols", s.opts.Cols)
	log.Debug("dealt board", "layout", g.DebugDump())

	s.saveSnapshot(ctx, g)
	if s.opts.Audit != nil {
		s.opts.Audit.Log(ctx, gameID, playerID, domain.AuditActionGameStart, g.ToDetails())
	}
	return g, nil
}

// возвращает активную партию, при необходимости поднимая ее из снимка
func (s *ConcentrationService) GetGame(ctx context.Context, id string) (*game.Concentration, error) {
	s.mu.RLock()
	g, ok := s.activeGames[id]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	if s.opts.Snapshots == nil {
		return nil, ErrSessionNotFound
	}
	snap, err := s.opts.Snapshots.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	restored, err := game.RestoreConcentration(*snap)
	if err != nil {
		logger.ForSession(id).Warn("dropping broken snapshot", "error", err)
		_ = s.opts.Snapshots.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	if !restored.IsActive() {
		return nil, ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// кто-то мог восстановить партию параллельно
	if existing, ok := s.activeGames[id]; ok {
		return existing, nil
	}
	s.activeGames[id] = restored
	metrics.ActiveGames.Set(float64(len(s.activeGames)))
	logger.ForSession(id).Info("game restored from snapshot")
	return restored, nil
}

// открывает ячейку в партии
func (s *ConcentrationService) Pick(ctx context.Context, id string, row, col int) (*game.TurnResult, *game.Concentration, error) {
	g, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	res, err := g.Pick(row, col)
	if err != nil {
		if errors.Is(err, game.ErrInvalidSelection) || errors.Is(err, game.ErrOutOfRange) || errors.Is(err, game.ErrAlreadyPicked) {
			metrics.RejectedPicks.Inc()
		}
		logger.ForSession(id).Debug("pick rejected", "row", row, "col", col, "error", err)
		return nil, g, err
	}

	if res.Resolved {
		metrics.ObservePair(res.Matched)
		logger.ForSession(id).Debug("pair resolved", "turn", res.Turn, "matched", res.Matched)
	}

	if res.Finished {
		s.finish(ctx, g, domain.AuditActionGameFinish)
	} else {
		s.saveSnapshot(ctx, g)
	}
	return res, g, nil
}

// досрочно завершает партию
func (s *ConcentrationService) Abandon(ctx context.Context, id string) (*game.Concentration, error) {
	g, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := g.Abandon(); err != nil {
		return g, err
	}
	s.finish(ctx, g, domain.AuditActionGameAbandon)
	return g, nil
}

// последние партии игрока, пусто если postgres не подключен
func (s *ConcentrationService) History(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	if s.opts.Games == nil {
		return []*domain.GameRecord{}, nil
	}
	return s.opts.Games.GetByPlayer(ctx, playerID, limit)
}

// убирает партию из памяти и пишет ее в историю
func (s *ConcentrationService) finish(ctx context.Context, g *game.Concentration, action string) {
	s.mu.Lock()
	delete(s.activeGames, g.ID)
	active := len(s.activeGames)
	s.mu.Unlock()

	st := g.State()
	metrics.ActiveGames.Set(float64(active))
	metrics.GamesEnded.WithLabelValues(st.Status).Inc()
	logger.ForSession(g.ID).Info("game ended", "status", st.Status, "turns", st.Turns, "matches", st.Matches)

	if s.opts.Snapshots != nil {
		s.snapMu.Lock()
		err := s.opts.Snapshots.Delete(ctx, g.ID)
		s.snapMu.Unlock()
		if err != nil {
			logger.ForSession(g.ID).Warn("failed to delete snapshot", "error", err)
		}
	}

	if s.opts.Games != nil {
		finishedAt := s.now()
		if st.FinishedAt != nil {
			finishedAt = *st.FinishedAt
		}
		rec := &domain.GameRecord{
			SessionID:  g.ID,
			PlayerID:   g.PlayerID,
			Status:     st.Status,
			Rows:       st.Board.Rows,
			Cols:       st.Board.Cols,
			Turns:      st.Turns,
			Matches:    st.Matches,
			Details:    g.ToDetails(),
			StartedAt:  st.CreatedAt,
			FinishedAt: finishedAt,
		}
		if err := s.opts.Games.Create(ctx, rec); err != nil {
			logger.ForSession(g.ID).Error("failed to record game", "error", err)
		}
	}

	if s.opts.Audit != nil {
		s.opts.Audit.Log(ctx, g.ID, g.PlayerID, action, g.ToDetails())
	}
}

func (s *ConcentrationService) saveSnapshot(ctx context.Context, g *game.Concentration) {
	if s.opts.Snapshots == nil {
		return
	}
	s.snapMu.Lock()
	defer s.snapMu.Unlock()

	// завершенную партию finish уже убрал из redis, старый снимок не возвращаем
	snap := g.Snapshot()
	if snap.Status != game.StatusActive {
		return
	}
	if err := s.opts.Snapshots.Save(ctx, snap); err != nil {
		logger.ForSession(g.ID).Warn("failed to save snapshot", "error", err)
	}
}

// ExpireStale закрывает партии старше TTL, возвращает их количество
func (s *ConcentrationService) ExpireStale(ctx context.Context) int {
	now := s.now()

	s.mu.RLock()
	var stale []*game.Concentration
	for _, g := range s.activeGames {
		// игры старше TTL считаются заброшенными
		if now.Sub(g.CreatedAt) > s.opts.TTL {
			stale = append(stale, g)
		}
	}
	s.mu.RUnlock()

	expired := 0
	for _, g := range stale {
		if err := g.Abandon(); err != nil {
			continue // уже завершилась сама
		}
		s.finish(ctx, g, domain.AuditActionGameExpire)
		expired++
	}
	return expired
}

// RunCleanup периодически вызывает ExpireStale до отмены контекста
func (s *ConcentrationService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logger.Error("cleanup disabled: interval must be positive", "interval", interval)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.ExpireStale(ctx); n > 0 {
				logger.Info("expired stale games", "count", n)
			}
		}
	}
}

// возвращает количество активных игр
func (s *ConcentrationService) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activeGames)
}

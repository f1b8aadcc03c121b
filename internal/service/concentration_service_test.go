package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"concentration/internal/domain"
	"concentration/internal/game"
)

type memSnapshots struct {
	mu   sync.Mutex
	data map[string]game.SessionSnapshot
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{data: make(map[string]game.SessionSnapshot)}
}

func (m *memSnapshots) Save(ctx context.Context, s game.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = s
	return nil
}

func (m *memSnapshots) Load(ctx context.Context, id string) (*game.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &s, nil
}

func (m *memSnapshots) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type memGames struct {
	mu      sync.Mutex
	records []*domain.GameRecord
}

func (m *memGames) Create(ctx context.Context, rec *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memGames) GetByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.GameRecord
	for _, r := range m.records {
		if r.PlayerID == playerID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

type memAudit struct {
	mu      sync.Mutex
	actions []string
}

func (m *memAudit) Log(ctx context.Context, sessionID, playerID, action string, details map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

type testDeps struct {
	snapshots *memSnapshots
	games     *memGames
	audit     *memAudit
}

func newTestService(t *testing.T) (*ConcentrationService, *testDeps) {
	t.Helper()
	deps := &testDeps{snapshots: newMemSnapshots(), games: &memGames{}, audit: &memAudit{}}
	svc, err := NewConcentrationService(ConcentrationOptions{
		Rows:      2,
		Cols:      2,
		Values:    []string{"fox", "lion", "lion", "fox"},
		Shuffle:   game.NoShuffle,
		TTL:       time.Hour,
		Snapshots: deps.snapshots,
		Games:     deps.games,
		Audit:     deps.audit,
	})
	if err != nil {
		t.Fatalf("NewConcentrationService: %v", err)
	}
	return svc, deps
}

func TestNewConcentrationServiceConfigError(t *testing.T) {
	_, err := NewConcentrationService(ConcentrationOptions{Rows: 3, Cols: 4, Values: []string{"a", "a"}})
	if !errors.Is(err, game.ErrConfiguration) {
		t.Fatalf("ожидалась ErrConfiguration, получено %v", err)
	}
}

func TestServiceFullGame(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService(t)

	g, err := svc.StartGame(ctx, "p1")
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if len(g.ID) != 8 || svc.ActiveCount() != 1 {
		t.Fatalf("неожиданная партия: id=%q active=%d", g.ID, svc.ActiveCount())
	}
	if _, ok := deps.snapshots.data[g.ID]; !ok {
		t.Fatalf("снимок не сохранен при старте")
	}

	moves := [][2]int{{0, 0}, {0, 1}, {0, 0}, {1, 1}, {0, 1}, {1, 0}}
	var last *game.TurnResult
	for _, m := range moves {
		res, _, err := svc.Pick(ctx, g.ID, m[0], m[1])
		if err != nil {
			t.Fatalf("Pick(%d,%d): %v", m[0], m[1], err)
		}
		last = res
	}
	if !last.Finished {
		t.Fatalf("партия должна завершиться: %+v", last)
	}

	if svc.ActiveCount() != 0 {
		t.Fatalf("завершенная партия должна уйти из памяти")
	}
	if _, ok := deps.snapshots.data[g.ID]; ok {
		t.Fatalf("снимок завершенной партии должен удаляться")
	}
	if len(deps.games.records) != 1 {
		t.Fatalf("ожидалась одна запись в истории, получено %d", len(deps.games.records))
	}
	rec := deps.games.records[0]
	if rec.Status != game.StatusFinished || rec.Turns != 3 || rec.Matches != 2 {
		t.Fatalf("неожиданная запись: %+v", rec)
	}
	if len(deps.audit.actions) != 2 || deps.audit.actions[1] != domain.AuditActionGameFinish {
		t.Fatalf("неожиданный аудит: %v", deps.audit.actions)
	}

	if _, _, err := svc.Pick(ctx, g.ID, 0, 0); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("ожидалась ErrSessionNotFound, получено %v", err)
	}

	hist, err := svc.History(ctx, "p1", 10)
	if err != nil || len(hist) != 1 {
		t.Fatalf("History: %v, %d записей", err, len(hist))
	}
}

func TestServicePickErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	g, _ := svc.StartGame(ctx, "p1")

	if _, _, err := svc.Pick(ctx, g.ID, 9, 9); !errors.Is(err, game.ErrOutOfRange) {
		t.Fatalf("ожидалась ErrOutOfRange, получено %v", err)
	}
	if _, _, err := svc.Pick(ctx, "missing", 0, 0); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("ожидалась ErrSessionNotFound, получено %v", err)
	}
}

func TestServiceRestoresFromSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService(t)
	g, _ := svc.StartGame(ctx, "p1")
	_, _, _ = svc.Pick(ctx, g.ID, 0, 0)

	// новый экземпляр сервиса с тем же хранилищем, как после рестарта
	restarted, err := NewConcentrationService(ConcentrationOptions{
		Rows: 2, Cols: 2, Values: []string{"fox", "lion", "lion", "fox"},
		Snapshots: deps.snapshots,
	})
	if err != nil {
		t.Fatalf("NewConcentrationService: %v", err)
	}

	res, _, err := restarted.Pick(ctx, g.ID, 1, 1)
	if err != nil {
		t.Fatalf("Pick после рестарта: %v", err)
	}
	if !res.Resolved || !res.Matched {
		t.Fatalf("ход должен продолжиться после восстановления: %+v", res)
	}
	if restarted.ActiveCount() != 1 {
		t.Fatalf("восстановленная партия должна быть в памяти")
	}
}

func TestServiceAbandon(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService(t)
	g, _ := svc.StartGame(ctx, "p1")

	if _, err := svc.Abandon(ctx, g.ID); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if svc.ActiveCount() != 0 {
		t.Fatalf("брошенная партия должна уйти из памяти")
	}
	if deps.games.records[0].Status != game.StatusAbandoned {
		t.Fatalf("ожидался статус abandoned, получено %q", deps.games.records[0].Status)
	}
	if _, err := svc.Abandon(ctx, g.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("ожидалась ErrSessionNotFound, получено %v", err)
	}
}

func TestServiceExpireStale(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService(t)
	g, _ := svc.StartGame(ctx, "p1")

	if n := svc.ExpireStale(ctx); n != 0 {
		t.Fatalf("свежая партия не должна истекать, истекло %d", n)
	}

	svc.now = func() time.Time { return g.CreatedAt.Add(2 * time.Hour) }
	if n := svc.ExpireStale(ctx); n != 1 {
		t.Fatalf("ожидалась одна истекшая партия, получено %d", n)
	}
	if svc.ActiveCount() != 0 {
		t.Fatalf("истекшая партия должна уйти из памяти")
	}
	last := deps.audit.actions[len(deps.audit.actions)-1]
	if last != domain.AuditActionGameExpire {
		t.Fatalf("ожидался аудит %q, получено %q", domain.AuditActionGameExpire, last)
	}
}

func TestServiceWithoutStores(t *testing.T) {
	ctx := context.Background()
	svc, err := NewConcentrationService(ConcentrationOptions{
		Rows: 2, Cols: 1, Values: []string{"fox", "fox"},
	})
	if err != nil {
		t.Fatalf("NewConcentrationService: %v", err)
	}

	g, err := svc.StartGame(ctx, "")
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if g.PlayerID == "" {
		t.Fatalf("id игрока должен генерироваться")
	}
	_, _, _ = svc.Pick(ctx, g.ID, 0, 0)
	res, _, err := svc.Pick(ctx, g.ID, 1, 0)
	if err != nil || !res.Finished {
		t.Fatalf("ожидалось завершение: %+v %v", res, err)
	}

	hist, err := svc.History(ctx, g.PlayerID, 10)
	if err != nil || len(hist) != 0 {
		t.Fatalf("без postgres история пуста: %v %v", hist, err)
	}
}

func TestServiceRunCleanup(t *testing.T) {
	svc, deps := newTestService(t)
	g, _ := svc.StartGame(context.Background(), "p1")
	svc.now = func() time.Time { return g.CreatedAt.Add(2 * time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.RunCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for svc.ActiveCount() != 0 {
		select {
		case <-deadline:
			t.Fatalf("партия не истекла по тикеру")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("RunCleanup не остановился после отмены контекста")
	}

	deps.audit.mu.Lock()
	last := deps.audit.actions[len(deps.audit.actions)-1]
	deps.audit.mu.Unlock()
	if last != domain.AuditActionGameExpire {
		t.Fatalf("ожидался аудит %q, получено %q", domain.AuditActionGameExpire, last)
	}
}

func TestServiceRunCleanupNonPositiveInterval(t *testing.T) {
	svc, _ := newTestService(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.RunCleanup(context.Background(), 0)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("RunCleanup с нулевым интервалом должен сразу вернуться")
	}
}

func TestServiceDoesNotSnapshotEndedGame(t *testing.T) {
	ctx := context.Background()
	svc, deps := newTestService(t)
	g, _ := svc.StartGame(ctx, "p1")

	if _, err := svc.Abandon(ctx, g.ID); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	// запоздавшее сохранение от параллельного хода
	svc.saveSnapshot(ctx, g)

	if _, err := deps.snapshots.Load(ctx, g.ID); err == nil {
		t.Fatalf("снимок завершенной партии не должен сохраняться")
	}
}

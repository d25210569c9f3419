package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stemsi/gdeval-backend/internal/config"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/repository/memory"
)

type memTokens struct {
	mu   sync.Mutex
	live map[string]bool
}

func newMemTokens() *memTokens { return &memTokens{live: map[string]bool{}} }

func (m *memTokens) Register(_ context.Context, userID uuid.UUID, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[userID.String()+"/"+jti] = true
	return nil
}

func (m *memTokens) Exists(_ context.Context, userID uuid.UUID, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[userID.String()+"/"+jti], nil
}

func (m *memTokens) Revoke(_ context.Context, userID uuid.UUID, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, userID.String()+"/"+jti)
	return nil
}

type memCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*model.SessionResults
	gens        map[uuid.UUID]int64
	invalidated []uuid.UUID
}

func newMemCache() *memCache {
	return &memCache{entries: map[uuid.UUID]*model.SessionResults{}, gens: map[uuid.UUID]int64{}}
}

func (c *memCache) Get(_ context.Context, id uuid.UUID) (*model.SessionResults, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[id], nil
}

func (c *memCache) Generation(_ context.Context, id uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[id], nil
}

func (c *memCache) SetIfGeneration(_ context.Context, res *model.SessionResults, gen int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[res.SessionID] != gen {
		return false, nil
	}
	c.entries[res.SessionID] = res
	return true, nil
}

// put seeds an entry regardless of generation.
func (c *memCache) put(res *model.SessionResults) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[res.SessionID] = res
}

func (c *memCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.gens[id]++
	c.invalidated = append(c.invalidated, id)
	return nil
}

type memQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
	err error
}

func (q *memQueue) Enqueue(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}

// fixture wires every service over fresh memory stores.
type fixture struct {
	stores    repository.Stores
	cache     *memCache
	queue     *memQueue
	tokens    *memTokens
	auth      *AuthService
	users     *UserService
	sessions  *GDSessionService
	evals     *EvaluationService
	scores    *ScoreService
	results   *ResultsService
	analytics *AnalyticsService
	exports   *ExportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost}
	log := zerolog.Nop()

	f := &fixture{
		stores: memory.New(),
		cache:  newMemCache(),
		queue:  &memQueue{},
		tokens: newMemTokens(),
	}
	f.auth = NewAuthService(cfg, f.tokens)
	f.users = NewUserService(f.stores.Users, f.auth, log)
	f.sessions = NewGDSessionService(f.stores.Sessions, log)
	f.evals = NewEvaluationService(f.sessions, f.stores.Evaluations, f.cache, f.queue, log)
	f.scores = NewScoreService(f.stores.Evaluations)
	f.results = NewResultsService(f.sessions, f.stores.Evaluations, f.stores.Users, f.cache, log)
	f.analytics = NewAnalyticsService(f.stores.Sessions, f.stores.Evaluations, f.stores.Users)
	f.exports = NewExportService(f.results, f.stores.Users, log)
	return f
}

func (f *fixture) instructor(t *testing.T, name string) *model.Actor {
	t.Helper()
	u, err := f.users.Register(context.Background(), model.RegisterRequest{
		Name: name, Email: uuid.NewString() + "@example.com", Password: "secret123",
		Role: model.RoleInstructor, Designation: "Professor",
	})
	require.NoError(t, err)
	return u.Actor()
}

func (f *fixture) student(t *testing.T, name, roll, section string) *model.Actor {
	t.Helper()
	u, err := f.users.Register(context.Background(), model.RegisterRequest{
		Name: name, Email: roll + "@example.com", Password: "secret123",
		Role: model.RoleStudent, RollNumber: roll, Department: "CSE", Section: section, Year: "3",
	})
	require.NoError(t, err)
	return u.Actor()
}

func (f *fixture) session(t *testing.T, by *model.Actor, date, participants, evaluators string) *model.GDSession {
	t.Helper()
	gd, err := f.sessions.Create(context.Background(), model.CreateGDSessionRequest{
		Topic: "Topic " + date, Details: "details", GroupName: "Alpha", GroupNumber: "1",
		Date: date, Participants: participants, Evaluators: evaluators,
	}, by)
	require.NoError(t, err)
	return gd
}

func uniform(v float64) model.Criteria {
	return model.Criteria{Articulation: v, Relevance: v, Leadership: v, NonVerbalCommunication: v, Impression: v}
}

// Package storetest holds behaviour checks every repository driver must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// Run executes the suite. newStores must return empty, isolated stores on every call.
func Run(t *testing.T, newStores func(t *testing.T) repository.Stores) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStores(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStores(t)) })
	t.Run("evaluations", func(t *testing.T) { testEvaluations(t, newStores(t)) })
	t.Run("concurrent upserts", func(t *testing.T) { testConcurrentUpserts(t, newStores(t)) })
}

// Student builds an unsaved student account.
func Student(name, roll string) *model.User {
	return &model.User{
		Name:         name,
		Email:        roll + "@example.com",
		PasswordHash: "hash",
		Role:         model.RoleStudent,
		Student:      &model.StudentProfile{RollNumber: roll, Department: "CSE", Section: "A", Year: "3"},
	}
}

// Instructor builds an unsaved instructor account.
func Instructor(name, email string) *model.User {
	return &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleInstructor,
		Instructor:   &model.InstructorProfile{Designation: "Professor"},
	}
}

func testUsers(t *testing.T, st repository.Stores) {
	ctx := context.Background()

	alice := Student("Alice", "CS01")
	require.NoError(t, st.Users.Create(ctx, alice))
	assert.NotEqual(t, uuid.Nil, alice.ID)

	prof := Instructor("Dr. Rao", "rao@example.com")
	require.NoError(t, st.Users.Create(ctx, prof))

	got, err := st.Users.GetByEmail(ctx, "CS01@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "CS01", got.RollNumber())
	assert.Equal(t, "CSE", got.Student.Department)
	assert.Nil(t, got.Instructor)

	got, err = st.Users.GetByID(ctx, prof.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Instructor)
	assert.Equal(t, "Professor", got.Instructor.Designation)
	assert.Empty(t, got.RollNumber())

	_, err = st.Users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = st.Users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dupEmail := Student("Other", "CS02")
	dupEmail.Email = alice.Email
	assert.ErrorIs(t, st.Users.Create(ctx, dupEmail), repository.ErrDuplicate)

	dupRoll := Student("Other", "CS01")
	dupRoll.Email = "other@example.com"
	assert.ErrorIs(t, st.Users.Create(ctx, dupRoll), repository.ErrDuplicate)

	// Instructors have no roll number and never collide on it.
	require.NoError(t, st.Users.Create(ctx, Instructor("Dr. Sen", "sen@example.com")))

	bob := Student("Bob", "CS03")
	require.NoError(t, st.Users.Create(ctx, bob))
	users, err := st.Users.ListByRollNumbers(ctx, []string{"CS03", "CS01", "CS99"})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "CS01", users[0].RollNumber())
	assert.Equal(t, "CS03", users[1].RollNumber())

	users, err = st.Users.ListByRollNumbers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	upd := *alice
	upd.Name = "Alice K"
	upd.Student = &model.StudentProfile{RollNumber: "HACK", Department: "ECE", Section: "B", Year: "4"}
	require.NoError(t, st.Users.Update(ctx, &upd))
	got, err = st.Users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice K", got.Name)
	assert.Equal(t, "CS01", got.RollNumber())
	assert.Equal(t, "ECE", got.Student.Department)
	assert.Equal(t, "B", got.Student.Section)

	missing := Student("Ghost", "CS404")
	missing.ID = uuid.New()
	assert.ErrorIs(t, st.Users.Update(ctx, missing), repository.ErrNotFound)
}

func testSessions(t *testing.T, st repository.Stores) {
	ctx := context.Background()
	prof := Instructor("Dr. Rao", "rao@example.com")
	require.NoError(t, st.Users.Create(ctx, prof))
	other := Instructor("Dr. Sen", "sen@example.com")
	require.NoError(t, st.Users.Create(ctx, other))

	older := &model.GDSession{
		Topic: "AI ethics", Details: "d", GroupName: "Alpha", GroupNumber: "1",
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Participants: []string{"CS03", "CS01", "CS02"},
		Evaluators:   []string{"CS09"},
		CreatedBy:    prof.ID,
		CreatedAt:    time.Date(2026, 2, 20, 9, 30, 0, 0, time.UTC),
	}
	newer := &model.GDSession{
		Topic: "Remote work", Details: "d", GroupName: "Beta", GroupNumber: "2",
		Date:         time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Participants: []string{"CS01"},
		Evaluators:   []string{"CS03", "CS09"},
		CreatedBy:    prof.ID,
	}
	foreign := &model.GDSession{
		Topic: "Climate", Details: "d", GroupName: "Gamma", GroupNumber: "3",
		Date:         time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		Participants: []string{"CS07"},
		Evaluators:   []string{},
		CreatedBy:    other.ID,
	}
	for _, s := range []*model.GDSession{older, newer, foreign} {
		require.NoError(t, st.Sessions.Create(ctx, s))
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.False(t, s.CreatedAt.IsZero())
	}

	got, err := st.Sessions.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "AI ethics", got.Topic)
	assert.Equal(t, []string{"CS03", "CS01", "CS02"}, got.Participants)
	assert.Equal(t, []string{"CS09"}, got.Evaluators)
	assert.Equal(t, "2026-03-01", got.Date.Format(model.DateLayout))
	assert.Equal(t, prof.ID, got.CreatedBy)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 2, 20, 9, 30, 0, 0, time.UTC)),
		"supplied created_at kept, got %v", got.CreatedAt)

	got, err = st.Sessions.GetByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Evaluators)

	_, err = st.Sessions.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)

	part, err := st.Sessions.ListWhereParticipant(ctx, "CS01")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, ids(part))

	eval, err := st.Sessions.ListWhereEvaluator(ctx, "CS03")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newer.ID}, ids(eval))

	none, err := st.Sessions.ListWhereParticipant(ctx, "CS09")
	require.NoError(t, err)
	assert.Empty(t, none)

	created, err := st.Sessions.ListCreatedBy(ctx, prof.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, ids(created))
}

func testEvaluations(t *testing.T, st repository.Stores) {
	ctx := context.Background()
	prof := Instructor("Dr. Rao", "rao@example.com")
	require.NoError(t, st.Users.Create(ctx, prof))
	peer := Student("Bob", "CS02")
	require.NoError(t, st.Users.Create(ctx, peer))

	s := &model.GDSession{
		Topic: "t", Details: "d", GroupName: "g", GroupNumber: "1",
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Participants: []string{"CS01", "CS02"},
		Evaluators:   []string{"CS02"},
		CreatedBy:    prof.ID,
	}
	require.NoError(t, st.Sessions.Create(ctx, s))

	first := model.Criteria{Articulation: 6, Relevance: 6, Leadership: 6, NonVerbalCommunication: 6, Impression: 6}
	e1, err := st.Evaluations.Upsert(ctx, s.ID, "CS01", peer.ID, model.RoleStudent, first)
	require.NoError(t, err)
	assert.Equal(t, first, e1.Criteria)
	assert.Equal(t, model.RoleStudent, e1.EvaluatorRole)

	_, err = st.Evaluations.Upsert(ctx, s.ID, "CS01", prof.ID, model.RoleInstructor, first)
	require.NoError(t, err)

	// Resubmission replaces criteria but keeps the record's id, role and position.
	second := model.Criteria{Articulation: 9, Relevance: 8, Leadership: 7, NonVerbalCommunication: 6, Impression: 5}
	e2, err := st.Evaluations.Upsert(ctx, s.ID, "CS01", peer.ID, model.RoleInstructor, second)
	require.NoError(t, err)
	assert.Equal(t, e1.ID, e2.ID)
	assert.Equal(t, model.RoleStudent, e2.EvaluatorRole)
	assert.Equal(t, second, e2.Criteria)
	assert.False(t, e2.CreatedAt.Before(e1.CreatedAt))

	list, err := st.Evaluations.ListForSession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, peer.ID, list[0].EvaluatorID)
	assert.Equal(t, second, list[0].Criteria)
	assert.Equal(t, prof.ID, list[1].EvaluatorID)

	empty, err := st.Evaluations.ListForSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testConcurrentUpserts(t *testing.T, st repository.Stores) {
	ctx := context.Background()
	prof := Instructor("Dr. Rao", "rao@example.com")
	require.NoError(t, st.Users.Create(ctx, prof))

	s := &model.GDSession{
		Topic: "t", Details: "d", GroupName: "g", GroupNumber: "1",
		Date:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Participants: []string{"CS01"},
		Evaluators:   []string{},
		CreatedBy:    prof.ID,
	}
	require.NoError(t, st.Sessions.Create(ctx, s))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func(score float64) {
			defer wg.Done()
			c := model.Criteria{Articulation: score, Relevance: score, Leadership: score, NonVerbalCommunication: score, Impression: score}
			if _, err := st.Evaluations.Upsert(ctx, s.ID, "CS01", prof.ID, model.RoleInstructor, c); err != nil {
				errs <- fmt.Errorf("writer %v: %w", score, err)
			}
		}(float64(i + 1))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	list, err := st.Evaluations.ListForSession(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	c := list[0].Criteria
	assert.Equal(t, c.Articulation, c.Impression, "criteria from one write must not be mixed with another")
}

func ids(sessions []model.GDSession) []uuid.UUID {
	out := make([]uuid.UUID, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/model"
)

func TestCreateGDSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")

	req := model.CreateGDSessionRequest{
		Topic: " AI ethics ", Details: "Debate", GroupName: "Alpha", GroupNumber: "1",
		Date: "2026-03-01", Participants: " A1, ,B2,,A1 ", Evaluators: "C3",
	}
	gd, err := f.sessions.Create(ctx, req, prof)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, gd.ID)
	assert.Equal(t, "AI ethics", gd.Topic)
	assert.Equal(t, []string{"A1", "B2"}, gd.Participants)
	assert.Equal(t, []string{"C3"}, gd.Evaluators)
	assert.Equal(t, prof.UserID, gd.CreatedBy)
	assert.False(t, gd.CreatedAt.IsZero())

	stored, err := f.sessions.GetByID(ctx, gd.ID)
	require.NoError(t, err)
	assert.Equal(t, gd.Participants, stored.Participants)
	assert.Equal(t, "2026-03-01", stored.Date.Format(model.DateLayout))

	student := f.student(t, "Asha", "A1", "A")
	_, err = f.sessions.Create(ctx, req, student)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, err = f.sessions.Create(ctx, req, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	badDate := req
	badDate.Date = "01/03/2026"
	_, err = f.sessions.Create(ctx, badDate, prof)
	assert.ErrorIs(t, err, ErrInvalidSession)

	noParticipants := req
	noParticipants.Participants = " , ,"
	_, err = f.sessions.Create(ctx, noParticipants, prof)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestGetGDSessionNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.sessions.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	other := f.instructor(t, "Dr. Sen")
	asha := f.student(t, "Asha", "A1", "A")

	s1 := f.session(t, prof, "2026-03-01", "A1,B2", "C3")
	s2 := f.session(t, prof, "2026-03-08", "B2", "A1")
	f.session(t, other, "2026-03-05", "D4", "E5")

	mine, err := f.sessions.ListForUser(ctx, prof)
	require.NoError(t, err)
	assert.Empty(t, mine.Participating)
	require.Len(t, mine.Evaluating, 2)
	assert.Equal(t, s2.ID, mine.Evaluating[0].ID)
	assert.Equal(t, s1.ID, mine.Evaluating[1].ID)

	hers, err := f.sessions.ListForUser(ctx, asha)
	require.NoError(t, err)
	require.Len(t, hers.Participating, 1)
	assert.Equal(t, s1.ID, hers.Participating[0].ID)
	require.Len(t, hers.Evaluating, 1)
	assert.Equal(t, s2.ID, hers.Evaluating[0].ID)

	_, err = f.sessions.ListForUser(ctx, nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

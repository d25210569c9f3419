package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/model"
)

func TestAnalyticsStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.instructor(t, "Dr. Rao")
	other := f.instructor(t, "Dr. Sen")
	f.student(t, "Asha", "A", "A")
	f.student(t, "Bala", "B", "B")

	late := f.session(t, prof, "2026-03-08", "A,B", "")
	early := f.session(t, prof, "2026-03-01", "A", "")
	foreign := f.session(t, other, "2026-03-02", "A,Z", "")

	for _, sub := range []struct {
		id    *model.GDSession
		roll  string
		score float64
		by    *model.Actor
	}{
		{late, "A", 8, prof},
		{late, "B", 4, prof},
		{early, "A", 6, prof},
		{foreign, "A", 10, other},
	} {
		_, err := f.evals.Submit(ctx, sub.id.ID, sub.roll, uniform(sub.score), sub.by)
		require.NoError(t, err)
	}

	rows, err := f.analytics.Students(ctx, model.AnalyticsFilter{}, prof)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	a := rows[0]
	assert.Equal(t, "A", a.RollNumber)
	assert.Equal(t, "Asha", a.Name)
	assert.Equal(t, "A", a.Section)
	require.Len(t, a.Sessions, 2)
	assert.Equal(t, early.ID, a.Sessions[0].SessionID, "sessions are in date order")
	assert.Equal(t, 3.0, a.Sessions[0].Overall)
	assert.Equal(t, 4.0, a.Sessions[1].Overall)
	assert.Equal(t, 3.5, a.AverageScore)

	assert.Equal(t, "B", rows[1].RollNumber)
	assert.Equal(t, 2.0, rows[1].AverageScore)

	minScore := 3.0
	rows, err = f.analytics.Students(ctx, model.AnalyticsFilter{MinScore: &minScore}, prof)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].RollNumber)

	rows, err = f.analytics.Students(ctx, model.AnalyticsFilter{Section: "B"}, prof)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].RollNumber)

	rows, err = f.analytics.Students(ctx, model.AnalyticsFilter{Department: "ECE"}, prof)
	require.NoError(t, err)
	assert.Empty(t, rows)

	student := &model.Actor{Role: model.RoleStudent, RollNumber: "A"}
	_, err = f.analytics.Students(ctx, model.AnalyticsFilter{}, student)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

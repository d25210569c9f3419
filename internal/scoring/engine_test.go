package scoring

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func crit(a, r, l, n, i float64) model.Criteria {
	return model.Criteria{
		Articulation:           a,
		Relevance:              r,
		Leadership:             l,
		NonVerbalCommunication: n,
		Impression:             i,
	}
}

func eval(session uuid.UUID, student string, role model.Role, c model.Criteria) model.Evaluation {
	return model.Evaluation{
		ID:            uuid.New(),
		GDSessionID:   session,
		StudentID:     student,
		EvaluatorID:   uuid.New(),
		EvaluatorRole: role,
		Criteria:      c,
	}
}

func TestCalculateWorkedExample(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(8, 9, 7, 8, 9)),
		eval(s, "A", model.RoleInstructor, crit(6, 6, 6, 6, 6)),
	}

	got := Calculate(evals, s, "A")

	want := model.ScoreBreakdown{
		PeerAverage:      crit(8, 9, 7, 8, 9),
		InstructorScores: crit(6, 6, 6, 6, 6),
		FinalScores:      crit(7, 7.5, 6.5, 7, 7.5),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculateNoEvaluationsIsZero(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(8, 9, 7, 8, 9)),
	}

	assert.Equal(t, model.ScoreBreakdown{}, Calculate(evals, s, "B"))
	assert.Equal(t, model.ScoreBreakdown{}, Calculate(nil, s, "B"))
}

func TestCalculatePeerMean(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(10, 2, 5, 1, 3)),
		eval(s, "A", model.RoleStudent, crit(6, 4, 5, 2, 3)),
		eval(s, "A", model.RoleStudent, crit(5, 9, 5, 3, 9)),
	}

	got := Calculate(evals, s, "A")

	assert.Equal(t, crit(7, 5, 5, 2, 5), got.PeerAverage)
	assert.Equal(t, model.Criteria{}, got.InstructorScores)
	assert.Equal(t, crit(3.5, 2.5, 2.5, 1, 2.5), got.FinalScores)
}

func TestCalculateIgnoresUnrelatedEvaluations(t *testing.T) {
	s, other := uuid.New(), uuid.New()
	base := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(8, 8, 8, 8, 8)),
		eval(s, "A", model.RoleInstructor, crit(4, 4, 4, 4, 4)),
	}
	before := Calculate(base, s, "A")

	noisy := append([]model.Evaluation{
		eval(other, "A", model.RoleStudent, crit(1, 1, 1, 1, 1)),
		eval(s, "B", model.RoleInstructor, crit(10, 10, 10, 10, 10)),
	}, base...)
	noisy = append(noisy, eval(other, "A", model.RoleInstructor, crit(2, 2, 2, 2, 2)))

	assert.Equal(t, before, Calculate(noisy, s, "A"))
}

func TestCalculateUsesFirstInstructorOnly(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleInstructor, crit(9, 9, 9, 9, 9)),
		eval(s, "A", model.RoleInstructor, crit(1, 1, 1, 1, 1)),
	}

	got := Calculate(evals, s, "A")

	assert.Equal(t, crit(9, 9, 9, 9, 9), got.InstructorScores)
	assert.Equal(t, crit(4.5, 4.5, 4.5, 4.5, 4.5), got.FinalScores)
}

func TestCalculateFinalIsMidpoint(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(3, 7, 1, 10, 6)),
		eval(s, "A", model.RoleStudent, crit(4, 2, 9, 10, 5)),
		eval(s, "A", model.RoleInstructor, crit(8, 1, 3, 2, 7)),
	}

	got := Calculate(evals, s, "A")

	for _, c := range model.AllCriteria {
		want := (got.PeerAverage.Get(c) + got.InstructorScores.Get(c)) / 2
		assert.InDelta(t, want, got.FinalScores.Get(c), 1e-9, string(c))
	}
}

func TestCalculatePropagatesOutOfRangeValues(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(-4, 0, 42, 11, 1e6)),
		eval(s, "A", model.RoleInstructor, crit(100, -100, 0, 0.5, 0)),
	}

	got := Calculate(evals, s, "A")

	assert.Equal(t, crit(-4, 0, 42, 11, 1e6), got.PeerAverage)
	assert.Equal(t, crit(48, -50, 21, 5.75, 5e5), got.FinalScores)
	for _, c := range model.AllCriteria {
		assert.False(t, math.IsNaN(got.FinalScores.Get(c)))
	}
}

func TestCalculateIgnoresUnknownRoles(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.Role("guest"), crit(10, 10, 10, 10, 10)),
	}

	assert.Equal(t, model.ScoreBreakdown{}, Calculate(evals, s, "A"))
}

func TestOverall(t *testing.T) {
	assert.Equal(t, 7.0, Overall(crit(7, 7.5, 6.5, 7, 7)))
	assert.Zero(t, Overall(model.Criteria{}))
}

func TestMeanEmpty(t *testing.T) {
	assert.Equal(t, model.Criteria{}, Mean(nil))
}

func TestCount(t *testing.T) {
	s := uuid.New()
	evals := []model.Evaluation{
		eval(s, "A", model.RoleStudent, crit(1, 1, 1, 1, 1)),
		eval(s, "A", model.RoleInstructor, crit(1, 1, 1, 1, 1)),
		eval(s, "B", model.RoleStudent, crit(1, 1, 1, 1, 1)),
	}

	assert.Equal(t, 2, Count(evals, s, "A"))
	assert.Equal(t, 0, Count(evals, uuid.New(), "A"))
}

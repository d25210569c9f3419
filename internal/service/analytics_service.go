package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
	"github.com/stemsi/gdeval-backend/internal/scoring"
)

// AnalyticsService summarizes student performance across an instructor's sessions.
type AnalyticsService struct {
	sessions    repository.SessionStore
	evaluations repository.EvaluationStore
	users       repository.UserStore
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(sessions repository.SessionStore, evaluations repository.EvaluationStore, users repository.UserStore) *AnalyticsService {
	return &AnalyticsService{sessions: sessions, evaluations: evaluations, users: users}
}

// Students returns one row per student taking part in any session created by
// actor, ordered by roll number. Rows not matching filter are dropped.
func (s *AnalyticsService) Students(ctx context.Context, filter model.AnalyticsFilter, actor *model.Actor) ([]model.StudentAnalytics, error) {
	if actor == nil {
		return nil, ErrNotAuthenticated
	}
	if !actor.IsInstructor() {
		return nil, ErrNotAuthorized
	}

	sessions, err := s.sessions.ListCreatedBy(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	slices.SortStableFunc(sessions, func(a, b model.GDSession) int {
		return a.Date.Compare(b.Date)
	})

	rows := make(map[string]*model.StudentAnalytics)
	for _, gd := range sessions {
		evals, err := s.evaluations.ListForSession(ctx, gd.ID)
		if err != nil {
			return nil, fmt.Errorf("list evaluations: %w", err)
		}
		for _, roll := range gd.Participants {
			row, ok := rows[roll]
			if !ok {
				row = &model.StudentAnalytics{RollNumber: roll, Sessions: []model.SessionScore{}}
				rows[roll] = row
			}
			b := scoring.Calculate(evals, gd.ID, roll)
			row.Sessions = append(row.Sessions, model.SessionScore{
				SessionID: gd.ID,
				Topic:     gd.Topic,
				Date:      gd.Date,
				Overall:   scoring.Overall(b.FinalScores),
			})
		}
	}

	rolls := make([]string, 0, len(rows))
	for roll := range rows {
		rolls = append(rolls, roll)
	}
	users, err := s.users.ListByRollNumbers(ctx, rolls)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	for _, u := range users {
		row := rows[u.RollNumber()]
		row.Name = u.Name
		row.Department = u.Student.Department
		row.Section = u.Student.Section
		row.Year = u.Student.Year
	}

	out := make([]model.StudentAnalytics, 0, len(rows))
	for _, row := range rows {
		var sum float64
		for _, sc := range row.Sessions {
			sum += sc.Overall
		}
		row.AverageScore = sum / float64(len(row.Sessions))
		if matches(row, filter) {
			out = append(out, *row)
		}
	}
	slices.SortFunc(out, func(a, b model.StudentAnalytics) int {
		return cmp.Compare(a.RollNumber, b.RollNumber)
	})
	return out, nil
}

func matches(row *model.StudentAnalytics, f model.AnalyticsFilter) bool {
	switch {
	case f.Section != "" && row.Section != f.Section:
		return false
	case f.Department != "" && row.Department != f.Department:
		return false
	case f.Year != "" && row.Year != f.Year:
		return false
	case f.MinScore != nil && row.AverageScore < *f.MinScore:
		return false
	}
	return true
}

package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

// UserStore keeps accounts in a map with email and roll number indexes.
type UserStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
	byRoll  map[string]uuid.UUID
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
		byRoll:  make(map[string]uuid.UUID),
	}
}

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return repository.ErrDuplicate
	}
	roll := u.RollNumber()
	if roll != "" {
		if _, ok := s.byRoll[roll]; ok {
			return repository.ErrDuplicate
		}
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = cloneUser(*u)
	s.byEmail[email] = u.ID
	if roll != "" {
		s.byRoll[roll] = u.ID
	}
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[strings.ToLower(email)]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) ListByRollNumbers(_ context.Context, rollNumbers []string) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.User
	for _, roll := range rollNumbers {
		if id, ok := s.byRoll[roll]; ok {
			out = append(out, cloneUser(s.users[id]))
		}
	}
	slices.SortFunc(out, func(a, b model.User) int {
		return strings.Compare(a.RollNumber(), b.RollNumber())
	})
	return slices.CompactFunc(out, func(a, b model.User) bool { return a.ID == b.ID }), nil
}

// Update saves the name and profile. The roll number and role stay as stored.
func (s *UserStore) Update(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name = u.Name
	switch {
	case cur.Student != nil && u.Student != nil:
		cur.Student = &model.StudentProfile{
			RollNumber: cur.Student.RollNumber,
			Department: u.Student.Department,
			Section:    u.Student.Section,
			Year:       u.Student.Year,
		}
	case cur.Instructor != nil && u.Instructor != nil:
		cur.Instructor = &model.InstructorProfile{Designation: u.Instructor.Designation}
	}
	s.users[u.ID] = cur
	return nil
}

func cloneUser(u model.User) model.User {
	if u.Student != nil {
		p := *u.Student
		u.Student = &p
	}
	if u.Instructor != nil {
		p := *u.Instructor
		u.Instructor = &p
	}
	return u
}

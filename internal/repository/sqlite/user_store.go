package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/gdeval-backend/internal/model"
	"github.com/stemsi/gdeval-backend/internal/repository"
)

const userColumns = `id, name, email, password_hash, role, roll_number, department, section, year, designation, created_at`

// UserStore persists accounts.
type UserStore struct {
	db *sql.DB
}

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	f := repository.UserFieldsOf(u)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, u.PasswordHash, string(u.Role), f.RollNumber,
		f.Department, f.Section, f.Year, f.Designation, toMillis(u.CreatedAt),
	)
	return mapError(err)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id.String()))
	return u, mapError(err)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	return u, mapError(err)
}

func (s *UserStore) ListByRollNumbers(ctx context.Context, rollNumbers []string) ([]model.User, error) {
	if len(rollNumbers) == 0 {
		return nil, nil
	}
	args := make([]any, len(rollNumbers))
	for i, r := range rollNumbers {
		args[i] = r
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role = 'student' AND roll_number IN (`+placeholders(len(args))+`)
		 ORDER BY roll_number`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) Update(ctx context.Context, u *model.User) error {
	f := repository.UserFieldsOf(u)
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, department = ?, section = ?, year = ?, designation = ? WHERE id = ?`,
		u.Name, f.Department, f.Section, f.Year, f.Designation, u.ID.String(),
	)
	if err != nil {
		return mapError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		f         repository.UserFields
		id, role  string
		roll      sql.NullString
		createdAt int64
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &role, &roll,
		&f.Department, &f.Section, &f.Year, &f.Designation, &createdAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	u.ID = parsed
	u.Role = model.Role(role)
	u.CreatedAt = fromMillis(createdAt)
	if roll.Valid {
		f.RollNumber = &roll.String
	}
	f.Apply(&u)
	return &u, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/gdeval-backend/internal/model"
)

const userColumns = `id, name, email, password_hash, role, roll_number, department, section, year, designation, created_at`

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. A zero ID is replaced with a fresh one.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f := UserFieldsOf(u)
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, roll_number, department, section, year, designation)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, f.RollNumber, f.Department, f.Section, f.Year, f.Designation,
	).Scan(&u.CreatedAt)
	return mapPgError(err)
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = $1`, strings.ToLower(email))
}

// ListByRollNumbers retrieves the students registered under the given roll numbers.
func (r *UserRepository) ListByRollNumbers(ctx context.Context, rollNumbers []string) ([]model.User, error) {
	if len(rollNumbers) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role = 'student' AND roll_number = ANY($1::text[])
		 ORDER BY roll_number`, rollNumbers)
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

// Update saves the name and role profile of a user. Email, password and role
// are left untouched.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	f := UserFieldsOf(u)
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, department = $2, section = $3, year = $4, designation = $5
		 WHERE id = $6`,
		u.Name, f.Department, f.Section, f.Year, f.Designation, u.ID,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return u, err
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u model.User
		f UserFields
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &f.RollNumber,
		&f.Department, &f.Section, &f.Year, &f.Designation, &u.CreatedAt); err != nil {
		return nil, err
	}
	f.Apply(&u)
	return &u, nil
}

// mapPgError translates unique violations into ErrDuplicate.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

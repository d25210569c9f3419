package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/gdeval-backend/internal/model"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	base := model.RegisterRequest{
		Name: "Asha", Email: "Asha@Example.com", Password: "secret123",
		Role: model.RoleStudent, RollNumber: "CS01", Department: "CSE", Section: "A", Year: "3",
	}

	t.Run("student", func(t *testing.T) {
		f := newFixture(t)
		u, err := f.users.Register(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", u.Email)
		assert.Equal(t, "CS01", u.RollNumber())
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "secret123", u.PasswordHash)
	})

	t.Run("instructor", func(t *testing.T) {
		f := newFixture(t)
		u, err := f.users.Register(ctx, model.RegisterRequest{
			Name: "Dr. Rao", Email: "rao@example.com", Password: "secret123",
			Role: model.RoleInstructor, Designation: "Professor",
		})
		require.NoError(t, err)
		require.NotNil(t, u.Instructor)
		assert.Nil(t, u.Student)
		assert.Equal(t, "Professor", u.Instructor.Designation)
	})

	t.Run("incomplete profiles", func(t *testing.T) {
		f := newFixture(t)
		noRoll := base
		noRoll.RollNumber = "  "
		_, err := f.users.Register(ctx, noRoll)
		assert.ErrorIs(t, err, ErrProfileIncomplete)

		noDesignation := model.RegisterRequest{Name: "X", Email: "x@example.com", Password: "secret123", Role: model.RoleInstructor}
		_, err = f.users.Register(ctx, noDesignation)
		assert.ErrorIs(t, err, ErrProfileIncomplete)
	})

	t.Run("duplicates", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Register(ctx, base)
		require.NoError(t, err)

		sameEmail := base
		sameEmail.RollNumber = "CS02"
		_, err = f.users.Register(ctx, sameEmail)
		assert.ErrorIs(t, err, ErrEmailTaken)

		sameRoll := base
		sameRoll.Email = "other@example.com"
		_, err = f.users.Register(ctx, sameRoll)
		assert.ErrorIs(t, err, ErrRollNumberTaken)
	})
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "Asha", "CS01", "A")

	u, err := f.users.Authenticate(ctx, " CS01@example.com ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Asha", u.Name)

	_, err = f.users.Authenticate(ctx, "CS01@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "ghost@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.student(t, "Asha", "CS01", "A")

	u, err := f.users.UpdateProfile(ctx, student, model.UpdateProfileRequest{Name: "Asha K", Section: "B"})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", u.Name)
	assert.Equal(t, "B", u.Student.Section)
	assert.Equal(t, "CSE", u.Student.Department)
	assert.Equal(t, "CS01", u.RollNumber())

	stored, err := f.users.GetByID(ctx, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", stored.Name)
	assert.Equal(t, "B", stored.Student.Section)

	_, err = f.users.UpdateProfile(ctx, nil, model.UpdateProfileRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

package repository

import "github.com/stemsi/gdeval-backend/internal/model"

// UserFields is the flat column form of a user's role profile, shared by the
// SQL drivers.
type UserFields struct {
	// RollNumber is nil for instructors so the unique index ignores them.
	RollNumber  *string
	Department  string
	Section     string
	Year        string
	Designation string
}

// UserFieldsOf flattens u's profile.
func UserFieldsOf(u *model.User) UserFields {
	var f UserFields
	switch {
	case u.Role == model.RoleStudent && u.Student != nil:
		roll := u.Student.RollNumber
		f.RollNumber = &roll
		f.Department = u.Student.Department
		f.Section = u.Student.Section
		f.Year = u.Student.Year
	case u.Role == model.RoleInstructor && u.Instructor != nil:
		f.Designation = u.Instructor.Designation
	}
	return f
}

// Apply sets the profile matching u.Role from the flat columns.
func (f UserFields) Apply(u *model.User) {
	u.Student, u.Instructor = nil, nil
	switch u.Role {
	case model.RoleStudent:
		p := &model.StudentProfile{Department: f.Department, Section: f.Section, Year: f.Year}
		if f.RollNumber != nil {
			p.RollNumber = *f.RollNumber
		}
		u.Student = p
	case model.RoleInstructor:
		u.Instructor = &model.InstructorProfile{Designation: f.Designation}
	}
}

package model

import "time"

// Account is a credential holder that can obtain access tokens.
// The plaintext password is never stored; only the bcrypt hash.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Person holds the fields shared by learners and staff. Email is the
// shared identity across both subtypes and is immutable after creation.
type Person struct {
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Learner is a person enrolled in programs. PrimaryProgramID is the
// at-most-one major link; SecondaryProgramIDs is the by-learner view of
// the many-to-many minor edge set.
type Learner struct {
	Person
	LearnerID           string
	PrimaryProgramID    *string
	SecondaryProgramIDs []string
}

// Staff is a person who teaches programs. ProgramIDsTaught is a derived
// view over Program.TeachingStaffID, never stored independently.
type Staff struct {
	Person
	StaffID          string
	ProgramIDsTaught []string
}

// Program is the taxonomy entity learners major or minor in and staff
// teach. The learner ID slices are reverse views derived from the same
// underlying state as the learner-side fields.
type Program struct {
	ProgramID           string
	Name                string
	Description         string
	TeachingStaffID     *string
	PrimaryLearnerIDs   []string
	SecondaryLearnerIDs []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

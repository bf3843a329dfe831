package store

import (
	"context"
	"errors"

	"github.com/vijay-1577/campus-registry/internal/model"
)

// Domain error sentinels. Multi-step mutations never partially commit:
// an operation that returns one of these has left the store unchanged.
var (
	ErrNotFound           = errors.New("registry: not found")
	ErrDuplicateIdentity  = errors.New("registry: identity already exists")
	ErrDuplicateID        = errors.New("registry: public id already exists")
	ErrInvalidReference   = errors.New("registry: referenced record does not exist")
	ErrImmutableField     = errors.New("registry: field is immutable")
	ErrInvalidCredentials = errors.New("registry: invalid credentials")
	ErrValidation         = errors.New("registry: invalid input")
)

// LearnerUpdate is a partial update. Nil fields stay unchanged. An empty
// PrimaryProgramID clears the reference; a non-nil SecondaryProgramIDs
// replaces the whole edge set (already parsed; duplicates collapse).
type LearnerUpdate struct {
	FirstName           *string
	LastName            *string
	PrimaryProgramID    *string
	SecondaryProgramIDs *[]string
}

// StaffUpdate is a partial update. A non-nil ProgramIDsTaught replaces the
// full set of programs this staff member teaches.
type StaffUpdate struct {
	FirstName        *string
	LastName         *string
	ProgramIDsTaught *[]string
}

// ProgramUpdate is a partial update. An empty TeachingStaffID clears the
// reference.
type ProgramUpdate struct {
	Name            *string
	Description     *string
	TeachingStaffID *string
}

// Store is the record store shared by all requests. Every multi-step
// relationship mutation is atomic: concurrent readers observe either the
// old state or the new state, never a partial mix.
type Store interface {
	CreateAccount(ctx context.Context, account model.Account) error
	GetAccount(ctx context.Context, id string) (model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (model.Account, error)
	UpdateAccountPassword(ctx context.Context, id, passwordHash string) error

	CreateLearner(ctx context.Context, learner model.Learner) (model.Learner, error)
	GetLearner(ctx context.Context, learnerID string) (model.Learner, error)
	ListLearners(ctx context.Context, offset, limit int) ([]model.Learner, int, error)
	UpdateLearner(ctx context.Context, learnerID string, update LearnerUpdate) (model.Learner, error)
	DeleteLearner(ctx context.Context, learnerID string) error

	CreateStaff(ctx context.Context, staff model.Staff) (model.Staff, error)
	GetStaff(ctx context.Context, staffID string) (model.Staff, error)
	ListStaff(ctx context.Context, offset, limit int) ([]model.Staff, int, error)
	UpdateStaff(ctx context.Context, staffID string, update StaffUpdate) (model.Staff, error)
	DeleteStaff(ctx context.Context, staffID string) error

	CreateProgram(ctx context.Context, program model.Program) (model.Program, error)
	GetProgram(ctx context.Context, programID string) (model.Program, error)
	ListPrograms(ctx context.Context, offset, limit int) ([]model.Program, int, error)
	UpdateProgram(ctx context.Context, programID string, update ProgramUpdate) (model.Program, error)
	DeleteProgram(ctx context.Context, programID string) error

	Close()
}

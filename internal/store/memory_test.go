package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/vijay-1577/campus-registry/internal/model"
)

func newTestStore(t *testing.T) *Memory {
	t.Helper()
	return NewMemory()
}

func seedProgram(t *testing.T, s *Memory, programID string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := s.CreateProgram(context.Background(), model.Program{
		ProgramID: programID,
		Name:      "Program " + programID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed program %s: %v", programID, err)
	}
}

func seedLearner(t *testing.T, s *Memory, learnerID, email string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := s.CreateLearner(context.Background(), model.Learner{
		Person: model.Person{
			Email:     email,
			FirstName: "Ada",
			LastName:  "Lovelace",
			CreatedAt: now,
			UpdatedAt: now,
		},
		LearnerID: learnerID,
	})
	if err != nil {
		t.Fatalf("seed learner %s: %v", learnerID, err)
	}
}

func seedStaff(t *testing.T, s *Memory, staffID, email string) {
	t.Helper()
	now := time.Now().UTC()
	_, err := s.CreateStaff(context.Background(), model.Staff{
		Person: model.Person{
			Email:     email,
			FirstName: "Grace",
			LastName:  "Hopper",
			CreatedAt: now,
			UpdatedAt: now,
		},
		StaffID: staffID,
	})
	if err != nil {
		t.Fatalf("seed staff %s: %v", staffID, err)
	}
}

func replaceSecondary(t *testing.T, s *Memory, learnerID string, programIDs []string) model.Learner {
	t.Helper()
	learner, err := s.UpdateLearner(context.Background(), learnerID, LearnerUpdate{
		SecondaryProgramIDs: &programIDs,
	})
	if err != nil {
		t.Fatalf("replace secondary: %v", err)
	}
	return learner
}

func TestSecondaryReplaceCollapsesDuplicates(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedProgram(t, s, "PR2")
	seedLearner(t, s, "LN1", "ada@example.com")

	learner := replaceSecondary(t, s, "LN1", []string{"PR1", "PR2", "PR1"})
	if !reflect.DeepEqual(learner.SecondaryProgramIDs, []string{"PR1", "PR2"}) {
		t.Fatalf("expected {PR1, PR2}, got %v", learner.SecondaryProgramIDs)
	}

	for _, programID := range []string{"PR1", "PR2"} {
		program, err := s.GetProgram(context.Background(), programID)
		if err != nil {
			t.Fatalf("get program: %v", err)
		}
		if !reflect.DeepEqual(program.SecondaryLearnerIDs, []string{"LN1"}) {
			t.Fatalf("program %s reverse view = %v", programID, program.SecondaryLearnerIDs)
		}
	}
}

func TestSecondaryReplaceFailureIsNoOp(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedProgram(t, s, "PR2")
	seedLearner(t, s, "LN1", "ada@example.com")
	replaceSecondary(t, s, "LN1", []string{"PR1", "PR2"})

	_, err := s.UpdateLearner(context.Background(), "LN1", LearnerUpdate{
		SecondaryProgramIDs: &[]string{"PR1", "PR404"},
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	learner, err := s.GetLearner(context.Background(), "LN1")
	if err != nil {
		t.Fatalf("get learner: %v", err)
	}
	if !reflect.DeepEqual(learner.SecondaryProgramIDs, []string{"PR1", "PR2"}) {
		t.Fatalf("failed update must leave the set unchanged, got %v", learner.SecondaryProgramIDs)
	}
	program, err := s.GetProgram(context.Background(), "PR2")
	if err != nil {
		t.Fatalf("get program: %v", err)
	}
	if !reflect.DeepEqual(program.SecondaryLearnerIDs, []string{"LN1"}) {
		t.Fatalf("reverse view must be unchanged, got %v", program.SecondaryLearnerIDs)
	}
}

func TestSecondaryReplaceIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedProgram(t, s, "PR2")
	seedLearner(t, s, "LN1", "ada@example.com")

	first := replaceSecondary(t, s, "LN1", []string{"PR1", "PR2"})
	second := replaceSecondary(t, s, "LN1", []string{"PR1", "PR2"})
	if !reflect.DeepEqual(first.SecondaryProgramIDs, second.SecondaryProgramIDs) {
		t.Fatalf("resubmission changed state: %v vs %v", first.SecondaryProgramIDs, second.SecondaryProgramIDs)
	}
}

func TestSecondaryReplaceWithEmptyList(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedLearner(t, s, "LN1", "ada@example.com")
	replaceSecondary(t, s, "LN1", []string{"PR1"})

	learner := replaceSecondary(t, s, "LN1", []string{})
	if len(learner.SecondaryProgramIDs) != 0 {
		t.Fatalf("expected cleared set, got %v", learner.SecondaryProgramIDs)
	}
	program, err := s.GetProgram(context.Background(), "PR1")
	if err != nil {
		t.Fatalf("get program: %v", err)
	}
	if len(program.SecondaryLearnerIDs) != 0 {
		t.Fatalf("expected cleared reverse view, got %v", program.SecondaryLearnerIDs)
	}
}

func TestPrimaryProgramUpdate(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedProgram(t, s, "PR2")
	seedLearner(t, s, "LN1", "ada@example.com")

	primary := "PR1"
	learner, err := s.UpdateLearner(context.Background(), "LN1", LearnerUpdate{PrimaryProgramID: &primary})
	if err != nil {
		t.Fatalf("set primary: %v", err)
	}
	if learner.PrimaryProgramID == nil || *learner.PrimaryProgramID != "PR1" {
		t.Fatalf("unexpected primary: %v", learner.PrimaryProgramID)
	}
	program, _ := s.GetProgram(context.Background(), "PR1")
	if !reflect.DeepEqual(program.PrimaryLearnerIDs, []string{"LN1"}) {
		t.Fatalf("reverse view = %v", program.PrimaryLearnerIDs)
	}

	// Moving the reference updates both reverse views immediately.
	primary = "PR2"
	if _, err := s.UpdateLearner(context.Background(), "LN1", LearnerUpdate{PrimaryProgramID: &primary}); err != nil {
		t.Fatalf("move primary: %v", err)
	}
	old, _ := s.GetProgram(context.Background(), "PR1")
	if len(old.PrimaryLearnerIDs) != 0 {
		t.Fatalf("old program still lists learner: %v", old.PrimaryLearnerIDs)
	}

	// Clearing with an empty value.
	cleared := ""
	learner, err = s.UpdateLearner(context.Background(), "LN1", LearnerUpdate{PrimaryProgramID: &cleared})
	if err != nil {
		t.Fatalf("clear primary: %v", err)
	}
	if learner.PrimaryProgramID != nil {
		t.Fatalf("expected cleared primary, got %v", *learner.PrimaryProgramID)
	}

	bogus := "PR404"
	if _, err := s.UpdateLearner(context.Background(), "LN1", LearnerUpdate{PrimaryProgramID: &bogus}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestStaffProgramsTaughtReplace(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedProgram(t, s, "PR2")
	seedProgram(t, s, "PR3")
	seedStaff(t, s, "SF1", "grace@example.com")

	staff, err := s.UpdateStaff(context.Background(), "SF1", StaffUpdate{
		ProgramIDsTaught: &[]string{"PR1", "PR2"},
	})
	if err != nil {
		t.Fatalf("assign programs: %v", err)
	}
	if !reflect.DeepEqual(staff.ProgramIDsTaught, []string{"PR1", "PR2"}) {
		t.Fatalf("unexpected taught set: %v", staff.ProgramIDsTaught)
	}
	program, _ := s.GetProgram(context.Background(), "PR1")
	if program.TeachingStaffID == nil || *program.TeachingStaffID != "SF1" {
		t.Fatalf("program side not updated: %v", program.TeachingStaffID)
	}

	// Replacing drops PR1 and picks up PR3.
	staff, err = s.UpdateStaff(context.Background(), "SF1", StaffUpdate{
		ProgramIDsTaught: &[]string{"PR2", "PR3"},
	})
	if err != nil {
		t.Fatalf("replace programs: %v", err)
	}
	if !reflect.DeepEqual(staff.ProgramIDsTaught, []string{"PR2", "PR3"}) {
		t.Fatalf("unexpected taught set: %v", staff.ProgramIDsTaught)
	}
	dropped, _ := s.GetProgram(context.Background(), "PR1")
	if dropped.TeachingStaffID != nil {
		t.Fatalf("dropped program still has a teacher: %v", *dropped.TeachingStaffID)
	}

	// A bad id aborts the whole replacement.
	_, err = s.UpdateStaff(context.Background(), "SF1", StaffUpdate{
		ProgramIDsTaught: &[]string{"PR1", "PR404"},
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	staff, _ = s.GetStaff(context.Background(), "SF1")
	if !reflect.DeepEqual(staff.ProgramIDsTaught, []string{"PR2", "PR3"}) {
		t.Fatalf("failed replace mutated state: %v", staff.ProgramIDsTaught)
	}
}

func TestProgramHasAtMostOneTeacher(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedStaff(t, s, "SF1", "grace@example.com")
	seedStaff(t, s, "SF2", "alan@example.com")

	if _, err := s.UpdateStaff(context.Background(), "SF1", StaffUpdate{ProgramIDsTaught: &[]string{"PR1"}}); err != nil {
		t.Fatalf("assign SF1: %v", err)
	}
	if _, err := s.UpdateStaff(context.Background(), "SF2", StaffUpdate{ProgramIDsTaught: &[]string{"PR1"}}); err != nil {
		t.Fatalf("assign SF2: %v", err)
	}

	program, _ := s.GetProgram(context.Background(), "PR1")
	if program.TeachingStaffID == nil || *program.TeachingStaffID != "SF2" {
		t.Fatalf("expected SF2 to own PR1, got %v", program.TeachingStaffID)
	}
	first, _ := s.GetStaff(context.Background(), "SF1")
	if len(first.ProgramIDsTaught) != 0 {
		t.Fatalf("SF1 must no longer teach PR1: %v", first.ProgramIDsTaught)
	}
}

func TestDeleteProgramDetachesReferences(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedProgram(t, s, "PR2")
	seedLearner(t, s, "LN1", "ada@example.com")
	seedStaff(t, s, "SF1", "grace@example.com")

	primary := "PR1"
	if _, err := s.UpdateLearner(context.Background(), "LN1", LearnerUpdate{
		PrimaryProgramID:    &primary,
		SecondaryProgramIDs: &[]string{"PR1", "PR2"},
	}); err != nil {
		t.Fatalf("wire learner: %v", err)
	}
	if _, err := s.UpdateStaff(context.Background(), "SF1", StaffUpdate{ProgramIDsTaught: &[]string{"PR1"}}); err != nil {
		t.Fatalf("wire staff: %v", err)
	}

	if err := s.DeleteProgram(context.Background(), "PR1"); err != nil {
		t.Fatalf("delete program: %v", err)
	}

	learner, _ := s.GetLearner(context.Background(), "LN1")
	if learner.PrimaryProgramID != nil {
		t.Fatalf("dangling primary reference: %v", *learner.PrimaryProgramID)
	}
	if !reflect.DeepEqual(learner.SecondaryProgramIDs, []string{"PR2"}) {
		t.Fatalf("secondary set not detached: %v", learner.SecondaryProgramIDs)
	}
	staff, _ := s.GetStaff(context.Background(), "SF1")
	if len(staff.ProgramIDsTaught) != 0 {
		t.Fatalf("staff still teaches deleted program: %v", staff.ProgramIDsTaught)
	}
	if _, err := s.GetProgram(context.Background(), "PR1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteStaffDetachesPrograms(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedStaff(t, s, "SF1", "grace@example.com")
	if _, err := s.UpdateStaff(context.Background(), "SF1", StaffUpdate{ProgramIDsTaught: &[]string{"PR1"}}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := s.DeleteStaff(context.Background(), "SF1"); err != nil {
		t.Fatalf("delete staff: %v", err)
	}
	program, _ := s.GetProgram(context.Background(), "PR1")
	if program.TeachingStaffID != nil {
		t.Fatalf("dangling teacher reference: %v", *program.TeachingStaffID)
	}
}

func TestDeleteLearnerRemovesEdges(t *testing.T) {
	s := newTestStore(t)
	seedProgram(t, s, "PR1")
	seedLearner(t, s, "LN1", "ada@example.com")
	replaceSecondary(t, s, "LN1", []string{"PR1"})

	if err := s.DeleteLearner(context.Background(), "LN1"); err != nil {
		t.Fatalf("delete learner: %v", err)
	}
	program, _ := s.GetProgram(context.Background(), "PR1")
	if len(program.SecondaryLearnerIDs) != 0 {
		t.Fatalf("edge survived learner deletion: %v", program.SecondaryLearnerIDs)
	}

	// The email is released for reuse once the learner is gone.
	seedLearner(t, s, "LN2", "ada@example.com")
}

func TestEmailUniqueAcrossSubtypes(t *testing.T) {
	s := newTestStore(t)
	seedLearner(t, s, "LN1", "shared@example.com")

	now := time.Now().UTC()
	_, err := s.CreateStaff(context.Background(), model.Staff{
		Person: model.Person{
			Email:     "shared@example.com",
			FirstName: "Grace",
			LastName:  "Hopper",
			CreatedAt: now,
			UpdatedAt: now,
		},
		StaffID: "SF1",
	})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestDuplicatePublicID(t *testing.T) {
	s := newTestStore(t)
	seedLearner(t, s, "LN1", "ada@example.com")

	now := time.Now().UTC()
	_, err := s.CreateLearner(context.Background(), model.Learner{
		Person: model.Person{
			Email:     "other@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			CreatedAt: now,
			UpdatedAt: now,
		},
		LearnerID: "LN1",
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestCreateLearnerWithBadReferenceIsNoOp(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	_, err := s.CreateLearner(context.Background(), model.Learner{
		Person: model.Person{
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			CreatedAt: now,
			UpdatedAt: now,
		},
		LearnerID:           "LN1",
		SecondaryProgramIDs: []string{"PR404"},
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	if _, err := s.GetLearner(context.Background(), "LN1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("aborted create must not leave a record, got %v", err)
	}
	// The email must not be reserved by the failed create.
	seedLearner(t, s, "LN1", "ada@example.com")
}

func TestListOrderingAndWindow(t *testing.T) {
	s := newTestStore(t)
	for i := 1; i <= 25; i++ {
		seedLearner(t, s, fmt.Sprintf("LN%03d", i), fmt.Sprintf("learner%02d@example.com", i))
	}

	items, total, err := s.ListLearners(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 25 || len(items) != 20 {
		t.Fatalf("expected 20 of 25, got %d of %d", len(items), total)
	}
	if items[0].LearnerID != "LN001" || items[19].LearnerID != "LN020" {
		t.Fatalf("unexpected ordering: %s .. %s", items[0].LearnerID, items[19].LearnerID)
	}

	items, _, err = s.ListLearners(context.Background(), 20, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items on the second window, got %d", len(items))
	}

	items, _, err = s.ListLearners(context.Background(), 40, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty window, got %d", len(items))
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	account := model.Account{
		ID:           "acct-1",
		Username:     "registrar",
		PasswordHash: "hash-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := s.CreateAccount(context.Background(), model.Account{ID: "acct-2", Username: "registrar"}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}

	got, err := s.GetAccountByUsername(context.Background(), "registrar")
	if err != nil || got.ID != "acct-1" {
		t.Fatalf("lookup failed: %v %v", got, err)
	}

	if err := s.UpdateAccountPassword(context.Background(), "acct-1", "hash-2"); err != nil {
		t.Fatalf("rotate password: %v", err)
	}
	got, _ = s.GetAccount(context.Background(), "acct-1")
	if got.PasswordHash != "hash-2" {
		t.Fatalf("password hash not rotated")
	}
}

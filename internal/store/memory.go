package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vijay-1577/campus-registry/internal/model"
)

// edge is one learner/program pairing in the secondary-program edge set.
// The by-learner and by-program collections are both derived from this
// one set, so the two sides can never drift apart.
type edge struct {
	LearnerID string
	ProgramID string
}

type learnerRecord struct {
	model.Person
	LearnerID        string
	PrimaryProgramID *string
}

type staffRecord struct {
	model.Person
	StaffID string
}

type programRecord struct {
	ProgramID       string
	Name            string
	Description     string
	TeachingStaffID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Memory implements Store with in-process concurrency safety. It is the
// default store when no database is configured and backs the test suite.
type Memory struct {
	mu        sync.RWMutex
	accounts  map[string]*model.Account // account id -> account
	usernames map[string]string         // username -> account id
	learners  map[string]*learnerRecord // learner id -> record
	staff     map[string]*staffRecord   // staff id -> record
	programs  map[string]*programRecord // program id -> record
	emails    map[string]string         // email -> public id (shared identity space)
	edges     map[edge]struct{}         // secondary-program edge set
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts:  make(map[string]*model.Account),
		usernames: make(map[string]string),
		learners:  make(map[string]*learnerRecord),
		staff:     make(map[string]*staffRecord),
		programs:  make(map[string]*programRecord),
		emails:    make(map[string]string),
		edges:     make(map[edge]struct{}),
	}
}

func (s *Memory) Close() {}

// Accounts

func (s *Memory) CreateAccount(ctx context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[account.Username]; ok {
		return ErrDuplicateIdentity
	}
	stored := account
	s.accounts[account.ID] = &stored
	s.usernames[account.Username] = account.ID
	return nil
}

func (s *Memory) GetAccount(ctx context.Context, id string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return *account, nil
}

func (s *Memory) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return *s.accounts[id], nil
}

func (s *Memory) UpdateAccountPassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now().UTC()
	return nil
}

// Learners

func (s *Memory) CreateLearner(ctx context.Context, learner model.Learner) (model.Learner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.learners[learner.LearnerID]; ok {
		return model.Learner{}, ErrDuplicateID
	}
	if _, ok := s.emails[learner.Email]; ok {
		return model.Learner{}, ErrDuplicateIdentity
	}
	if learner.PrimaryProgramID != nil {
		if _, ok := s.programs[*learner.PrimaryProgramID]; !ok {
			return model.Learner{}, ErrInvalidReference
		}
	}
	secondary := dedupe(learner.SecondaryProgramIDs)
	for _, programID := range secondary {
		if _, ok := s.programs[programID]; !ok {
			return model.Learner{}, ErrInvalidReference
		}
	}

	record := &learnerRecord{
		Person:           learner.Person,
		LearnerID:        learner.LearnerID,
		PrimaryProgramID: learner.PrimaryProgramID,
	}
	s.learners[learner.LearnerID] = record
	s.emails[learner.Email] = learner.LearnerID
	for _, programID := range secondary {
		s.edges[edge{LearnerID: learner.LearnerID, ProgramID: programID}] = struct{}{}
	}
	return s.learnerView(record), nil
}

func (s *Memory) GetLearner(ctx context.Context, learnerID string) (model.Learner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.learners[learnerID]
	if !ok {
		return model.Learner{}, ErrNotFound
	}
	return s.learnerView(record), nil
}

func (s *Memory) ListLearners(ctx context.Context, offset, limit int) ([]model.Learner, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := sortedKeys(s.learners)
	page := pageSlice(keys, offset, limit)
	items := make([]model.Learner, 0, len(page))
	for _, id := range page {
		items = append(items, s.learnerView(s.learners[id]))
	}
	return items, len(keys), nil
}

func (s *Memory) UpdateLearner(ctx context.Context, learnerID string, update LearnerUpdate) (model.Learner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.learners[learnerID]
	if !ok {
		return model.Learner{}, ErrNotFound
	}

	// Resolve every reference before mutating anything so a bad id
	// leaves the record and the edge set completely unchanged.
	var newPrimary *string
	if update.PrimaryProgramID != nil && *update.PrimaryProgramID != "" {
		if _, ok := s.programs[*update.PrimaryProgramID]; !ok {
			return model.Learner{}, ErrInvalidReference
		}
		target := *update.PrimaryProgramID
		newPrimary = &target
	}
	var newSecondary []string
	if update.SecondaryProgramIDs != nil {
		newSecondary = dedupe(*update.SecondaryProgramIDs)
		for _, programID := range newSecondary {
			if _, ok := s.programs[programID]; !ok {
				return model.Learner{}, ErrInvalidReference
			}
		}
	}

	if update.FirstName != nil {
		record.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		record.LastName = *update.LastName
	}
	if update.PrimaryProgramID != nil {
		record.PrimaryProgramID = newPrimary
	}
	if update.SecondaryProgramIDs != nil {
		for e := range s.edges {
			if e.LearnerID == learnerID {
				delete(s.edges, e)
			}
		}
		for _, programID := range newSecondary {
			s.edges[edge{LearnerID: learnerID, ProgramID: programID}] = struct{}{}
		}
	}
	record.UpdatedAt = time.Now().UTC()
	return s.learnerView(record), nil
}

func (s *Memory) DeleteLearner(ctx context.Context, learnerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.learners[learnerID]
	if !ok {
		return ErrNotFound
	}
	for e := range s.edges {
		if e.LearnerID == learnerID {
			delete(s.edges, e)
		}
	}
	delete(s.emails, record.Email)
	delete(s.learners, learnerID)
	return nil
}

// Staff

func (s *Memory) CreateStaff(ctx context.Context, staff model.Staff) (model.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.staff[staff.StaffID]; ok {
		return model.Staff{}, ErrDuplicateID
	}
	if _, ok := s.emails[staff.Email]; ok {
		return model.Staff{}, ErrDuplicateIdentity
	}
	taught := dedupe(staff.ProgramIDsTaught)
	for _, programID := range taught {
		if _, ok := s.programs[programID]; !ok {
			return model.Staff{}, ErrInvalidReference
		}
	}

	record := &staffRecord{Person: staff.Person, StaffID: staff.StaffID}
	s.staff[staff.StaffID] = record
	s.emails[staff.Email] = staff.StaffID
	for _, programID := range taught {
		staffID := staff.StaffID
		s.programs[programID].TeachingStaffID = &staffID
	}
	return s.staffView(record), nil
}

func (s *Memory) GetStaff(ctx context.Context, staffID string) (model.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.staff[staffID]
	if !ok {
		return model.Staff{}, ErrNotFound
	}
	return s.staffView(record), nil
}

func (s *Memory) ListStaff(ctx context.Context, offset, limit int) ([]model.Staff, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := sortedKeys(s.staff)
	page := pageSlice(keys, offset, limit)
	items := make([]model.Staff, 0, len(page))
	for _, id := range page {
		items = append(items, s.staffView(s.staff[id]))
	}
	return items, len(keys), nil
}

func (s *Memory) UpdateStaff(ctx context.Context, staffID string, update StaffUpdate) (model.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.staff[staffID]
	if !ok {
		return model.Staff{}, ErrNotFound
	}

	var taught []string
	if update.ProgramIDsTaught != nil {
		taught = dedupe(*update.ProgramIDsTaught)
		for _, programID := range taught {
			if _, ok := s.programs[programID]; !ok {
				return model.Staff{}, ErrInvalidReference
			}
		}
	}

	if update.FirstName != nil {
		record.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		record.LastName = *update.LastName
	}
	if update.ProgramIDsTaught != nil {
		for _, program := range s.programs {
			if program.TeachingStaffID != nil && *program.TeachingStaffID == staffID {
				program.TeachingStaffID = nil
			}
		}
		for _, programID := range taught {
			owner := staffID
			s.programs[programID].TeachingStaffID = &owner
		}
	}
	record.UpdatedAt = time.Now().UTC()
	return s.staffView(record), nil
}

func (s *Memory) DeleteStaff(ctx context.Context, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.staff[staffID]
	if !ok {
		return ErrNotFound
	}
	// Detach before delete: no program keeps a dangling teacher.
	for _, program := range s.programs {
		if program.TeachingStaffID != nil && *program.TeachingStaffID == staffID {
			program.TeachingStaffID = nil
		}
	}
	delete(s.emails, record.Email)
	delete(s.staff, staffID)
	return nil
}

// Programs

func (s *Memory) CreateProgram(ctx context.Context, program model.Program) (model.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.programs[program.ProgramID]; ok {
		return model.Program{}, ErrDuplicateID
	}
	if program.TeachingStaffID != nil {
		if _, ok := s.staff[*program.TeachingStaffID]; !ok {
			return model.Program{}, ErrInvalidReference
		}
	}

	record := &programRecord{
		ProgramID:       program.ProgramID,
		Name:            program.Name,
		Description:     program.Description,
		TeachingStaffID: program.TeachingStaffID,
		CreatedAt:       program.CreatedAt,
		UpdatedAt:       program.UpdatedAt,
	}
	s.programs[program.ProgramID] = record
	return s.programView(record), nil
}

func (s *Memory) GetProgram(ctx context.Context, programID string) (model.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.programs[programID]
	if !ok {
		return model.Program{}, ErrNotFound
	}
	return s.programView(record), nil
}

func (s *Memory) ListPrograms(ctx context.Context, offset, limit int) ([]model.Program, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := sortedKeys(s.programs)
	page := pageSlice(keys, offset, limit)
	items := make([]model.Program, 0, len(page))
	for _, id := range page {
		items = append(items, s.programView(s.programs[id]))
	}
	return items, len(keys), nil
}

func (s *Memory) UpdateProgram(ctx context.Context, programID string, update ProgramUpdate) (model.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.programs[programID]
	if !ok {
		return model.Program{}, ErrNotFound
	}

	if update.TeachingStaffID != nil && *update.TeachingStaffID != "" {
		if _, ok := s.staff[*update.TeachingStaffID]; !ok {
			return model.Program{}, ErrInvalidReference
		}
	}

	if update.Name != nil {
		record.Name = *update.Name
	}
	if update.Description != nil {
		record.Description = *update.Description
	}
	if update.TeachingStaffID != nil {
		if *update.TeachingStaffID == "" {
			record.TeachingStaffID = nil
		} else {
			owner := *update.TeachingStaffID
			record.TeachingStaffID = &owner
		}
	}
	record.UpdatedAt = time.Now().UTC()
	return s.programView(record), nil
}

func (s *Memory) DeleteProgram(ctx context.Context, programID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.programs[programID]; !ok {
		return ErrNotFound
	}
	// Detach before delete: primary references are nulled and the
	// program's secondary edges removed in the same critical section.
	for _, learner := range s.learners {
		if learner.PrimaryProgramID != nil && *learner.PrimaryProgramID == programID {
			learner.PrimaryProgramID = nil
		}
	}
	for e := range s.edges {
		if e.ProgramID == programID {
			delete(s.edges, e)
		}
	}
	delete(s.programs, programID)
	return nil
}

// Derived views. Always computed from current state under the lock so
// both sides of every relationship agree.

func (s *Memory) learnerView(record *learnerRecord) model.Learner {
	learner := model.Learner{
		Person:    record.Person,
		LearnerID: record.LearnerID,
	}
	if record.PrimaryProgramID != nil {
		primary := *record.PrimaryProgramID
		learner.PrimaryProgramID = &primary
	}
	secondary := make([]string, 0)
	for e := range s.edges {
		if e.LearnerID == record.LearnerID {
			secondary = append(secondary, e.ProgramID)
		}
	}
	sort.Strings(secondary)
	learner.SecondaryProgramIDs = secondary
	return learner
}

func (s *Memory) staffView(record *staffRecord) model.Staff {
	staff := model.Staff{
		Person:  record.Person,
		StaffID: record.StaffID,
	}
	taught := make([]string, 0)
	for programID, program := range s.programs {
		if program.TeachingStaffID != nil && *program.TeachingStaffID == record.StaffID {
			taught = append(taught, programID)
		}
	}
	sort.Strings(taught)
	staff.ProgramIDsTaught = taught
	return staff
}

func (s *Memory) programView(record *programRecord) model.Program {
	program := model.Program{
		ProgramID:   record.ProgramID,
		Name:        record.Name,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if record.TeachingStaffID != nil {
		owner := *record.TeachingStaffID
		program.TeachingStaffID = &owner
	}
	primary := make([]string, 0)
	for learnerID, learner := range s.learners {
		if learner.PrimaryProgramID != nil && *learner.PrimaryProgramID == record.ProgramID {
			primary = append(primary, learnerID)
		}
	}
	sort.Strings(primary)
	program.PrimaryLearnerIDs = primary

	secondary := make([]string, 0)
	for e := range s.edges {
		if e.ProgramID == record.ProgramID {
			secondary = append(secondary, e.LearnerID)
		}
	}
	sort.Strings(secondary)
	program.SecondaryLearnerIDs = secondary
	return program
}

// dedupe collapses duplicate identifiers while keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func pageSlice(keys []string, offset, limit int) []string {
	if offset >= len(keys) {
		return nil
	}
	end := offset + limit
	if end > len(keys) {
		end = len(keys)
	}
	return keys[offset:end]
}

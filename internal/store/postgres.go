package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vijay-1577/campus-registry/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS programs (
	program_id        TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	teaching_staff_id TEXT,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS persons (
	public_id          TEXT PRIMARY KEY,
	kind               TEXT NOT NULL,
	email              TEXT NOT NULL UNIQUE,
	first_name         TEXT NOT NULL,
	last_name          TEXT NOT NULL,
	primary_program_id TEXT REFERENCES programs (program_id),
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS secondary_programs (
	learner_id TEXT NOT NULL REFERENCES persons (public_id) ON DELETE CASCADE,
	program_id TEXT NOT NULL REFERENCES programs (program_id) ON DELETE CASCADE,
	PRIMARY KEY (learner_id, program_id)
);
`

const (
	kindLearner = "learner"
	kindStaff   = "staff"
)

// Postgres implements Store on a pgx connection pool. Every multi-step
// relationship mutation runs inside one transaction so concurrent readers
// never observe a half-applied replacement.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Postgres) Close() {
	s.pool.Close()
}

func (s *Postgres) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// mapPgError translates unique-violation errors into domain sentinels.
// Identity columns (username, email) map to ErrDuplicateIdentity; primary
// keys map to ErrDuplicateID so creation can resample the public id.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "accounts_username_key", "persons_email_key":
			return ErrDuplicateIdentity
		default:
			return ErrDuplicateID
		}
	}
	return err
}

// Accounts

func (s *Postgres) CreateAccount(ctx context.Context, account model.Account) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO accounts (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID, account.Username, account.PasswordHash, account.CreatedAt, account.UpdatedAt)
	return mapPgError(err)
}

func (s *Postgres) GetAccount(ctx context.Context, id string) (model.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`, id))
}

func (s *Postgres) GetAccountByUsername(ctx context.Context, username string) (model.Account, error) {
	return s.scanAccount(s.pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`, username))
}

func (s *Postgres) scanAccount(row pgx.Row) (model.Account, error) {
	var account model.Account
	err := row.Scan(&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, ErrNotFound
	}
	return account, err
}

func (s *Postgres) UpdateAccountPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3
	`, passwordHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Learners

func (s *Postgres) CreateLearner(ctx context.Context, learner model.Learner) (model.Learner, error) {
	secondary := dedupe(learner.SecondaryProgramIDs)
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if learner.PrimaryProgramID != nil {
			if err := programsExist(ctx, tx, []string{*learner.PrimaryProgramID}); err != nil {
				return err
			}
		}
		if err := programsExist(ctx, tx, secondary); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO persons (public_id, kind, email, first_name, last_name, primary_program_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, learner.LearnerID, kindLearner, learner.Email, learner.FirstName, learner.LastName,
			learner.PrimaryProgramID, learner.CreatedAt, learner.UpdatedAt)
		if err != nil {
			return mapPgError(err)
		}
		return insertEdges(ctx, tx, learner.LearnerID, secondary)
	})
	if err != nil {
		return model.Learner{}, err
	}
	return s.GetLearner(ctx, learner.LearnerID)
}

func (s *Postgres) GetLearner(ctx context.Context, learnerID string) (model.Learner, error) {
	var learner model.Learner
	row := s.pool.QueryRow(ctx, `
		SELECT public_id, email, first_name, last_name, primary_program_id, created_at, updated_at
		FROM persons
		WHERE public_id = $1 AND kind = $2
	`, learnerID, kindLearner)
	err := row.Scan(&learner.LearnerID, &learner.Email, &learner.FirstName, &learner.LastName,
		&learner.PrimaryProgramID, &learner.CreatedAt, &learner.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Learner{}, ErrNotFound
	}
	if err != nil {
		return model.Learner{}, err
	}
	learner.SecondaryProgramIDs, err = stringColumn(ctx, s.pool, `
		SELECT program_id FROM secondary_programs WHERE learner_id = $1 ORDER BY program_id
	`, learnerID)
	return learner, err
}

func (s *Postgres) ListLearners(ctx context.Context, offset, limit int) ([]model.Learner, int, error) {
	total, err := s.countPersons(ctx, kindLearner)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT public_id, email, first_name, last_name, primary_program_id, created_at, updated_at
		FROM persons
		WHERE kind = $1
		ORDER BY public_id
		OFFSET $2 LIMIT $3
	`, kindLearner, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.Learner, 0, limit)
	for rows.Next() {
		var learner model.Learner
		if err := rows.Scan(&learner.LearnerID, &learner.Email, &learner.FirstName, &learner.LastName,
			&learner.PrimaryProgramID, &learner.CreatedAt, &learner.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, learner)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].SecondaryProgramIDs, err = stringColumn(ctx, s.pool, `
			SELECT program_id FROM secondary_programs WHERE learner_id = $1 ORDER BY program_id
		`, items[i].LearnerID)
		if err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (s *Postgres) UpdateLearner(ctx context.Context, learnerID string, update LearnerUpdate) (model.Learner, error) {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT true FROM persons WHERE public_id = $1 AND kind = $2 FOR UPDATE
		`, learnerID, kindLearner).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var secondary []string
		if update.SecondaryProgramIDs != nil {
			secondary = dedupe(*update.SecondaryProgramIDs)
			if err := programsExist(ctx, tx, secondary); err != nil {
				return err
			}
		}
		if update.PrimaryProgramID != nil && *update.PrimaryProgramID != "" {
			if err := programsExist(ctx, tx, []string{*update.PrimaryProgramID}); err != nil {
				return err
			}
		}

		if update.FirstName != nil {
			if _, err := tx.Exec(ctx, `UPDATE persons SET first_name = $1 WHERE public_id = $2`, *update.FirstName, learnerID); err != nil {
				return err
			}
		}
		if update.LastName != nil {
			if _, err := tx.Exec(ctx, `UPDATE persons SET last_name = $1 WHERE public_id = $2`, *update.LastName, learnerID); err != nil {
				return err
			}
		}
		if update.PrimaryProgramID != nil {
			var primary *string
			if *update.PrimaryProgramID != "" {
				primary = update.PrimaryProgramID
			}
			if _, err := tx.Exec(ctx, `UPDATE persons SET primary_program_id = $1 WHERE public_id = $2`, primary, learnerID); err != nil {
				return err
			}
		}
		if update.SecondaryProgramIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM secondary_programs WHERE learner_id = $1`, learnerID); err != nil {
				return err
			}
			if err := insertEdges(ctx, tx, learnerID, secondary); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `UPDATE persons SET updated_at = $1 WHERE public_id = $2`, time.Now().UTC(), learnerID)
		return err
	})
	if err != nil {
		return model.Learner{}, err
	}
	return s.GetLearner(ctx, learnerID)
}

func (s *Postgres) DeleteLearner(ctx context.Context, learnerID string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM secondary_programs WHERE learner_id = $1`, learnerID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM persons WHERE public_id = $1 AND kind = $2`, learnerID, kindLearner)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Staff

func (s *Postgres) CreateStaff(ctx context.Context, staff model.Staff) (model.Staff, error) {
	taught := dedupe(staff.ProgramIDsTaught)
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := programsExist(ctx, tx, taught); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO persons (public_id, kind, email, first_name, last_name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, staff.StaffID, kindStaff, staff.Email, staff.FirstName, staff.LastName, staff.CreatedAt, staff.UpdatedAt)
		if err != nil {
			return mapPgError(err)
		}
		if len(taught) > 0 {
			if _, err := tx.Exec(ctx, `
				UPDATE programs SET teaching_staff_id = $1 WHERE program_id = ANY($2)
			`, staff.StaffID, taught); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Staff{}, err
	}
	return s.GetStaff(ctx, staff.StaffID)
}

func (s *Postgres) GetStaff(ctx context.Context, staffID string) (model.Staff, error) {
	var staff model.Staff
	row := s.pool.QueryRow(ctx, `
		SELECT public_id, email, first_name, last_name, created_at, updated_at
		FROM persons
		WHERE public_id = $1 AND kind = $2
	`, staffID, kindStaff)
	err := row.Scan(&staff.StaffID, &staff.Email, &staff.FirstName, &staff.LastName,
		&staff.CreatedAt, &staff.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Staff{}, ErrNotFound
	}
	if err != nil {
		return model.Staff{}, err
	}
	staff.ProgramIDsTaught, err = stringColumn(ctx, s.pool, `
		SELECT program_id FROM programs WHERE teaching_staff_id = $1 ORDER BY program_id
	`, staffID)
	return staff, err
}

func (s *Postgres) ListStaff(ctx context.Context, offset, limit int) ([]model.Staff, int, error) {
	total, err := s.countPersons(ctx, kindStaff)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT public_id, email, first_name, last_name, created_at, updated_at
		FROM persons
		WHERE kind = $1
		ORDER BY public_id
		OFFSET $2 LIMIT $3
	`, kindStaff, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.Staff, 0, limit)
	for rows.Next() {
		var staff model.Staff
		if err := rows.Scan(&staff.StaffID, &staff.Email, &staff.FirstName, &staff.LastName,
			&staff.CreatedAt, &staff.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].ProgramIDsTaught, err = stringColumn(ctx, s.pool, `
			SELECT program_id FROM programs WHERE teaching_staff_id = $1 ORDER BY program_id
		`, items[i].StaffID)
		if err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (s *Postgres) UpdateStaff(ctx context.Context, staffID string, update StaffUpdate) (model.Staff, error) {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT true FROM persons WHERE public_id = $1 AND kind = $2 FOR UPDATE
		`, staffID, kindStaff).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var taught []string
		if update.ProgramIDsTaught != nil {
			taught = dedupe(*update.ProgramIDsTaught)
			if err := programsExist(ctx, tx, taught); err != nil {
				return err
			}
		}

		if update.FirstName != nil {
			if _, err := tx.Exec(ctx, `UPDATE persons SET first_name = $1 WHERE public_id = $2`, *update.FirstName, staffID); err != nil {
				return err
			}
		}
		if update.LastName != nil {
			if _, err := tx.Exec(ctx, `UPDATE persons SET last_name = $1 WHERE public_id = $2`, *update.LastName, staffID); err != nil {
				return err
			}
		}
		if update.ProgramIDsTaught != nil {
			if _, err := tx.Exec(ctx, `UPDATE programs SET teaching_staff_id = NULL WHERE teaching_staff_id = $1`, staffID); err != nil {
				return err
			}
			if len(taught) > 0 {
				if _, err := tx.Exec(ctx, `
					UPDATE programs SET teaching_staff_id = $1 WHERE program_id = ANY($2)
				`, staffID, taught); err != nil {
					return err
				}
			}
		}
		_, err = tx.Exec(ctx, `UPDATE persons SET updated_at = $1 WHERE public_id = $2`, time.Now().UTC(), staffID)
		return err
	})
	if err != nil {
		return model.Staff{}, err
	}
	return s.GetStaff(ctx, staffID)
}

func (s *Postgres) DeleteStaff(ctx context.Context, staffID string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE programs SET teaching_staff_id = NULL WHERE teaching_staff_id = $1`, staffID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM persons WHERE public_id = $1 AND kind = $2`, staffID, kindStaff)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Programs

func (s *Postgres) CreateProgram(ctx context.Context, program model.Program) (model.Program, error) {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if program.TeachingStaffID != nil {
			if err := staffExists(ctx, tx, *program.TeachingStaffID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO programs (program_id, name, description, teaching_staff_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, program.ProgramID, program.Name, program.Description, program.TeachingStaffID,
			program.CreatedAt, program.UpdatedAt)
		return mapPgError(err)
	})
	if err != nil {
		return model.Program{}, err
	}
	return s.GetProgram(ctx, program.ProgramID)
}

func (s *Postgres) GetProgram(ctx context.Context, programID string) (model.Program, error) {
	var program model.Program
	row := s.pool.QueryRow(ctx, `
		SELECT program_id, name, description, teaching_staff_id, created_at, updated_at
		FROM programs
		WHERE program_id = $1
	`, programID)
	err := row.Scan(&program.ProgramID, &program.Name, &program.Description,
		&program.TeachingStaffID, &program.CreatedAt, &program.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Program{}, ErrNotFound
	}
	if err != nil {
		return model.Program{}, err
	}
	program.PrimaryLearnerIDs, err = stringColumn(ctx, s.pool, `
		SELECT public_id FROM persons WHERE primary_program_id = $1 ORDER BY public_id
	`, programID)
	if err != nil {
		return model.Program{}, err
	}
	program.SecondaryLearnerIDs, err = stringColumn(ctx, s.pool, `
		SELECT learner_id FROM secondary_programs WHERE program_id = $1 ORDER BY learner_id
	`, programID)
	return program, err
}

func (s *Postgres) ListPrograms(ctx context.Context, offset, limit int) ([]model.Program, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM programs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT program_id, name, description, teaching_staff_id, created_at, updated_at
		FROM programs
		ORDER BY program_id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.Program, 0, limit)
	for rows.Next() {
		var program model.Program
		if err := rows.Scan(&program.ProgramID, &program.Name, &program.Description,
			&program.TeachingStaffID, &program.CreatedAt, &program.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, program)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].PrimaryLearnerIDs, err = stringColumn(ctx, s.pool, `
			SELECT public_id FROM persons WHERE primary_program_id = $1 ORDER BY public_id
		`, items[i].ProgramID)
		if err != nil {
			return nil, 0, err
		}
		items[i].SecondaryLearnerIDs, err = stringColumn(ctx, s.pool, `
			SELECT learner_id FROM secondary_programs WHERE program_id = $1 ORDER BY learner_id
		`, items[i].ProgramID)
		if err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (s *Postgres) UpdateProgram(ctx context.Context, programID string, update ProgramUpdate) (model.Program, error) {
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT true FROM programs WHERE program_id = $1 FOR UPDATE`, programID).Scan(&exists)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if update.TeachingStaffID != nil && *update.TeachingStaffID != "" {
			if err := staffExists(ctx, tx, *update.TeachingStaffID); err != nil {
				return err
			}
		}

		if update.Name != nil {
			if _, err := tx.Exec(ctx, `UPDATE programs SET name = $1 WHERE program_id = $2`, *update.Name, programID); err != nil {
				return err
			}
		}
		if update.Description != nil {
			if _, err := tx.Exec(ctx, `UPDATE programs SET description = $1 WHERE program_id = $2`, *update.Description, programID); err != nil {
				return err
			}
		}
		if update.TeachingStaffID != nil {
			var owner *string
			if *update.TeachingStaffID != "" {
				owner = update.TeachingStaffID
			}
			if _, err := tx.Exec(ctx, `UPDATE programs SET teaching_staff_id = $1 WHERE program_id = $2`, owner, programID); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `UPDATE programs SET updated_at = $1 WHERE program_id = $2`, time.Now().UTC(), programID)
		return err
	})
	if err != nil {
		return model.Program{}, err
	}
	return s.GetProgram(ctx, programID)
}

func (s *Postgres) DeleteProgram(ctx context.Context, programID string) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE persons SET primary_program_id = NULL WHERE primary_program_id = $1`, programID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM secondary_programs WHERE program_id = $1`, programID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM programs WHERE program_id = $1`, programID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Helpers

func (s *Postgres) countPersons(ctx context.Context, kind string) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM persons WHERE kind = $1`, kind).Scan(&total)
	return total, err
}

// programsExist fails with ErrInvalidReference unless every id resolves.
func programsExist(ctx context.Context, tx pgx.Tx, programIDs []string) error {
	if len(programIDs) == 0 {
		return nil
	}
	var found int
	err := tx.QueryRow(ctx, `
		SELECT count(*) FROM programs WHERE program_id = ANY($1)
	`, programIDs).Scan(&found)
	if err != nil {
		return err
	}
	if found != len(programIDs) {
		return ErrInvalidReference
	}
	return nil
}

func staffExists(ctx context.Context, tx pgx.Tx, staffID string) error {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM persons WHERE public_id = $1 AND kind = $2)
	`, staffID, kindStaff).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrInvalidReference
	}
	return nil
}

func insertEdges(ctx context.Context, tx pgx.Tx, learnerID string, programIDs []string) error {
	for _, programID := range programIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO secondary_programs (learner_id, program_id) VALUES ($1, $2)
		`, learnerID, programID); err != nil {
			return err
		}
	}
	return nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func stringColumn(ctx context.Context, q querier, sql string, args ...any) ([]string, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

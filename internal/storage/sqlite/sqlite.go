// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-contacts/internal/config"
	"github.com/aanand-mishra/student-contacts/internal/storage"
	"github.com/aanand-mishra/student-contacts/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

const selectColumns = "id, name, roll_number, department, email, address, lab_name, accommodation"

// New opens the SQLite database at cfg.StoragePath, sizes its pool from
// cfg.DBPool, creates the students table if it does not already exist,
// and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	if cfg.StoragePath == "" {
		return nil, errors.New("sqlite.New: storage_path is not set")
	}

	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBPool.MaxOpen)
	db.SetMaxIdleConns(cfg.DBPool.MaxIdle)
	db.SetConnMaxIdleTime(cfg.DBPool.IdleTimeout)

	// Schema:
	//   id            — the backend's opaque identifier, kept as text
	//   roll_number   — unique within the roster
	//   accommodation — "Hosteller" or "DayScholar"
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			roll_number   TEXT NOT NULL UNIQUE,
			department    TEXT NOT NULL DEFAULT '',
			email         TEXT NOT NULL DEFAULT '',
			address       TEXT NOT NULL DEFAULT '',
			lab_name      TEXT NOT NULL DEFAULT '',
			accommodation TEXT NOT NULL CHECK (accommodation IN ('Hosteller', 'DayScholar'))
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.StudentRecord, error) {
	var st types.StudentRecord
	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.RollNumber,
		&st.Department,
		&st.Email,
		&st.Address,
		&st.LabName,
		&st.Accommodation,
	)
	return st, err
}

// GetStudentByID fetches exactly one student row matched by id.
func (s *SQLite) GetStudentByID(id types.RecordID) (types.StudentRecord, error) {
	stmt, err := s.Db.Prepare("SELECT " + selectColumns + " FROM students WHERE id = ? LIMIT 1")
	if err != nil {
		return types.StudentRecord{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRow(id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.StudentRecord{}, fmt.Errorf("no student found with id %s: %w", id, storage.ErrNotFound)
		}
		return types.StudentRecord{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows. Order is unspecified; clients
// sort the roster themselves.
func (s *SQLite) GetStudents() ([]types.StudentRecord, error) {
	stmt, err := s.Db.Prepare("SELECT " + selectColumns + " FROM students")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.StudentRecord, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ReplaceStudents deletes every row and inserts students in a single
// transaction, so readers never see a half-seeded roster.
func (s *SQLite) ReplaceStudents(students []types.StudentRecord) (err error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("ReplaceStudents: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM students"); err != nil {
		return fmt.Errorf("ReplaceStudents: clear: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO students
		(id, name, roll_number, department, email, address, lab_name, accommodation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ReplaceStudents: prepare: %w", err)
	}
	defer stmt.Close()

	for _, st := range students {
		_, err = stmt.Exec(
			st.ID.String(),
			st.Name,
			st.RollNumber,
			st.Department,
			st.Email,
			st.Address,
			st.LabName,
			string(st.Accommodation),
		)
		if err != nil {
			return fmt.Errorf("ReplaceStudents: insert %s: %w", st.RollNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceStudents: commit: %w", err)
	}
	return nil
}

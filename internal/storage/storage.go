// Package storage defines the Storage interface the dev roster server
// reads from.
//
// Handlers depend only on this interface, so tests pass a fake and the
// server can move to another database by implementing it again.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-contacts/internal/types"
)

// ErrNotFound is returned by GetStudentByID for an unknown id.
var ErrNotFound = errors.New("student not found")

// Storage is the roster database contract. The API it backs is
// read-only; ReplaceStudents exists for seeding at startup.
type Storage interface {
	// GetStudentByID fetches a single student. Returns an error wrapping
	// ErrNotFound if no row matches.
	GetStudentByID(id types.RecordID) (types.StudentRecord, error)

	// GetStudents returns every student in the database.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents() ([]types.StudentRecord, error)

	// ReplaceStudents atomically swaps the whole roster for students.
	ReplaceStudents(students []types.StudentRecord) error
}

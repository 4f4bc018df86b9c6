// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the fetch client, the coordinator, the storage layer and the HTTP
// handlers can all import types without depending on each other.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Accommodation is where a student lives during term.
type Accommodation string

const (
	Hosteller  Accommodation = "Hosteller"
	DayScholar Accommodation = "DayScholar"
)

// RecordID is the backend's opaque identifier for a student.
//
// The backend may send it as a JSON string or a JSON number; both are
// kept verbatim as text so the client never has to care which.
type RecordID string

// String returns the identifier as text.
func (id RecordID) String() string { return string(id) }

// UnmarshalJSON accepts "42", 42 and "abc-1".
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("RecordID: %w", err)
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("RecordID: expected string or number, got %s", data)
	}
	*id = RecordID(n.String())
	return nil
}

// StudentRecord is one entry of the roster as delivered by the backend.
//
// Struct tags serve three purposes:
//
//  1. json:"..."     — wire names used by the backend envelope.
//  2. yaml:"..."     — names used in the dev server's seed file.
//  3. validate:"..." — the schema checked by go-playground/validator when
//     a response is accepted; a record failing these rules makes the
//     whole response a server-reported failure.
type StudentRecord struct {
	ID            RecordID      `json:"id"            yaml:"id"            validate:"required"`
	Name          string        `json:"name"          yaml:"name"          validate:"required"`
	RollNumber    string        `json:"rollNumber"    yaml:"rollNumber"    validate:"required"`
	Department    string        `json:"department"    yaml:"department"`
	Email         string        `json:"email"         yaml:"email"`
	Address       string        `json:"address"       yaml:"address"`
	LabName       string        `json:"labName"       yaml:"labName"`
	Accommodation Accommodation `json:"accommodation" yaml:"accommodation" validate:"required,oneof=Hosteller DayScholar"`
}

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFail    = "fail"
)

// Envelope is the wrapper every backend response is sent in:
//
//	{ "status": "success", "data": [...] }
//	{ "status": "fail", "message": "student not found" }
//
// The server fills Data with concrete records; the client decodes it
// as json.RawMessage first and only parses Data once Status is known.
// Data has no omitempty so an empty roster still travels as "data": [].
type Envelope[T any] struct {
	Status  string `json:"status"            validate:"required,oneof=success error fail"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

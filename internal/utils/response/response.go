// Package response provides helpers for the JSON envelope both ends of
// the roster API speak:
//
//	{ "status": "success", "data": ... }
//	{ "status": "fail",    "message": "no student found with id: 9" }
//	{ "status": "error",   "message": "database is locked" }
//
// The dev server writes envelopes with WriteJSON; the fetch client uses
// DescribeValidation to turn schema violations into a readable reason.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// Success wraps data in a "success" envelope.
func Success[T any](data T) types.Envelope[T] {
	return types.Envelope[T]{Status: types.StatusSuccess, Data: data}
}

// Failure is the envelope for non-success responses; it never carries data.
type Failure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Fail reports a definitive application-level rejection (e.g. unknown id).
func Fail(message string) Failure {
	return Failure{Status: types.StatusFail, Message: message}
}

// GeneralError wraps any Go error into an "error" envelope.
// Use this for unexpected errors (DB failures, decode errors, etc.)
func GeneralError(err error) Failure {
	return Failure{Status: types.StatusError, Message: err.Error()}
}

// ─────────────────────────────────────────────────────────────────────────────
// DescribeValidation converts a slice of validator.FieldError values into
// a single human-readable sentence.
//
// Example output:
//
//	field Name is required, field Accommodation must be one of [Hosteller DayScholar]
//
// ─────────────────────────────────────────────────────────────────────────────
func DescribeValidation(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Namespace()))
		case "oneof":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of [%s]", e.Namespace(), e.Param()))
		case "unique":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not contain duplicate %s values", e.Namespace(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Namespace()))
		}
	}

	return strings.Join(errMessages, ", ")
}

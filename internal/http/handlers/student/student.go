// Package student contains the HTTP handlers the dev roster server
// exposes for the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once at startup and
// returns the http.HandlerFunc the router calls on every request:
//
//	router.HandleFunc("GET /api/students", student.GetList(storage))
//
// Every response is a JSON envelope (see package response).
package student

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/student-contacts/internal/storage"
	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/aanand-mishra/student-contacts/internal/utils/response"
)

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}
//
// Success response (200 OK):
//
//	{ "status": "success", "data": { "id": "7", "name": "Gauri Nair", ... } }
//
// Error responses:
//
//	404 Not Found    — { "status": "fail",  "message": "..." }
//	500 Internal     — { "status": "error", "message": "..." }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.RecordID(r.PathValue("id"))
		slog.Info("getting a student", slog.String("id", id.String()))

		student, err := storage.GetStudentByID(id)
		if err != nil {
			writeStorageError(w, err, slog.String("id", id.String()))
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Success(student))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students
// Returns the entire roster; there is no pagination.
//
// Success response (200 OK):
//
//	{ "status": "success", "data": [ { "id": "1", ... }, ... ] }
//
// Returns "data": [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents()
		if err != nil {
			writeStorageError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, response.Success(students))
	}
}

func writeStorageError(w http.ResponseWriter, err error, attrs ...any) {
	if errors.Is(err, storage.ErrNotFound) {
		response.WriteJSON(w, http.StatusNotFound, response.Fail(err.Error()))
		return
	}

	slog.Error("storage error", append(attrs, slog.String("error", err.Error()))...)
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}

package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aanand-mishra/student-contacts/internal/storage"
	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage is an in-memory storage.Storage.
type fakeStorage struct {
	students []types.StudentRecord
	err      error
}

func (f *fakeStorage) GetStudentByID(id types.RecordID) (types.StudentRecord, error) {
	if f.err != nil {
		return types.StudentRecord{}, f.err
	}
	for _, s := range f.students {
		if s.ID == id {
			return s, nil
		}
	}
	return types.StudentRecord{}, fmt.Errorf("no student found with id %s: %w", id, storage.ErrNotFound)
}

func (f *fakeStorage) GetStudents() ([]types.StudentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

func (f *fakeStorage) ReplaceStudents(students []types.StudentRecord) error {
	f.students = students
	return nil
}

func newRouter(s storage.Storage) http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /api/students", GetList(s))
	router.HandleFunc("GET /api/students/{id}", GetByID(s))
	return router
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) types.Envelope[T] {
	t.Helper()
	var env types.Envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

var roster = []types.StudentRecord{
	{ID: "1", Name: "Aarav Sharma", RollNumber: "CS2201", Accommodation: types.Hosteller},
	{ID: "7", Name: "Gauri Nair", RollNumber: "EE2206", Accommodation: types.DayScholar},
}

// TestGetList covers the list endpoint envelope.
func TestGetList(t *testing.T) {
	tests := []struct {
		name       string
		storage    *fakeStorage
		wantCode   int
		wantStatus string
		wantLen    int
	}{
		{
			name:       "roster",
			storage:    &fakeStorage{students: roster},
			wantCode:   http.StatusOK,
			wantStatus: types.StatusSuccess,
			wantLen:    2,
		},
		{
			name:       "empty roster",
			storage:    &fakeStorage{students: []types.StudentRecord{}},
			wantCode:   http.StatusOK,
			wantStatus: types.StatusSuccess,
		},
		{
			name:       "storage failure",
			storage:    &fakeStorage{err: errors.New("database is locked")},
			wantCode:   http.StatusInternalServerError,
			wantStatus: types.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(tt.storage).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			env := decode[[]types.StudentRecord](t, rec)
			assert.Equal(t, tt.wantStatus, env.Status)
			assert.Len(t, env.Data, tt.wantLen)
		})
	}
}

// TestGetListEmptyIsArray verifies an empty roster encodes as [] rather than null.
func TestGetListEmptyIsArray(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeStorage{students: []types.StudentRecord{}}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students", nil))

	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

// TestGetByID covers found, missing and failing lookups.
func TestGetByID(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeStorage{students: roster}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[types.StudentRecord](t, rec)
	assert.Equal(t, types.StatusSuccess, env.Status)
	assert.Equal(t, "Gauri Nair", env.Data.Name)

	rec = httptest.NewRecorder()
	newRouter(&fakeStorage{students: roster}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/99", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	missing := decode[json.RawMessage](t, rec)
	assert.Equal(t, types.StatusFail, missing.Status)
	assert.Contains(t, missing.Message, "99")

	rec = httptest.NewRecorder()
	newRouter(&fakeStorage{err: errors.New("disk I/O error")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, types.StatusError, decode[json.RawMessage](t, rec).Status)
}

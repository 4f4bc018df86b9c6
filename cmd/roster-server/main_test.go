package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aanand-mishra/student-contacts/internal/config"
	"github.com/aanand-mishra/student-contacts/internal/logger"
	"github.com/aanand-mishra/student-contacts/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.SQLite {
	t.Helper()
	store, err := sqlite.New(&config.Config{
		StoragePath: filepath.Join(t.TempDir(), "roster.db"),
		DBPool:      config.DBPool{MaxOpen: 5, IdleTimeout: 10 * time.Second},
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestLoadSeed verifies the bundled seed file populates storage.
func TestLoadSeed(t *testing.T) {
	store := newStore(t)

	require.NoError(t, loadSeed(store, "../../data/students.yaml"))
	students, err := store.GetStudents()
	require.NoError(t, err)
	assert.Len(t, students, 8)

	assert.NoError(t, loadSeed(store, ""))
	assert.Error(t, loadSeed(store, "missing.yaml"))
}

// TestHandler verifies routing, CORS and the 404 envelope.
func TestHandler(t *testing.T) {
	store := newStore(t)
	require.NoError(t, loadSeed(store, "../../data/students.yaml"))
	h := newHandler(store, logger.Discard())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Body.String(), "Charan Reddy")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"fail"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/students", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

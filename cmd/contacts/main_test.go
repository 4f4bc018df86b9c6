package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aanand-mishra/student-contacts/internal/config"
	"github.com/aanand-mishra/student-contacts/internal/http/handlers/student"
	"github.com/aanand-mishra/student-contacts/internal/http/middleware"
	"github.com/aanand-mishra/student-contacts/internal/logger"
	"github.com/aanand-mishra/student-contacts/internal/storage/seed"
	"github.com/aanand-mishra/student-contacts/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBackend serves the bundled seed roster the way roster-server does.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(&config.Config{
		StoragePath: filepath.Join(t.TempDir(), "roster.db"),
		DBPool:      config.DBPool{MaxOpen: 5, IdleTimeout: 10 * time.Second},
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	students, err := seed.Load("../../data/students.yaml")
	require.NoError(t, err)
	require.NoError(t, store.ReplaceStudents(students))

	router := http.NewServeMux()
	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))

	srv := httptest.NewServer(middleware.Logger(logger.Discard())(middleware.CORS(router)))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf(`env: dev
backend:
  target: custom
  base_url: %s
fetch:
  timeout: 2s
  max_retries: 1
  base_backoff: 10ms
`, baseURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--no-color"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// TestList verifies the roster is listed sorted and filtered.
func TestList(t *testing.T) {
	cfg := writeConfig(t, newBackend(t).URL+"/api")

	out, err := run(t, "", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "8 students")
	assert.Less(t, strings.Index(out, "Aarav Sharma"), strings.Index(out, "Bhavya Iyer"))
	assert.Less(t, strings.Index(out, "Bhavya Iyer"), strings.Index(out, "Harsh Vardhan"))

	out, err = run(t, "", "list", "--config", cfg, "-q", "cs")
	require.NoError(t, err)
	assert.Contains(t, out, `4 of 8 students match "cs"`)
	assert.Contains(t, out, "CS2205")
	assert.NotContains(t, out, "EE2206")
}

// TestListConfigFromEnv verifies CONFIG_PATH is used when --config is absent.
func TestListConfigFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, newBackend(t).URL+"/api"))

	out, err := run(t, "", "list", "-q", "gauri")
	require.NoError(t, err)
	assert.Contains(t, out, "Gauri Nair")
}

// TestShow verifies the detail view and unknown ids.
func TestShow(t *testing.T) {
	cfg := writeConfig(t, newBackend(t).URL+"/api")

	out, err := run(t, "", "show", "7", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Gauri Nair")
	assert.Contains(t, out, "EE2206")
	assert.Contains(t, out, "Power Lab")

	_, err = run(t, "", "show", "99", "--config", cfg)
	assert.ErrorContains(t, err, "no student with id 99")
}

// TestListReportsFailure verifies a failed fetch is printed and exits non-zero.
func TestListReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, "", "list", "--config", writeConfig(t, srv.URL))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Could not load roster: server responded with HTTP 500")
}

// TestMissingConfig verifies the error when no config is given.
func TestMissingConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	_, err := run(t, "", "list")
	assert.ErrorContains(t, err, "config path is not set")
}

// TestBrowse drives the interactive loop end to end.
func TestBrowse(t *testing.T) {
	cfg := writeConfig(t, newBackend(t).URL+"/api")

	out, err := run(t, "search ee\nshow 7\nback\nretry\nbogus\nquit\n", "browse", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "8 students")
	assert.Contains(t, out, `1 of 8 students match "ee"`)
	assert.Contains(t, out, "Electrical")
	assert.Contains(t, out, "Nothing to retry.")
	assert.Contains(t, out, `unknown command "bogus"`)
}

package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aanand-mishra/student-contacts/internal/coordinator"
	"github.com/aanand-mishra/student-contacts/internal/fetch"
	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

var records = []types.StudentRecord{
	{ID: "1", Name: "Aarav Sharma", RollNumber: "CS2201", Department: "Computer Science"},
	{ID: "4", Name: "Divya Menon", RollNumber: "CS2208", Department: "Computer Science"},
}

// TestStatus covers the line printed for every phase.
func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		snap coordinator.Snapshot
		want string
	}{
		{
			name: "idle",
			snap: coordinator.Snapshot{Phase: coordinator.PhaseIdle},
			want: "Roster not loaded.\n",
		},
		{
			name: "loading",
			snap: coordinator.Snapshot{Phase: coordinator.PhaseLoading},
			want: "Loading roster...\n",
		},
		{
			name: "retrying",
			snap: coordinator.Snapshot{Phase: coordinator.PhaseLoading, Attempt: 2},
			want: "Loading roster... (retry 2)\n",
		},
		{
			name: "loaded",
			snap: coordinator.Snapshot{Phase: coordinator.PhaseSuccess, Roster: records, Filtered: records},
			want: "2 students\n",
		},
		{
			name: "filtered",
			snap: coordinator.Snapshot{Phase: coordinator.PhaseSuccess, Roster: records, Filtered: records[:1], Query: "aa"},
			want: "1 of 2 students match \"aa\"\n",
		},
		{
			name: "error",
			snap: coordinator.Snapshot{
				Phase: coordinator.PhaseError,
				Err:   &fetch.Error{Kind: fetch.KindHTTPStatus, StatusCode: 503, Retryable: true},
			},
			want: "Could not load roster: server responded with HTTP 503\nRetry to load the roster again.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Status(&buf, tt.snap)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

// TestList verifies the table layout.
func TestList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, records))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Aarav Sharma")
	assert.Contains(t, lines[2], "CS2208")

	buf.Reset()
	require.NoError(t, List(&buf, nil))
	assert.Equal(t, "No students found.\n", buf.String())
}

// TestDetail verifies every field is shown and blanks are marked.
func TestDetail(t *testing.T) {
	var buf bytes.Buffer
	rec := types.StudentRecord{
		ID: "7", Name: "Gauri Nair", RollNumber: "EE2206", Department: "Electrical",
		Email: "gauri@college.edu", Accommodation: types.Hosteller,
	}
	require.NoError(t, Detail(&buf, rec, true))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Gauri Nair\n"))
	assert.Contains(t, out, "gauri@college.edu")
	assert.Contains(t, out, "Hosteller")
	assert.Regexp(t, `Address:\s+-`, out)
	assert.Contains(t, out, "Could not refresh this record")
}

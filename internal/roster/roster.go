// Package roster holds the pure operations the coordinator applies to a
// fetched roster: ordering, search filtering and lookup. None of them
// mutate their input.
package roster

import (
	"slices"
	"strings"

	"github.com/aanand-mishra/student-contacts/internal/types"
	"golang.org/x/text/cases"
)

// fold returns the Unicode case-folded form of s. A fresh Caser is used
// per call because Casers carry state and must not be shared.
func fold(s string) string {
	return cases.Fold().String(s)
}

// SortByName returns a copy of records ordered by name, case-insensitive
// and stable, so records with equal names keep their server order.
func SortByName(records []types.StudentRecord) []types.StudentRecord {
	type keyed struct {
		key string
		rec types.StudentRecord
	}

	ks := make([]keyed, len(records))
	for i, r := range records {
		ks[i] = keyed{key: fold(r.Name), rec: r}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		return strings.Compare(a.key, b.key)
	})

	out := make([]types.StudentRecord, len(ks))
	for i, k := range ks {
		out[i] = k.rec
	}
	return out
}

// Filter returns the records whose name or roll number contains query,
// compared case-insensitively, in their original order. An empty query
// returns a copy of the whole roster.
func Filter(records []types.StudentRecord, query string) []types.StudentRecord {
	if query == "" {
		return slices.Clone(records)
	}

	q := fold(query)
	out := make([]types.StudentRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(fold(r.Name), q) || strings.Contains(fold(r.RollNumber), q) {
			out = append(out, r)
		}
	}
	return out
}

// Find looks up a record by id.
func Find(records []types.StudentRecord, id types.RecordID) (types.StudentRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return types.StudentRecord{}, false
}

package coordinator

import (
	"slices"
	"time"

	"github.com/aanand-mishra/student-contacts/internal/fetch"
	"github.com/aanand-mishra/student-contacts/internal/types"
)

// Phase is the fetch state the presentation layer renders from.
type Phase string

const (
	// PhaseIdle means no roster fetch has been requested yet
	PhaseIdle Phase = "Idle"

	// PhaseLoading means a fetch attempt is in flight or a retry is scheduled
	PhaseLoading Phase = "Loading"

	// PhaseSuccess means the last fetch installed a roster
	PhaseSuccess Phase = "Success"

	// PhaseError means the last fetch failed and automatic retries are spent
	PhaseError Phase = "Error"
)

// String returns the string representation of Phase
func (p Phase) String() string {
	return string(p)
}

// Snapshot is a read-only copy of the coordinator's state. Slices and
// pointers in it are never shared with the coordinator.
type Snapshot struct {
	Phase Phase

	// Roster is the last successfully fetched roster, sorted by name.
	// It stays populated while a refresh is loading or has failed.
	Roster []types.StudentRecord

	// Filtered is Roster narrowed by Query.
	Filtered []types.StudentRecord
	Query    string

	// Err is set in PhaseError. Retryable reflects the classification;
	// a manual Retry is always offered.
	Err *fetch.Error

	// Attempt counts automatic retries consumed by the current fetch.
	Attempt int

	Selected       *types.StudentRecord
	DetailLoading  bool
	DetailNotFound bool

	// UpdatedAt is when Roster was last installed.
	UpdatedAt time.Time
}

// CanRetry reports whether the manual retry action should be shown.
func (s Snapshot) CanRetry() bool {
	return s.Phase == PhaseError
}

// snapshot copies the loop-owned state. Must run on the loop goroutine.
func (c *Coordinator) snapshot() Snapshot {
	s := Snapshot{
		Phase:          c.phase,
		Roster:         slices.Clone(c.roster),
		Filtered:       slices.Clone(c.filtered),
		Query:          c.query,
		Attempt:        c.attempt,
		DetailLoading:  c.detailCancel != nil,
		DetailNotFound: c.detailNotFound,
		UpdatedAt:      c.updatedAt,
	}
	if c.err != nil {
		e := *c.err
		s.Err = &e
	}
	if c.selected != nil {
		rec := *c.selected
		s.Selected = &rec
	}
	return s
}

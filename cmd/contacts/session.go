package main

import (
	"context"

	"github.com/aanand-mishra/student-contacts/internal/coordinator"
	"github.com/aanand-mishra/student-contacts/internal/types"
)

// session drives a Coordinator synchronously for command-line use.
type session struct {
	coord   *coordinator.Coordinator
	changed chan struct{}
}

func newSession(c *coordinator.Coordinator) *session {
	s := &session{coord: c, changed: make(chan struct{}, 1)}
	c.SetOnChange(func(coordinator.Snapshot) {
		select {
		case s.changed <- struct{}{}:
		default:
		}
	})
	return s
}

func (s *session) Close() { s.coord.Stop() }

// await polls the latest snapshot until done reports true. A change
// signalled between Snapshot and select stays buffered, so no wakeup is lost.
func (s *session) await(ctx context.Context, done func(coordinator.Snapshot) bool) (coordinator.Snapshot, error) {
	for {
		snap := s.coord.Snapshot()
		if done(snap) {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case <-s.changed:
		}
	}
}

func settled(snap coordinator.Snapshot) bool {
	return snap.Phase == coordinator.PhaseSuccess || snap.Phase == coordinator.PhaseError
}

// Load fetches the roster and waits until it succeeds or fails for good.
func (s *session) Load(ctx context.Context) (coordinator.Snapshot, error) {
	s.coord.FetchRoster()
	return s.await(ctx, settled)
}

// Retry reruns a failed fetch. ok is false when there was nothing to retry.
func (s *session) Retry(ctx context.Context) (snap coordinator.Snapshot, ok bool, err error) {
	if !s.coord.Snapshot().CanRetry() {
		return coordinator.Snapshot{}, false, nil
	}
	s.coord.Retry()
	snap, err = s.await(ctx, settled)
	return snap, true, err
}

// Search applies a query to the loaded roster.
func (s *session) Search(query string) coordinator.Snapshot {
	s.coord.SetQuery(query)
	return s.coord.Snapshot()
}

// Show selects id and waits for its detail refresh to finish. ok is
// false when id is not in the loaded roster.
func (s *session) Show(ctx context.Context, id types.RecordID) (snap coordinator.Snapshot, ok bool, err error) {
	s.coord.Select(id)
	snap, err = s.await(ctx, func(snap coordinator.Snapshot) bool {
		return snap.Selected == nil || snap.Selected.ID != id || !snap.DetailLoading
	})
	if err != nil {
		return snap, false, err
	}
	return snap, snap.Selected != nil && snap.Selected.ID == id, nil
}

// Back clears the detail view.
func (s *session) Back() coordinator.Snapshot {
	s.coord.Deselect()
	return s.coord.Snapshot()
}

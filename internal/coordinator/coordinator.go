// Package coordinator owns the roster fetch state machine:
//
//	Idle ──FetchRoster──▶ Loading ──ok──────────────▶ Success
//	                        │  ▲                         │
//	                        │  └─retryable, budget left  │ FetchRoster
//	                        │    (backoff 1s, 2s, ...)   ▼
//	                        └──otherwise──▶ Error ──Retry──▶ Loading
//
// All state lives on a single goroutine that executes queued closures
// one at a time, so none of it needs a lock. Network calls run on their
// own goroutines and post their results back onto that queue, tagged
// with the attempt they belong to; results from superseded attempts are
// dropped. Backoff delays are timers that post the next attempt.
package coordinator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aanand-mishra/student-contacts/internal/fetch"
	"github.com/aanand-mishra/student-contacts/internal/roster"
	"github.com/aanand-mishra/student-contacts/internal/types"
)

// Fetcher is the network side of the coordinator. *fetch.Controller
// satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchRoster(ctx context.Context) fetch.Result
	FetchRecord(ctx context.Context, id types.RecordID) (types.StudentRecord, bool)
}

// Policy bounds automatic retries.
type Policy struct {
	// MaxRetries is the number of automatic retries after the first attempt.
	MaxRetries int
	// BaseBackoff is the delay before the first retry; it doubles each time.
	BaseBackoff time.Duration
}

// DefaultPolicy retries twice, after 1s and then 2s.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 2, BaseBackoff: time.Second}
}

// Backoff returns the delay before retry number attempt (0-based).
func (p Policy) Backoff(attempt int) time.Duration {
	return p.BaseBackoff << attempt
}

// Coordinator drives roster fetches and holds the state the
// presentation layer renders. Its methods are safe to call from any
// goroutine and never block on the network.
type Coordinator struct {
	fetcher Fetcher
	policy  Policy
	log     *slog.Logger

	events chan func()
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Owned by the run goroutine.
	phase     Phase
	roster    []types.StudentRecord
	filtered  []types.StudentRecord
	query     string
	err       *fetch.Error
	attempt   int
	updatedAt time.Time

	seq         uint64
	fetchCancel context.CancelFunc
	retryTimer  *time.Timer

	selected       *types.StudentRecord
	detailSeq      uint64
	detailCancel   context.CancelFunc
	detailNotFound bool

	onChange func(Snapshot)
}

// New creates a Coordinator in PhaseIdle and starts its loop.
// Call Stop to release it.
func New(f Fetcher, policy Policy, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())

	c := &Coordinator{
		fetcher: f,
		policy:  policy,
		log:     log.With(slog.String("component", "coordinator")),
		events:  make(chan func()),
		ctx:     ctx,
		cancel:  cancel,
		phase:   PhaseIdle,
	}

	c.wg.Add(1)
	go c.run()
	return c
}

// Stop cancels in-flight requests and pending retries, then waits for
// the loop to exit. Calls made after Stop are ignored.
func (c *Coordinator) Stop() {
	c.cancel()
	c.wg.Wait()
}

func (c *Coordinator) run() {
	defer c.wg.Done()
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.ctx.Done():
			c.stopRetry()
			c.cancelRoster()
			c.cancelDetail()
			return
		}
	}
}

// post queues fn on the loop. It reports false once the loop has stopped.
func (c *Coordinator) post(fn func()) bool {
	select {
	case c.events <- fn:
		return true
	case <-c.ctx.Done():
		return false
	}
}

// SetOnChange registers fn to receive a snapshot after every state
// change. fn runs on the loop goroutine: it must return promptly and
// must not call back into the Coordinator synchronously.
func (c *Coordinator) SetOnChange(fn func(Snapshot)) {
	c.post(func() { c.onChange = fn })
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	if !c.post(func() { reply <- c.snapshot() }) {
		return Snapshot{Phase: PhaseIdle}
	}
	return <-reply
}

// FetchRoster starts a fetch on mount or user refresh. A fetch already
// in flight is cancelled and replaced; its late result is discarded.
// The current roster stays visible until the new fetch resolves.
func (c *Coordinator) FetchRoster() {
	c.post(c.beginRoster)
}

// Retry is the manual retry action offered in PhaseError. It is a no-op
// in any other phase.
func (c *Coordinator) Retry() {
	c.post(func() {
		if c.phase != PhaseError {
			return
		}
		c.beginRoster()
	})
}

// SetQuery replaces the search text and recomputes the filtered view.
// It never changes the fetch phase.
func (c *Coordinator) SetQuery(text string) {
	c.post(func() {
		c.query = text
		c.filtered = roster.Filter(c.roster, text)
		c.notify()
	})
}

// Select shows the record with id in the detail view and refreshes it
// from the single-record endpoint. Unknown ids are ignored.
func (c *Coordinator) Select(id types.RecordID) {
	c.post(func() { c.selectRecord(id) })
}

// Deselect clears the detail view.
func (c *Coordinator) Deselect() {
	c.post(func() {
		c.clearSelection()
		c.notify()
	})
}

func (c *Coordinator) beginRoster() {
	c.stopRetry()
	c.cancelRoster()

	c.attempt = 0
	c.err = nil
	c.phase = PhaseLoading
	c.issueAttempt()
	c.notify()
}

func (c *Coordinator) issueAttempt() {
	c.seq++
	token := c.seq

	ctx, cancel := context.WithCancel(c.ctx)
	c.fetchCancel = cancel

	c.log.Debug("fetching roster", slog.Uint64("token", token), slog.Int("attempt", c.attempt))

	go func() {
		res := c.fetcher.FetchRoster(ctx)
		c.post(func() { c.applyRoster(token, res) })
	}()
}

func (c *Coordinator) applyRoster(token uint64, res fetch.Result) {
	if token != c.seq {
		c.log.Debug("discarding stale roster response", slog.Uint64("token", token), slog.Uint64("current", c.seq))
		return
	}
	c.cancelRoster()

	switch {
	case res.OK():
		c.install(res.Records)

	case res.Err.Kind == fetch.KindCanceled:
		// Only happens while stopping; nothing to surface.

	case res.Err.Retryable && c.attempt < c.policy.MaxRetries:
		delay := c.policy.Backoff(c.attempt)
		c.attempt++
		c.log.Info("roster fetch failed, retrying",
			slog.String("kind", res.Err.Kind.String()),
			slog.String("error", res.Err.Error()),
			slog.Int("retry", c.attempt),
			slog.Duration("backoff", delay))

		c.retryTimer = time.AfterFunc(delay, func() {
			c.post(func() {
				if token != c.seq {
					return
				}
				c.retryTimer = nil
				c.issueAttempt()
			})
		})
		c.notify()

	default:
		c.phase = PhaseError
		c.err = res.Err
		c.log.Warn("roster fetch failed",
			slog.String("kind", res.Err.Kind.String()),
			slog.String("error", res.Err.Error()),
			slog.Int("retries", c.attempt))
		c.notify()
	}
}

func (c *Coordinator) install(records []types.StudentRecord) {
	c.roster = roster.SortByName(records)
	c.filtered = roster.Filter(c.roster, c.query)
	c.phase = PhaseSuccess
	c.err = nil
	c.updatedAt = time.Now()
	c.clearSelection()

	c.log.Info("roster installed", slog.Int("records", len(c.roster)), slog.Int("retries", c.attempt))
	c.notify()
}

func (c *Coordinator) selectRecord(id types.RecordID) {
	rec, ok := roster.Find(c.roster, id)
	if !ok {
		c.log.Debug("select ignored, id not in roster", slog.String("id", id.String()))
		return
	}

	c.cancelDetail()
	c.selected = &rec
	c.detailNotFound = false

	c.detailSeq++
	token := c.detailSeq
	ctx, cancel := context.WithCancel(c.ctx)
	c.detailCancel = cancel

	go func() {
		fresh, found := c.fetcher.FetchRecord(ctx, id)
		c.post(func() { c.applyDetail(token, id, fresh, found) })
	}()
	c.notify()
}

func (c *Coordinator) applyDetail(token uint64, id types.RecordID, rec types.StudentRecord, found bool) {
	if token != c.detailSeq || c.selected == nil || c.selected.ID != id {
		return
	}
	c.cancelDetail()

	if found {
		c.selected = &rec
	} else {
		c.detailNotFound = true
	}
	c.notify()
}

func (c *Coordinator) clearSelection() {
	c.cancelDetail()
	c.detailSeq++
	c.selected = nil
	c.detailNotFound = false
}

func (c *Coordinator) cancelRoster() {
	if c.fetchCancel != nil {
		c.fetchCancel()
		c.fetchCancel = nil
	}
}

func (c *Coordinator) cancelDetail() {
	if c.detailCancel != nil {
		c.detailCancel()
		c.detailCancel = nil
	}
}

func (c *Coordinator) stopRetry() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Coordinator) notify() {
	if c.onChange != nil {
		c.onChange(c.snapshot())
	}
}

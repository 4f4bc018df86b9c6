// Package fetch is the roster API client. Every call is bounded by a
// client-side timeout and resolves to a classified result; nothing is
// returned as a raw error and nothing panics past this package.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/aanand-mishra/student-contacts/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultTimeout bounds each request end to end, body included.
const DefaultTimeout = 10 * time.Second

const maxBodyBytes = 8 << 20

var errRequestTimeout = errors.New("fetch: request timeout")

// Result is the outcome of FetchRoster: either Records or Err is set.
type Result struct {
	Records []types.StudentRecord
	Err     *Error
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool { return r.Err == nil }

// rosterPayload is the schema a roster response must satisfy.
type rosterPayload struct {
	Records []types.StudentRecord `validate:"unique=RollNumber,dive"`
}

// Controller issues roster requests against a fixed base URL.
// It is safe for concurrent use.
type Controller struct {
	baseURL  string
	timeout  time.Duration
	client   *http.Client
	validate *validator.Validate
	log      *slog.Logger
}

// New creates a Controller. baseURL is resolved once by the caller and
// never re-derived; a zero timeout means DefaultTimeout.
func New(baseURL string, timeout time.Duration, log *slog.Logger) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		// Deadlines come from the request context, not Client.Timeout,
		// so a timeout can be told apart from a caller cancellation.
		client:   &http.Client{},
		validate: validator.New(),
		log:      log,
	}
}

// FetchRoster fetches GET {baseURL}/students.
func (c *Controller) FetchRoster(ctx context.Context) Result {
	data, ferr := c.get(ctx, "/students")
	if ferr != nil {
		return Result{Err: ferr}
	}

	var payload rosterPayload
	if err := json.Unmarshal(data, &payload.Records); err != nil {
		return Result{Err: serverFailure("malformed roster: %s", err)}
	}
	if ferr := c.check(payload); ferr != nil {
		return Result{Err: ferr}
	}

	c.log.Debug("roster fetched", slog.Int("records", len(payload.Records)))
	return Result{Records: payload.Records}
}

// FetchRecord fetches GET {baseURL}/students/{id}. Any failure is
// reported as not found; the caller decides what to tell the user.
func (c *Controller) FetchRecord(ctx context.Context, id types.RecordID) (types.StudentRecord, bool) {
	rec, ferr := c.Record(ctx, id)
	if ferr != nil {
		if ferr.Kind != KindCanceled {
			c.log.Warn("record fetch failed",
				slog.String("id", id.String()),
				slog.String("kind", ferr.Kind.String()),
				slog.String("error", ferr.Error()))
		}
		return types.StudentRecord{}, false
	}
	return rec, true
}

// Record is FetchRecord with the classified failure exposed.
func (c *Controller) Record(ctx context.Context, id types.RecordID) (types.StudentRecord, *Error) {
	data, ferr := c.get(ctx, "/students/"+url.PathEscape(id.String()))
	if ferr != nil {
		return types.StudentRecord{}, ferr
	}

	var rec types.StudentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.StudentRecord{}, serverFailure("malformed record: %s", err)
	}
	if ferr := c.check(rec); ferr != nil {
		return types.StudentRecord{}, ferr
	}
	if rec.ID != id {
		return types.StudentRecord{}, serverFailure("asked for id %s, got %s", id, rec.ID)
	}
	return rec, nil
}

// get performs one timed GET and returns the envelope's data on success.
func (c *Controller) get(ctx context.Context, path string) (json.RawMessage, *Error) {
	reqCtx, cancel := context.WithTimeoutCause(ctx, c.timeout, errRequestTimeout)
	// cancel releases the timer and, with it, the underlying connection.
	defer cancel()

	reqID := uuid.NewString()
	log := c.log.With(slog.String("request_id", reqID), slog.String("path", path))

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, networkError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		ferr := c.classify(ctx, reqCtx, err)
		log.Debug("request failed", slog.String("kind", ferr.Kind.String()), slog.Duration("elapsed", time.Since(start)))
		return nil, ferr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		log.Debug("non-success status", slog.Int("status", resp.StatusCode))
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(ctx, reqCtx, err)
	}

	log.Debug("response received",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	var env types.Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, serverFailure("malformed response: %s", err)
	}
	if ferr := c.check(env); ferr != nil {
		return nil, ferr
	}
	if env.Status != types.StatusSuccess {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("status %q", env.Status)
		}
		return nil, serverFailure("%s", msg)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, serverFailure("response has no data")
	}

	return env.Data, nil
}

// classify maps a transport error to Timeout, Canceled or NetworkFailure.
func (c *Controller) classify(parent, reqCtx context.Context, err error) *Error {
	if errors.Is(context.Cause(reqCtx), errRequestTimeout) {
		return timeoutError(c.timeout)
	}
	if parent.Err() != nil {
		return canceledError()
	}
	return networkError(err)
}

// check runs struct validation and turns violations into a failure.
func (c *Controller) check(v any) *Error {
	err := c.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return serverFailure("%s", response.DescribeValidation(verrs))
	}
	return serverFailure("%s", err)
}

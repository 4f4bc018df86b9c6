package fetch

import (
	"fmt"
	"time"
)

// Kind classifies why a request did not produce records.
type Kind int

const (
	// KindTimeout: no complete response within the request timeout.
	KindTimeout Kind = iota + 1
	// KindNetwork: connection-level failure (DNS, refused, reset).
	KindNetwork
	// KindHTTPStatus: the server answered with a non-2xx status.
	KindHTTPStatus
	// KindServerReported: the body was malformed, failed schema
	// validation, or carried a non-success envelope status.
	KindServerReported
	// KindCanceled: the caller cancelled the request (it was superseded).
	KindCanceled
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindNetwork:
		return "NetworkFailure"
	case KindHTTPStatus:
		return "HttpStatus"
	case KindServerReported:
		return "ServerReportedFailure"
	case KindCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified fetch failure. Retryable tells the coordinator
// whether an automatic backoff retry may help.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Retryable  bool
}

// Error returns a reason suitable for showing to the user.
func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return "request timed out: " + e.Message
	case KindNetwork:
		return "network error: " + e.Message
	case KindHTTPStatus:
		return fmt.Sprintf("server responded with HTTP %d", e.StatusCode)
	case KindServerReported:
		return "server reported a failure: " + e.Message
	case KindCanceled:
		return "request canceled"
	default:
		return e.Message
	}
}

func timeoutError(after time.Duration) *Error {
	return &Error{Kind: KindTimeout, Message: fmt.Sprintf("no response after %s", after)}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Retryable: true}
}

func statusError(code int) *Error {
	return &Error{Kind: KindHTTPStatus, StatusCode: code, Retryable: true}
}

func serverFailure(format string, args ...any) *Error {
	return &Error{Kind: KindServerReported, Message: fmt.Sprintf(format, args...)}
}

func canceledError() *Error {
	return &Error{Kind: KindCanceled}
}

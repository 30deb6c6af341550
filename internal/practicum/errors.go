package practicum

import (
	"errors"
	"fmt"
)

// PollErrorKind classifies a failed fetch. All expected failure categories
// are returned as values; none abort the caller's loop.
type PollErrorKind int

const (
	// KindTransient covers connection failures, timeouts, 5xx and 429.
	// Expected to resolve on a later cycle without code changes.
	KindTransient PollErrorKind = iota
	// KindClientRequest covers other 4xx: the request itself is suspect.
	// Retried at the same cadence, but logged distinctly.
	KindClientRequest
	// KindMalformedPayload is a 200 whose body is not parseable JSON.
	KindMalformedPayload
)

func (k PollErrorKind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindClientRequest:
		return "client_request"
	case KindMalformedPayload:
		return "malformed_payload"
	default:
		return "unknown"
	}
}

// PollError is the classified outcome of a failed fetch.
type PollError struct {
	Kind       PollErrorKind
	StatusCode int // 0 when the failure happened below HTTP
	Err        error
}

func (e *PollError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("poll failed (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("poll failed (%s): %v", e.Kind, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// Validation errors (response shape).
var (
	ErrEmptyResponse = errors.New("empty response from server")
	ErrNotAnObject   = errors.New("response is not an object")
)

// MissingFieldError reports a required field absent from the response.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response is missing field %q", e.Field)
}

// WrongTypeError reports a field present with an unexpected shape.
type WrongTypeError struct {
	Field string
	Want  string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("response field %q is not a %s", e.Field, e.Want)
}

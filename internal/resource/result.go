package resource

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type FailureKind int

const (
	// FailureServer means a non-2xx response was received.
	FailureServer FailureKind = iota + 1
	// FailureTransport means no response was received at all.
	FailureTransport
	// FailureLocal means the request was never sent or a 2xx body could not be decoded.
	FailureLocal
)

func (k FailureKind) String() string {
	switch k {
	case FailureServer:
		return "server"
	case FailureTransport:
		return "transport"
	case FailureLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Failure describes why an operation did not produce a value.
//
// For FailureServer, Body is the upstream body byte-for-byte and may be empty.
type Failure struct {
	Kind    FailureKind
	Op      Op
	Method  string
	URL     string
	Status  int
	Body    json.RawMessage
	Message string
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	switch f.Kind {
	case FailureServer:
		if len(f.Body) > 0 {
			return fmt.Sprintf("%s %s: status %d: %s", f.Method, f.URL, f.Status, truncate(string(f.Body), 256))
		}
		return fmt.Sprintf("%s %s: status %d", f.Method, f.URL, f.Status)
	default:
		if f.URL == "" {
			return fmt.Sprintf("%s %s: %s", f.Op, f.Kind, f.Message)
		}
		return fmt.Sprintf("%s %s: %s: %s", f.Method, f.URL, f.Kind, f.Message)
	}
}

// Structured reports whether the server body is valid JSON.
func (f *Failure) Structured() bool {
	return f != nil && f.Kind == FailureServer && len(f.Body) > 0 && json.Valid(f.Body)
}

// Payload is what a caller surfaces for this failure: the server body when it is
// structured JSON, otherwise the message string.
func (f *Failure) Payload() any {
	if f == nil {
		return nil
	}
	if f.Structured() {
		return f.Body
	}
	if f.Kind == FailureServer && len(f.Body) > 0 {
		return string(f.Body)
	}
	return f.Message
}

// Result is the outcome of one resource operation. Exactly one of Value (with
// Failure == nil) or Failure is meaningful.
type Result[R any] struct {
	Value   R
	Status  int
	Header  http.Header
	Failure *Failure
}

func (r Result[R]) OK() bool {
	return r.Failure == nil
}

// Err returns the failure as an error, or nil.
func (r Result[R]) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

func (r Result[R]) Unwrap() (R, error) {
	return r.Value, r.Err()
}

func failed[R any](f *Failure) Result[R] {
	return Result[R]{Status: f.Status, Failure: f}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package omdb

import (
	"errors"
	"fmt"
)

// ErrorKind tags where a failure came from
type ErrorKind string

const (
	KindNetwork ErrorKind = "network" // No response (DNS, connection, timeout)
	KindHTTP    ErrorKind = "http"    // Non-2xx status
	KindAPI     ErrorKind = "api"     // Well-formed response reporting a logical failure
)

// Error is the single failure shape returned by the client
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode,omitempty"`
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("omdb %s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("omdb %s error: %s", e.Kind, e.Message)
}

// failure is what a single round trip produced before normalization.
// At most one of transport, status or body signals the failure.
type failure struct {
	transport  error
	statusCode int
	body       *envelope
}

// normalize applies the rules in priority order: transport, status, body
func normalize(f failure) *Error {
	if f.transport != nil {
		return &Error{Kind: KindNetwork, Message: f.transport.Error()}
	}
	if f.statusCode != 0 && (f.statusCode < 200 || f.statusCode >= 300) {
		return &Error{
			Kind:       KindHTTP,
			Message:    fmt.Sprintf("HTTP error! status: %d", f.statusCode),
			StatusCode: f.statusCode,
		}
	}
	if f.body != nil && !f.body.ok() {
		return &Error{Kind: KindAPI, Message: f.body.Error}
	}
	return nil
}

// Normalize converts any error into an *Error. Values that already are
// an *Error are returned unchanged; everything else is treated as a
// transport failure.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

package trivia

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestFailed marks a non-2xx response, a transport error or an
	// undecodable body.
	ErrRequestFailed = errors.New("request failed")
	// ErrEmptyResult marks a valid response that carries no data.
	ErrEmptyResult = errors.New("empty result")
)

// RequestError describes a failed call to the question service.
type RequestError struct {
	Op         string // client operation, e.g. "list questions"
	StatusCode int    // 0 when no response was received
	Message    string // server message when available
	Err        error  // underlying transport or decode error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %s: status %d: %s", e.Op, ErrRequestFailed, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: status %d", e.Op, ErrRequestFailed, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, ErrRequestFailed, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, ErrRequestFailed)
	}
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}

package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a requested id that the backend does not have.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// TransportError is a failed gateway call: the request did not complete, or
// the backend answered with a top-level success:false.
type TransportError struct {
	Op      string
	Message string
	Err     error
}

func (e TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e TransportError) Unwrap() error { return e.Err }

// RecordError is one failed record inside a partial batch result.
type RecordError struct {
	ID      int
	Message string
}

// PartialError reports a multi-record write that partially failed. Records
// that succeeded are still returned to the caller alongside this error.
type PartialError struct {
	Kind   string
	Failed []RecordError
}

func (e PartialError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		if f.ID != 0 {
			parts = append(parts, fmt.Sprintf("%d: %s", f.ID, f.Message))
		} else {
			parts = append(parts, f.Message)
		}
	}
	return fmt.Sprintf("%d %s record(s) failed: %s", len(e.Failed), e.Kind, strings.Join(parts, "; "))
}

package client

import (
	"errors"
	"fmt"
)

// Sentinel errors describing the kind of an [*Error]. Match them with
// errors.Is:
//
//	if errors.Is(err, client.ErrMissingResult) { ... }
var (
	// ErrTransport means the request could not be sent or no response was received.
	ErrTransport = errors.New("transport failure")
	// ErrStatus means the API answered with a non-2xx HTTP status.
	ErrStatus = errors.New("non-success status")
	// ErrDecode means the body did not match the expected envelope or payload shape.
	ErrDecode = errors.New("decode failure")
	// ErrService means the envelope reported err != 0.
	ErrService = errors.New("service error")
	// ErrMissingResult means the envelope reported success without a result.
	ErrMissingResult = errors.New("missing result")
)

// Error is returned by every [Client] operation. Op names the endpoint that
// failed (for example "item_by_counter"), Kind is one of the sentinel errors
// above and Err carries the underlying cause, if any.
type Error struct {
	Op         string
	Kind       error
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// kindName is the short label used for the metrics outcome.
func kindName(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrService):
		return "service"
	case errors.Is(err, ErrMissingResult):
		return "missing_result"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "unknown"
	}
}

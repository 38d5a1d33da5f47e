package remote

import (
	"encoding/json"
	"fmt"
)

// ErrRemoteUnavailable indicates the assessment service could not be
// reached or answered with a server error.
type ErrRemoteUnavailable struct {
	Op  string
	Err error
}

func (e *ErrRemoteUnavailable) Error() string {
	return fmt.Sprintf("assessment service unavailable (%s): %v", e.Op, e.Err)
}

func (e *ErrRemoteUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the service answered with a payload that
// does not conform to the expected shape.
type ErrInvalidResponse struct {
	Op      string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response from assessment service (%s): %v", e.Op, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

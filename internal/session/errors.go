package session

import (
	"errors"
	"fmt"
)

// ErrNoAnswer is returned by Next when the current slot is empty:
// forward navigation requires an answer.
var ErrNoAnswer = errors.New("no answer selected")

// ErrSubmitInFlight is returned by Submit while a previous submission
// is still pending. Submission is not re-entrant; allowing a second
// call would risk duplicate remote submissions.
var ErrSubmitInFlight = errors.New("submission already in flight")

// ErrNoSession is returned by operations invoked before OpenCategory.
var ErrNoSession = errors.New("no active session")

// ErrNoQuestions is returned when the authoritative question set has
// no questions for the active category, so no valid payload can be
// built.
var ErrNoQuestions = errors.New("question set unavailable for category")

// ErrIncomplete is returned by Submit when slots are still unanswered.
type ErrIncomplete struct {
	Answered int
	Required int
}

func (e *ErrIncomplete) Error() string {
	return fmt.Sprintf("incomplete submission: %d of %d questions answered", e.Answered, e.Required)
}

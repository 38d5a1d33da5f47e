package session

import (
	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/remote"
)

// Mode distinguishes a mutable draft session from the read-only
// reconstruction of a submitted category.
type Mode int

const (
	ModeDraft Mode = iota
	ModeReview
)

// Phase is the current step of the category flow.
type Phase int

const (
	// PhaseAnswering is the ordinary question-by-question flow.
	PhaseAnswering Phase = iota

	// PhaseConfirmSubmit is the explicit decision point reached when
	// the last question is answered and the battery is complete. The
	// user chooses to submit or to go back and review; nothing is
	// submitted automatically.
	PhaseConfirmSubmit

	// PhaseSubmitting is set while the remote submission is pending.
	PhaseSubmitting

	// PhaseSubmitted is a confirmed submission; the session is now in
	// review mode.
	PhaseSubmitted
)

// State is the runtime state of the active category session. Exactly
// one State is active at a time.
type State struct {
	// SessionID identifies this open session. Async results tagged
	// with a different id are stale and must be discarded.
	SessionID string

	Mode  Mode
	Phase Phase

	// CategoryIndex is the 0-based active category.
	CategoryIndex int

	// QuestionIndex is the 0-based active question within the category.
	QuestionIndex int

	// Answers holds this session's ledger. In review mode it is a
	// read-only reconstruction from the remote service.
	Answers assessment.Ledger

	// Questions is the authoritative question set for the session.
	Questions remote.QuestionSet

	// SubmitErr is the last submission failure, cleared when the user
	// changes an answer. The draft is untouched while it is set, so
	// submission can be retried without data loss.
	SubmitErr error
}

// Category returns the active category.
func (s *State) Category() *assessment.Category {
	return assessment.CategoryAt(s.CategoryIndex)
}

// QuestionText returns the authoritative text for the active question.
func (s *State) QuestionText() string {
	return s.Questions.Question(s.CategoryIndex, s.QuestionIndex)
}

// CurrentAnswer returns the answer for the active slot, if any.
func (s *State) CurrentAnswer() (assessment.Answer, bool) {
	return s.Answers.Get(s.CategoryIndex, s.QuestionIndex)
}

// AnsweredCount counts answered slots in the active category.
func (s *State) AnsweredCount() int {
	return s.Answers.AnsweredCount(s.CategoryIndex)
}

// Complete reports whether every slot in the active category holds an
// answer.
func (s *State) Complete() bool {
	return s.Answers.Complete(s.CategoryIndex)
}

package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/bubbles/v2/spinner"

	"github.com/sailshr/wow/internal/remote"
	"github.com/sailshr/wow/internal/router"
	"github.com/sailshr/wow/internal/screen"
	sess "github.com/sailshr/wow/internal/session"
	"github.com/sailshr/wow/internal/ui/components"
	"github.com/sailshr/wow/internal/ui/layout"
)

// AssessmentScreen implements screen.Screen for one open category
// session, in either draft or review mode.
type AssessmentScreen struct {
	ctrl          *sess.Controller
	categoryIndex int
	questions     remote.QuestionSet

	state     *sess.State
	likert    components.LikertSelector
	spin      components.Spinner
	saving    bool
	inFlight  bool
	notice    string
	errMsg    string
	submitted *remote.SubmitResult
}

var _ screen.Screen = (*AssessmentScreen)(nil)
var _ screen.KeyHintProvider = (*AssessmentScreen)(nil)
var _ router.Closer = (*AssessmentScreen)(nil)

// New creates an AssessmentScreen for the given category.
func New(ctrl *sess.Controller, categoryIndex int, questions remote.QuestionSet) *AssessmentScreen {
	return &AssessmentScreen{
		ctrl:          ctrl,
		categoryIndex: categoryIndex,
		questions:     questions,
		spin:          components.NewSpinner(),
	}
}

func (s *AssessmentScreen) Init() tea.Cmd {
	return tea.Batch(
		s.spin.Init(),
		s.openCmd(),
	)
}

func (s *AssessmentScreen) Title() string {
	if s.state != nil && s.state.Mode == sess.ModeReview {
		return "Review"
	}
	return "Assessment"
}

// Close flushes any pending draft write when the screen is popped.
func (s *AssessmentScreen) Close() {
	s.ctrl.Close()
}

func (s *AssessmentScreen) KeyHints() []layout.KeyHint {
	if s.state == nil || s.errMsg != "" || s.submitted != nil {
		return []layout.KeyHint{
			{Key: "any key", Description: "Back"},
		}
	}
	if s.inFlight || s.state.Phase == sess.PhaseSubmitting {
		return nil
	}
	if s.state.Phase == sess.PhaseConfirmSubmit {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "B", Description: "Review answers"},
			{Key: "Esc", Description: "Save & exit"},
		}
	}
	if s.state.Mode == sess.ModeReview {
		return []layout.KeyHint{
			{Key: "←→", Description: "Browse"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-5/Enter", Description: "Answer"},
		{Key: "←→", Description: "Navigate"},
		{Key: "Esc", Description: "Save & exit"},
	}
}

func (s *AssessmentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		return s.handleOpened(msg)

	case backfillDoneMsg:
		return s.handleBackfillDone(msg)

	case submitDoneMsg:
		return s.handleSubmitDone(msg)

	case saveFlashDoneMsg:
		s.saving = false
		return s, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s, nil
}

func (s *AssessmentScreen) handleOpened(msg openedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.state = msg.State
	s.rebuildSelector()

	if s.state.Mode == sess.ModeDraft {
		return s, s.backfillCmd(s.state.SessionID)
	}
	return s, nil
}

func (s *AssessmentScreen) handleBackfillDone(msg backfillDoneMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil || msg.SessionID != s.state.SessionID {
		return s, nil
	}
	// Backfill is best effort; a failure leaves the draft as it was.
	if msg.Err == nil {
		s.refresh()
	}
	return s, nil
}

func (s *AssessmentScreen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil || msg.SessionID != s.state.SessionID {
		return s, nil
	}
	s.inFlight = false
	if msg.Err != nil {
		// The controller has restored the confirm phase with the
		// failure attached; the draft is intact for a retry.
		s.refresh()
		return s, nil
	}
	if msg.Result == nil {
		return s, nil
	}
	s.submitted = msg.Result
	s.refresh()
	return s, nil
}

func (s *AssessmentScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" || s.submitted != nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.state == nil {
		return s, nil
	}

	if s.inFlight || s.state.Phase == sess.PhaseSubmitting {
		return s, nil
	}

	if s.state.Phase == sess.PhaseConfirmSubmit {
		switch key {
		case "enter", "s", "S":
			s.inFlight = true
			return s, tea.Batch(s.submitCmd(s.state.SessionID), s.spin.Init())
		case "b", "B", "r", "R", "left":
			s.ctrl.CancelConfirm()
			s.refresh()
			return s, nil
		}
		return s, nil
	}

	s.notice = ""

	switch key {
	case "left", "p":
		s.ctrl.Previous()
		s.refresh()
		return s, nil

	case "right", "n":
		if err := s.ctrl.Next(); err != nil {
			s.showAdvanceErr(err)
		}
		s.refresh()
		return s, nil
	}

	if s.state.Mode == sess.ModeReview {
		return s, nil
	}

	// Forward to the answer selector. A chosen value records the
	// answer and advances to the next question.
	var chosen string
	s.likert, chosen = s.likert.Update(msg)
	if chosen == "" {
		return s, nil
	}

	s.ctrl.Answer(chosen)
	if err := s.ctrl.Next(); err != nil {
		s.showAdvanceErr(err)
	}
	s.refresh()

	s.saving = true
	return s, tea.Tick(600*time.Millisecond, func(t time.Time) tea.Msg {
		return saveFlashDoneMsg(t)
	})
}

func (s *AssessmentScreen) showAdvanceErr(err error) {
	var incomplete *sess.ErrIncomplete
	switch {
	case errors.Is(err, sess.ErrNoAnswer):
		s.notice = "Select an answer to continue"
	case errors.As(err, &incomplete):
		s.notice = fmt.Sprintf("%d of %d answered. Go back and fill in the rest.",
			incomplete.Answered, incomplete.Required)
	default:
		s.notice = err.Error()
	}
}

// refresh pulls a fresh state snapshot and rebuilds the selector when
// the active question changed.
func (s *AssessmentScreen) refresh() {
	prev := s.state
	s.state = s.ctrl.State()
	if s.state == nil {
		return
	}
	if prev == nil || prev.QuestionIndex != s.state.QuestionIndex || prev.Phase != s.state.Phase {
		s.rebuildSelector()
	} else {
		// Same question; sync the chosen marker with the ledger.
		if a, ok := s.state.CurrentAnswer(); ok {
			s.likert.Chosen = a.Value
		}
	}
}

func (s *AssessmentScreen) rebuildSelector() {
	saved := ""
	if a, ok := s.state.CurrentAnswer(); ok {
		saved = a.Value
	}
	s.likert = components.NewLikertSelector(
		s.state.QuestionText(),
		saved,
		s.state.Mode == sess.ModeReview,
	)
}

func (s *AssessmentScreen) openCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := s.ctrl.OpenCategory(context.Background(), s.categoryIndex, s.questions)
		return openedMsg{State: st, Err: err}
	}
}

func (s *AssessmentScreen) backfillCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := s.ctrl.Backfill(context.Background(), sessionID)
		return backfillDoneMsg{SessionID: sessionID, Err: err}
	}
}

func (s *AssessmentScreen) submitCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		res, err := s.ctrl.Submit(context.Background())
		return submitDoneMsg{SessionID: sessionID, Result: res, Err: err}
	}
}

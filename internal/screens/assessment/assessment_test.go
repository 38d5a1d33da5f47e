package assessment

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	core "github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/progress"
	"github.com/sailshr/wow/internal/remote"
	"github.com/sailshr/wow/internal/screen"
	sess "github.com/sailshr/wow/internal/session"
)

// fakeService implements sess.RemoteService for screen tests.
type fakeService struct {
	sectionAnswers []remote.SectionAnswer
	submitResult   *remote.SubmitResult
	submitErr      error
	submitCalls    int
}

func (f *fakeService) FetchSectionAnswers(_ context.Context, _, _ string) ([]remote.SectionAnswer, error) {
	return f.sectionAnswers, nil
}

func (f *fakeService) SubmitSection(_ context.Context, _ remote.SubmitRequest) (*remote.SubmitResult, error) {
	f.submitCalls++
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitResult, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuestions() remote.QuestionSet {
	qs := make(remote.QuestionSet, core.NumCategories)
	for c := range qs {
		qs[c] = make([]string, core.QuestionsPerCategory)
		for q := range qs[c] {
			qs[c][q] = fmt.Sprintf("Question %d-%d", c, q)
		}
	}
	return qs
}

func testScreen(t *testing.T, svc *fakeService) *AssessmentScreen {
	t.Helper()
	st, err := progress.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	ctrl := sess.New(st, svc, "x123", "2A")
	return New(ctrl, 0, testQuestions())
}

// open drives the screen past the async open step.
func open(t *testing.T, s *AssessmentScreen) {
	t.Helper()
	msg := s.openCmd()()
	opened, ok := msg.(openedMsg)
	if !ok {
		t.Fatalf("openCmd returned %T, want openedMsg", msg)
	}
	if opened.Err != nil {
		t.Fatalf("open: %v", opened.Err)
	}
	if _, cmd := s.Update(opened); cmd != nil {
		// Drain the backfill command; the fake returns no answers.
		if done, ok := cmd().(backfillDoneMsg); ok {
			s.Update(done)
		}
	}
}

func TestAssessmentScreen_ViewLoading(t *testing.T) {
	s := testScreen(t, &fakeService{})
	if s.View(80, 24) == "" {
		t.Error("expected non-empty loading view")
	}
}

func TestAssessmentScreen_AnswerAdvances(t *testing.T) {
	s := testScreen(t, &fakeService{})
	open(t, s)

	var scr screen.Screen = s
	scr, _ = scr.Update(keyPress('5'))
	ss := scr.(*AssessmentScreen)

	if ss.state.QuestionIndex != 1 {
		t.Errorf("QuestionIndex = %d, want 1", ss.state.QuestionIndex)
	}
	if a, ok := ss.state.Answers.Get(0, 0); !ok || a.Value != "5" {
		t.Errorf("answer slot 0 = %+v, answered=%v, want value 5", a, ok)
	}
}

func TestAssessmentScreen_PreviousAtFirstQuestion(t *testing.T) {
	s := testScreen(t, &fakeService{})
	open(t, s)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyLeft))
	ss := scr.(*AssessmentScreen)

	if ss.state.QuestionIndex != 0 {
		t.Errorf("QuestionIndex = %d, want 0", ss.state.QuestionIndex)
	}
}

func TestAssessmentScreen_NextRequiresAnswer(t *testing.T) {
	s := testScreen(t, &fakeService{})
	open(t, s)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyRight))
	ss := scr.(*AssessmentScreen)

	if ss.state.QuestionIndex != 0 {
		t.Errorf("QuestionIndex = %d, want 0", ss.state.QuestionIndex)
	}
	if ss.notice == "" {
		t.Error("expected a notice when advancing without an answer")
	}
}

func TestAssessmentScreen_ConfirmThenSubmit(t *testing.T) {
	svc := &fakeService{submitResult: &remote.SubmitResult{Message: "Saved"}}
	s := testScreen(t, svc)
	open(t, s)

	// Answer the whole battery; the last answer lands on the confirm
	// dialog instead of auto-submitting.
	var scr screen.Screen = s
	for i := 0; i < core.QuestionsPerCategory; i++ {
		scr, _ = scr.Update(keyPress('4'))
	}
	ss := scr.(*AssessmentScreen)
	if ss.state.Phase != sess.PhaseConfirmSubmit {
		t.Fatalf("phase = %v, want PhaseConfirmSubmit", ss.state.Phase)
	}
	if svc.submitCalls != 0 {
		t.Fatalf("submit calls before confirm = %d, want 0", svc.submitCalls)
	}

	// Confirm, then run the submit command the confirm scheduled.
	scr, cmd := ss.Update(specialKey(tea.KeyEnter))
	ss = scr.(*AssessmentScreen)
	if cmd == nil {
		t.Fatal("expected submit command after confirm")
	}
	done, ok := ss.submitCmd(ss.state.SessionID)().(submitDoneMsg)
	if !ok {
		t.Fatal("submitCmd did not produce a submitDoneMsg")
	}
	scr, _ = ss.Update(done)
	ss = scr.(*AssessmentScreen)

	if svc.submitCalls != 1 {
		t.Errorf("submit calls = %d, want 1", svc.submitCalls)
	}
	if ss.submitted == nil || ss.submitted.Message != "Saved" {
		t.Errorf("submitted = %+v, want message Saved", ss.submitted)
	}
}

func TestAssessmentScreen_ConfirmBackKeepsDraft(t *testing.T) {
	s := testScreen(t, &fakeService{})
	open(t, s)

	var scr screen.Screen = s
	for i := 0; i < core.QuestionsPerCategory; i++ {
		scr, _ = scr.Update(keyPress('3'))
	}
	ss := scr.(*AssessmentScreen)
	if ss.state.Phase != sess.PhaseConfirmSubmit {
		t.Fatalf("phase = %v, want PhaseConfirmSubmit", ss.state.Phase)
	}

	scr, _ = ss.Update(keyPress('b'))
	ss = scr.(*AssessmentScreen)
	if ss.state.Phase != sess.PhaseAnswering {
		t.Errorf("phase = %v, want PhaseAnswering", ss.state.Phase)
	}
	if got := ss.state.AnsweredCount(); got != core.QuestionsPerCategory {
		t.Errorf("answered = %d, want %d", got, core.QuestionsPerCategory)
	}
}

func TestAssessmentScreen_KeyHints(t *testing.T) {
	s := testScreen(t, &fakeService{})
	open(t, s)
	if len(s.KeyHints()) == 0 {
		t.Error("expected non-empty key hints")
	}
}

func TestAssessmentScreen_ViewShowsQuestion(t *testing.T) {
	s := testScreen(t, &fakeService{})
	open(t, s)

	view := s.View(100, 30)
	if !strings.Contains(view, "Question 0-0") {
		t.Error("expected the active question text in the view")
	}
}

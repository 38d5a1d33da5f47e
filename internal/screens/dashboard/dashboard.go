package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/bubbles/v2/spinner"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/progress"
	"github.com/sailshr/wow/internal/remote"
	"github.com/sailshr/wow/internal/router"
	"github.com/sailshr/wow/internal/screen"
	assessmentscreen "github.com/sailshr/wow/internal/screens/assessment"
	"github.com/sailshr/wow/internal/screens/history"
	sess "github.com/sailshr/wow/internal/session"
	"github.com/sailshr/wow/internal/ui/components"
	"github.com/sailshr/wow/internal/ui/layout"
)

// DashboardScreen is the competency card grid, the entry point of the
// application.
type DashboardScreen struct {
	store      *progress.Store
	client     *remote.Client
	ctrl       *sess.Controller
	band       string
	employeeID string

	questions    remote.QuestionSet
	questionsErr string
	loadedQ      bool

	completions assessment.CompletionSet
	completion  *assessment.Completion
	historyErr  string
	loadedH     bool

	draft    *progress.SessionDraft
	selected int
	toast    string
	spin     components.Spinner
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ router.Resumer = (*DashboardScreen)(nil)

// New creates the dashboard.
func New(store *progress.Store, client *remote.Client, ctrl *sess.Controller, band, employeeID string) *DashboardScreen {
	return &DashboardScreen{
		store:       store,
		client:      client,
		ctrl:        ctrl,
		band:        band,
		employeeID:  employeeID,
		completions: store.LoadCompletions(),
		draft:       store.LoadDraft(),
		toast:       store.TakeJustCompleted(),
		spin:        components.NewSpinner(),
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return tea.Batch(
		s.spin.Init(),
		s.checkGenerationCmd(),
		s.fetchQuestionsCmd(),
		s.fetchHistoryCmd(),
	)
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

// Resume refreshes local state after a pushed screen closes: a
// submission may have added a completion record or finished the whole
// assessment.
func (s *DashboardScreen) Resume() tea.Cmd {
	s.completions = s.store.LoadCompletions()
	s.draft = s.store.LoadDraft()
	if msg := s.store.TakeJustCompleted(); msg != "" {
		s.toast = msg
	}
	return s.fetchHistoryCmd()
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "H", Description: "History"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generationCheckedMsg:
		if msg.Err == nil && msg.Cleared {
			s.completions = s.store.LoadCompletions()
			s.draft = s.store.LoadDraft()
			s.toast = "The assessment was reset on the server. Starting fresh."
		}
		return s, nil

	case questionsLoadedMsg:
		s.loadedQ = true
		if msg.Err != nil {
			s.questionsErr = msg.Err.Error()
		} else {
			s.questions = msg.Questions
			s.questionsErr = ""
		}
		return s, nil

	case historyLoadedMsg:
		s.loadedH = true
		if msg.Err != nil {
			s.historyErr = msg.Err.Error()
		} else {
			s.historyErr = ""
			s.completion = latestCompletion(msg.Entries, s.band)
		}
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

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < assessment.NumCategories-1 {
			s.selected++
		}
	case "h", "H":
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(s.client, s.employeeID)}
		}
	case "r", "R":
		s.loadedQ = false
		s.loadedH = false
		return s, tea.Batch(s.fetchQuestionsCmd(), s.fetchHistoryCmd())
	case "enter":
		return s.openSelected()
	}
	return s, nil
}

func (s *DashboardScreen) openSelected() (screen.Screen, tea.Cmd) {
	cat := assessment.CategoryAt(s.selected)
	if cat == nil {
		return s, nil
	}

	// A submitted category stays open for review, cooldown or not.
	if !s.completions.Confirmed(s.selected) {
		if s.onCooldown() {
			s.toast = fmt.Sprintf("Assessment completed. Retake opens in %d days.",
				s.completion.DaysRemaining(time.Now()))
			return s, nil
		}
		if !assessment.IsUnlocked(*cat, s.completions, false) {
			if prev := assessment.CategoryAt(s.selected - 1); prev != nil {
				s.toast = fmt.Sprintf("Complete %s first.", prev.Name)
			}
			return s, nil
		}
	}

	if s.questionsErr != "" {
		s.toast = "Questions unavailable: " + s.questionsErr
		return s, nil
	}
	if !s.loadedQ && !s.completions.Confirmed(s.selected) {
		s.toast = "Still loading questions, one moment..."
		return s, nil
	}

	s.toast = ""
	return s, func() tea.Msg {
		return router.PushScreenMsg{
			Screen: assessmentscreen.New(s.ctrl, s.selected, s.questions),
		}
	}
}

func (s *DashboardScreen) onCooldown() bool {
	return s.completion.OnCooldown(time.Now())
}

func (s *DashboardScreen) checkGenerationCmd() tea.Cmd {
	return func() tea.Msg {
		marker, err := s.client.ServerStartTime(context.Background())
		if err != nil {
			return generationCheckedMsg{Err: err}
		}
		cleared, err := s.store.ReconcileGeneration(marker)
		return generationCheckedMsg{Cleared: cleared, Err: err}
	}
}

func (s *DashboardScreen) fetchQuestionsCmd() tea.Cmd {
	return func() tea.Msg {
		qs, err := s.client.FetchQuestionSet(context.Background(), s.band)
		return questionsLoadedMsg{Questions: qs, Err: err}
	}
}

func (s *DashboardScreen) fetchHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := s.client.FetchHistory(context.Background(), s.employeeID)
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

// latestCompletion finds the completed history entry for the given
// band, or nil when the band has never been finished.
func latestCompletion(entries []remote.HistoryEntry, band string) *assessment.Completion {
	for _, e := range entries {
		if e.Band == band && e.Completed() {
			return &assessment.Completion{
				Band:           e.Band,
				CompletedAt:    e.CompletedAt,
				TotalScore:     e.TotalScore,
				CategoryScores: e.CategoryScores,
			}
		}
	}
	return nil
}

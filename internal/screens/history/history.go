package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/remote"
	"github.com/sailshr/wow/internal/router"
	"github.com/sailshr/wow/internal/screen"
	"github.com/sailshr/wow/internal/ui/layout"
	"github.com/sailshr/wow/internal/ui/theme"
)

type historyLoadedMsg struct {
	Entries []remote.HistoryEntry
	Err     error
}

// HistoryScreen displays past assessments per band with their scores
// and submitted answers.
type HistoryScreen struct {
	client      *remote.Client
	employeeID  string
	entries     []remote.HistoryEntry
	selected    int
	expanded    map[int]bool
	showAnswers map[int]bool
	loaded      bool
	errMsg      string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(client *remote.Client, employeeID string) *HistoryScreen {
	return &HistoryScreen{
		client:      client,
		employeeID:  employeeID,
		expanded:    make(map[int]bool),
		showAnswers: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		entries, err := s.client.FetchHistory(context.Background(), s.employeeID)
		return historyLoadedMsg{Entries: entries, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "A", Description: "Answers"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "a":
			if s.expanded[s.selected] {
				s.showAnswers[s.selected] = !s.showAnswers[s.selected]
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No assessments yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.entries {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		dateStr := ""
		if !e.CompletedAt.IsZero() {
			dateStr = "  " + e.CompletedAt.Format("Jan 02, 2006")
		}

		var line string
		if e.Completed() {
			line = fmt.Sprintf("%sBand %s%s  Score %.1f  %s", prefix, e.Band, dateStr, e.TotalScore,
				lipgloss.NewStyle().Foreground(theme.Success).Render("Completed"))
		} else {
			line = fmt.Sprintf("%sBand %s  %s", prefix, e.Band,
				lipgloss.NewStyle().Foreground(theme.Accent).Render(e.Status))
		}

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			s.renderDetails(&b, e, width, s.showAnswers[i])
		}
	}

	return b.String()
}

// renderDetails renders the per-category scores and answer counts of
// an expanded entry, with the full question/answer list when toggled.
func (s *HistoryScreen) renderDetails(b *strings.Builder, e remote.HistoryEntry, width int, showAnswers bool) {
	if e.Completed() && !e.CompletedAt.IsZero() {
		comp := assessment.Completion{Band: e.Band, CompletedAt: e.CompletedAt}
		if comp.OnCooldown(time.Now()) {
			line := fmt.Sprintf("    Next assessment opens %s",
				comp.NextAvailableAt().Format("Jan 02, 2006"))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Warning).Render(line)))
			b.WriteString("\n")
		}
	}
	for _, cs := range e.CategoryScores {
		line := fmt.Sprintf("    %s: %.1f", cs.Category, cs.Score)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
		b.WriteString("\n")
	}
	for _, sec := range e.Sections {
		answered := 0
		for _, qa := range sec.Questions {
			if qa.AnswerValue != "" {
				answered++
			}
		}
		line := fmt.Sprintf("    %s · %d answers recorded", sec.Category, answered)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
		b.WriteString("\n")

		if !showAnswers {
			continue
		}
		for _, qa := range sec.Questions {
			q := qa.Question
			if maxQ := width - 30; maxQ > 0 && len(q) > maxQ {
				q = q[:maxQ-3] + "..."
			}
			qaLine := fmt.Sprintf("      %s  %s", q,
				lipgloss.NewStyle().Foreground(theme.Secondary).
					Render(assessment.AnswerLabel(qa.AnswerValue)))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(qaLine)))
			b.WriteString("\n")
		}
	}
	if len(e.CategoryScores) == 0 && len(e.Sections) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No section details")))
		b.WriteString("\n")
	}
}

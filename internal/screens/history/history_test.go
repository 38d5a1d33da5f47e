package history

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/remote"
	"github.com/sailshr/wow/internal/router"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func loadedScreen() *HistoryScreen {
	s := New(nil, "x123")
	s.Update(historyLoadedMsg{Entries: []remote.HistoryEntry{
		{
			Band:        "2A",
			Status:      "Completed",
			CompletedAt: time.Now().AddDate(0, 0, -10),
			TotalScore:  4.1,
			CategoryScores: []assessment.CategoryScore{
				{Category: "delivery", Score: 4.5},
			},
			Sections: []remote.HistorySection{
				{
					Category: "delivery",
					Questions: []remote.QA{
						{Question: "How often do you demo?", AnswerValue: "4"},
					},
				},
			},
		},
		{Band: "3A", Status: "In progress"},
	}})
	return s
}

func TestHistoryScreen_ViewStates(t *testing.T) {
	s := New(nil, "x123")
	if s.View(80, 24) == "" {
		t.Error("expected non-empty loading view")
	}

	s.Update(historyLoadedMsg{Err: errors.New("connection refused")})
	if !strings.Contains(s.View(80, 24), "connection refused") {
		t.Error("expected the fetch error in the view")
	}
}

func TestHistoryScreen_ListsEntries(t *testing.T) {
	s := loadedScreen()
	view := s.View(100, 40)
	if !strings.Contains(view, "2A") || !strings.Contains(view, "3A") {
		t.Error("expected both bands in the view")
	}
	if !strings.Contains(view, "4.1") {
		t.Error("expected the total score in the view")
	}
}

func TestHistoryScreen_ExpandAndShowAnswers(t *testing.T) {
	s := loadedScreen()

	// Answers are gated behind an expanded entry.
	s.Update(keyPress('a'))
	if s.showAnswers[0] {
		t.Error("answers should not toggle on a collapsed entry")
	}

	s.Update(specialKey(tea.KeyEnter))
	if !s.expanded[0] {
		t.Fatal("enter should expand the selected entry")
	}
	if !strings.Contains(s.View(100, 40), "delivery") {
		t.Error("expected section details after expanding")
	}

	s.Update(keyPress('a'))
	if !s.showAnswers[0] {
		t.Fatal("expected answers to toggle on")
	}
	view := s.View(100, 40)
	if !strings.Contains(view, assessment.AnswerLabel("4")) {
		t.Error("expected the answer label in the expanded view")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := loadedScreen()
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected a PopScreenMsg")
	}
}

package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/ui/theme"
)

// LikertSelector is the five-point answer selector for a single question.
type LikertSelector struct {
	Question string
	Selected int
	Chosen   string
	ReadOnly bool
	Width    int
}

// NewLikertSelector creates a selector positioned on a previously saved
// answer value, or the first option when none exists.
func NewLikertSelector(question, savedValue string, readOnly bool) LikertSelector {
	selected := 0
	for i, opt := range assessment.AnswerOptions {
		if opt.Value == savedValue {
			selected = i
			break
		}
	}
	return LikertSelector{
		Question: question,
		Selected: selected,
		Chosen:   savedValue,
		ReadOnly: readOnly,
	}
}

// Init returns nil.
func (l LikertSelector) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation. It returns the chosen answer value
// when the user confirms a selection, or "" otherwise.
func (l LikertSelector) Update(msg tea.Msg) (LikertSelector, string) {
	if l.ReadOnly {
		return l, ""
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, ""
	}

	switch kmsg.String() {
	case "up", "k":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down", "j":
		if l.Selected < len(assessment.AnswerOptions)-1 {
			l.Selected++
		}
	case "1", "2", "3", "4", "5":
		for i, opt := range assessment.AnswerOptions {
			if opt.Value == kmsg.String() {
				l.Selected = i
				break
			}
		}
		l.Chosen = assessment.AnswerOptions[l.Selected].Value
		return l, l.Chosen
	case "enter":
		l.Chosen = assessment.AnswerOptions[l.Selected].Value
		return l, l.Chosen
	}

	return l, ""
}

// View renders the question and the five answer options.
func (l LikertSelector) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if l.Width > 0 {
		questionStyle = questionStyle.Width(l.Width)
	}
	s := questionStyle.Render(l.Question) + "\n\n"

	for i, opt := range assessment.AnswerOptions {
		cursor := "  "
		if i == l.Selected && !l.ReadOnly {
			cursor = "▸ "
		}

		marker := "( )"
		if opt.Value == l.Chosen {
			marker = "(●)"
		}

		line := fmt.Sprintf("%s%s %s. %s", cursor, marker, opt.Value, opt.Label)
		desc := fmt.Sprintf("         %s", opt.Description)

		switch {
		case opt.Value == l.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(line) + "\n"
		case i == l.Selected && !l.ReadOnly:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}

		if i == l.Selected && !l.ReadOnly {
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(desc) + "\n"
		}
	}

	return s
}

package assessment

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	core "github.com/sailshr/wow/internal/assessment"
	sess "github.com/sailshr/wow/internal/session"
	"github.com/sailshr/wow/internal/ui/components"
	"github.com/sailshr/wow/internal/ui/theme"
)

func (s *AssessmentScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.submitted != nil {
		return s.renderSubmitted(width)
	}
	if s.state == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  " + s.spin.View() + " Loading questions...")
	}
	if s.inFlight || s.state.Phase == sess.PhaseSubmitting {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  " + s.spin.View() + " Submitting your answers...")
	}
	if s.state.Phase == sess.PhaseConfirmSubmit {
		return s.renderConfirm(width)
	}
	return s.renderQuestionView(width, height)
}

// renderQuestionView renders the active question with the answer
// selector and the category progress bar.
func (s *AssessmentScreen) renderQuestionView(width, height int) string {
	state := s.state
	cat := state.Category()

	var b strings.Builder

	catName := ""
	catColor := theme.Secondary
	if cat != nil {
		catName = cat.DisplayName
		catColor = lipgloss.Color(cat.Color)
	}

	infoLeft := lipgloss.NewStyle().
		Foreground(catColor).
		Bold(true).
		Render("  " + catName)

	modeTag := ""
	if state.Mode == sess.ModeReview {
		modeTag = lipgloss.NewStyle().Foreground(theme.Success).Render("✓ SUBMITTED  ")
	}
	total := state.Questions.Count(state.CategoryIndex)
	if total == 0 {
		total = core.QuestionsPerCategory
	}

	infoRight := modeTag + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Question %d of %d", state.QuestionIndex+1, total))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("", state.AnsweredCount(), total, true, width-8)
	b.WriteString("    " + bar.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	s.likert.Width = min(width-8, 90)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.likert.View()))
	b.WriteString("\n")

	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Warning).
			Render(s.notice))
		b.WriteString("\n")
	}

	if state.SubmitErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Submission failed: " + state.SubmitErr.Error()))
		b.WriteString("\n")
	}

	if s.saving {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("● saved"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderConfirm renders the submission decision dialog.
func (s *AssessmentScreen) renderConfirm(width int) string {
	cat := s.state.Category()
	catName := ""
	if cat != nil {
		catName = cat.Name
	}

	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("Submit %s?", catName)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("All %d questions answered. Submitted answers cannot be changed.", core.QuestionsPerCategory)))
	b.WriteString("\n\n")

	if s.state.SubmitErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Last attempt failed: " + s.state.SubmitErr.Error()))
		b.WriteString("\n\n")
	}

	submitBtn := components.NewButton("Submit now", true, nil)
	reviewBtn := components.NewButton("Go back and review", false, nil)
	row := lipgloss.JoinHorizontal(lipgloss.Center, submitBtn.View(), "   ", reviewBtn.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Enter to submit, B to keep reviewing"))

	return b.String()
}

// renderSubmitted renders the acknowledgment after a confirmed
// submission, including final scores when the whole assessment is done.
func (s *AssessmentScreen) renderSubmitted(width int) string {
	res := s.submitted

	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Bold(true).
		Render("Submitted!"))
	b.WriteString("\n\n")

	if res.Message != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(res.Message))
		b.WriteString("\n\n")
	}

	if res.IsCompleted {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render("Assessment complete!"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(fmt.Sprintf("Total score: %.1f", res.TotalScore)))
		b.WriteString("\n\n")
		for _, cs := range res.CategoryScores {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("%s: %.1f", cs.Category, cs.Score)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("The next attempt opens after a %d-day cooldown.", core.CooldownDays)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// renderError renders a fatal open error.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

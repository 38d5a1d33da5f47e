package dashboard

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/ui/components"
	"github.com/sailshr/wow/internal/ui/theme"
)

func (s *DashboardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("WAY OF WORKING"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Competency self-assessment · Band %s", s.band)))
	b.WriteString("\n\n")

	if banner := s.renderBanner(width); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	for i := range assessment.Categories {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderCard(i, width)))
		b.WriteString("\n")
	}

	if s.toast != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Toast.Render(s.toast)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderBanner renders the cooldown banner or a loading/error line.
func (s *DashboardScreen) renderBanner(width int) string {
	if s.onCooldown() {
		days := s.completion.DaysRemaining(time.Now())
		next := s.completion.NextAvailableAt().Format("Jan 02, 2006")
		line := fmt.Sprintf("Completed on %s · Score %.1f · Retake in %d days (%s)",
			s.completion.CompletedAt.Format("Jan 02, 2006"),
			s.completion.TotalScore, days, next)
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Warning).
			Bold(true).
			Render(line) + "\n"
	}

	if !s.loadedQ && s.questionsErr == "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(s.spin.View()+" Loading questions...") + "\n"
	}
	if s.questionsErr != "" {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Server unreachable. Press R to retry.") + "\n"
	}
	return ""
}

// renderCard renders one competency card with its status line.
func (s *DashboardScreen) renderCard(i, width int) string {
	cat := assessment.Categories[i]

	cardWidth := min(width-10, 70)
	style := theme.Card.Width(cardWidth)

	unlocked := s.completions.Confirmed(i) ||
		(!s.onCooldown() && assessment.IsUnlocked(cat, s.completions, false))
	if !unlocked {
		style = theme.CardLocked.Width(cardWidth)
	}
	if i == s.selected {
		style = style.BorderForeground(theme.Primary)
	}

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(cat.Color)).
		Bold(true).
		Render(fmt.Sprintf("%d. %s", cat.Order, cat.DisplayName))
	if !unlocked {
		title = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d. %s", cat.Order, cat.DisplayName))
	}

	status := s.cardStatus(i, unlocked)

	cursor := "  "
	if i == s.selected {
		cursor = "▸ "
	}

	body := cursor + title + "\n" + cursor + status
	if unlocked && !s.completions.Confirmed(i) &&
		s.draft != nil && s.draft.CategoryIndex == i && len(s.draft.Answers) > 0 {
		bar := components.NewProgressBar("",
			s.draft.Answers.AnsweredCount(i), assessment.QuestionsPerCategory,
			false, cardWidth-8)
		body += "\n" + cursor + bar.View()
	}

	return style.Render(body)
}

func (s *DashboardScreen) cardStatus(i int, unlocked bool) string {
	switch {
	case s.completions.Confirmed(i):
		return lipgloss.NewStyle().Foreground(theme.Success).
			Render("✓ Completed · Enter to review")
	case !unlocked && s.onCooldown():
		return lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Locked · cooldown active")
	case !unlocked:
		return lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Locked · complete the previous competency")
	case s.draft != nil && s.draft.CategoryIndex == i && len(s.draft.Answers) > 0:
		return lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("In progress · %d/%d answered",
				s.draft.Answers.AnsweredCount(i), assessment.QuestionsPerCategory))
	default:
		return lipgloss.NewStyle().Foreground(theme.Text).
			Render(fmt.Sprintf("%d questions · Enter to start", assessment.QuestionsPerCategory))
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/sailshr/wow/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with an optional
// answered/total count.
type ProgressBar struct {
	Label     string
	Answered  int
	Total     int
	ShowCount bool
	Width     int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, answered, total int, showCount bool, width int) ProgressBar {
	return ProgressBar{
		Label:     label,
		Answered:  answered,
		Total:     total,
		ShowCount: showCount,
		Width:     width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	count := ""
	if p.ShowCount {
		count = fmt.Sprintf("  %d/%d", p.Answered, p.Total)
	}

	labelWidth := lipgloss.Width(result)
	barWidth := p.Width - labelWidth - lipgloss.Width(count)
	if barWidth < 4 {
		barWidth = 4
	}

	percent := 0.0
	if p.Total > 0 {
		percent = float64(p.Answered) / float64(p.Total)
	}

	filled := int(float64(barWidth) * percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	filledStr := lipgloss.NewStyle().
		Background(theme.Secondary).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if p.ShowCount {
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(count)
	}

	return result
}

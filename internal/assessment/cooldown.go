package assessment

import "time"

// CooldownDays is the retake-blocked window after completing the full
// assessment.
const CooldownDays = 45

// Completion is the server-derived record of a finished assessment.
type Completion struct {
	Band           string
	CompletedAt    time.Time
	TotalScore     float64
	CategoryScores []CategoryScore
}

// CategoryScore is one section's score within a completed assessment.
type CategoryScore struct {
	Category string
	Score    float64
}

// DaysRemaining returns how many whole days of the cooldown window are
// left, never negative. A zero CompletedAt means no completion exists
// and there is nothing to count down.
func (c *Completion) DaysRemaining(now time.Time) int {
	if c == nil || c.CompletedAt.IsZero() {
		return 0
	}
	elapsed := int(now.Sub(c.CompletedAt).Hours() / 24)
	remaining := CooldownDays - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OnCooldown reports whether retakes are currently blocked.
func (c *Completion) OnCooldown(now time.Time) bool {
	return c.DaysRemaining(now) > 0
}

// NextAvailableAt returns when the assessment can be retaken.
func (c *Completion) NextAvailableAt() time.Time {
	if c == nil || c.CompletedAt.IsZero() {
		return time.Time{}
	}
	return c.CompletedAt.AddDate(0, 0, CooldownDays)
}

package assessment

import (
	"testing"
	"time"
)

func TestCooldown_TenDaysIn(t *testing.T) {
	now := time.Now()
	c := &Completion{CompletedAt: now.AddDate(0, 0, -10)}

	if got := c.DaysRemaining(now); got != 35 {
		t.Errorf("DaysRemaining = %d, want 35", got)
	}
	if !c.OnCooldown(now) {
		t.Error("expected cooldown active 10 days after completion")
	}
}

func TestCooldown_WindowElapsed(t *testing.T) {
	now := time.Now()

	for _, daysAgo := range []int{45, 46, 100} {
		c := &Completion{CompletedAt: now.AddDate(0, 0, -daysAgo)}
		if got := c.DaysRemaining(now); got != 0 {
			t.Errorf("DaysRemaining (%d days ago) = %d, want 0", daysAgo, got)
		}
		if c.OnCooldown(now) {
			t.Errorf("cooldown still active %d days after completion", daysAgo)
		}
	}
}

func TestCooldown_NoCompletion(t *testing.T) {
	now := time.Now()

	var nilCompletion *Completion
	if nilCompletion.OnCooldown(now) {
		t.Error("nil completion must not be on cooldown")
	}
	if (&Completion{}).OnCooldown(now) {
		t.Error("zero CompletedAt must not be on cooldown")
	}
}

func TestCooldown_NextAvailableAt(t *testing.T) {
	completed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Completion{CompletedAt: completed}

	want := time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
	if got := c.NextAvailableAt(); !got.Equal(want) {
		t.Errorf("NextAvailableAt = %v, want %v", got, want)
	}
}

func TestMatchCategory(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Communication", 0},
		{"communication", 0},
		{"  COMMUNICATION  ", 0},
		{"Teamwork & Collaboration", 2},
		{"problem solving & critical thinking", 4},
		{"Leadership", -1},
		{"", -1},
	}
	for _, tt := range tests {
		if got := MatchCategory(tt.name); got != tt.want {
			t.Errorf("MatchCategory(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestLedger_AnsweredCount(t *testing.T) {
	l := Ledger{}
	if l.Complete(0) {
		t.Error("empty ledger reported complete")
	}

	for q := 0; q < QuestionsPerCategory-1; q++ {
		l.Set(0, q, Answer{Value: "5", AnsweredAt: time.Now()})
	}
	if got := l.AnsweredCount(0); got != QuestionsPerCategory-1 {
		t.Errorf("AnsweredCount = %d, want %d", got, QuestionsPerCategory-1)
	}
	if l.Complete(0) {
		t.Error("24 of 25 answers reported complete")
	}

	l.Set(0, QuestionsPerCategory-1, Answer{Value: "3", AnsweredAt: time.Now()})
	if !l.Complete(0) {
		t.Error("full battery not reported complete")
	}

	// Answers for another category must not leak into the count.
	if got := l.AnsweredCount(1); got != 0 {
		t.Errorf("AnsweredCount(1) = %d, want 0", got)
	}
}

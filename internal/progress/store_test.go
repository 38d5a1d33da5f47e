package progress

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/sailshr/wow/internal/assessment"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDraftRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if d := s.LoadDraft(); d != nil {
		t.Fatal("expected nil draft in fresh store")
	}

	answers := assessment.Ledger{}
	answers.Set(1, 0, assessment.Answer{Value: "4", AnsweredAt: time.Now().UTC()})
	answers.Set(1, 7, assessment.Answer{Value: "2", AnsweredAt: time.Now().UTC()})

	saved := &SessionDraft{
		CategoryIndex: 1,
		QuestionIndex: 7,
		Answers:       answers,
		SavedAt:       time.Now().UTC(),
	}
	if err := s.SaveDraft(saved); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	// Simulated reload: a fresh read must reproduce identical state.
	got := s.LoadDraft()
	if got == nil {
		t.Fatal("draft missing after save")
	}
	if got.CategoryIndex != 1 || got.QuestionIndex != 7 {
		t.Errorf("position = (%d, %d), want (1, 7)", got.CategoryIndex, got.QuestionIndex)
	}
	if got.Answers.AnsweredCount(1) != 2 {
		t.Errorf("AnsweredCount = %d, want 2", got.Answers.AnsweredCount(1))
	}
	if a, ok := got.Answers.Get(1, 0); !ok || a.Value != "4" {
		t.Errorf("answer (1,0) = %+v, want value 4", a)
	}

	if err := s.ClearDraft(); err != nil {
		t.Fatalf("clear draft: %v", err)
	}
	if s.LoadDraft() != nil {
		t.Error("draft still present after clear")
	}
}

func TestCompletionsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	set := s.LoadCompletions()
	if len(set) != 0 {
		t.Fatalf("fresh store has %d completion records", len(set))
	}

	set[0] = assessment.CompletionRecord{
		CategoryIndex:   0,
		Submitted:       true,
		RemoteConfirmed: true,
		SubmittedAt:     time.Now().UTC(),
		QuestionsCount:  assessment.QuestionsPerCategory,
		EmployeeID:      "SS005",
		Band:            "2A",
	}
	if err := s.SaveCompletions(set); err != nil {
		t.Fatalf("save completions: %v", err)
	}

	got := s.LoadCompletions()
	if !got.Confirmed(0) {
		t.Error("record 0 not confirmed after reload")
	}
	if got.Confirmed(1) {
		t.Error("record 1 reported confirmed without being written")
	}
	if got[0].QuestionsCount != assessment.QuestionsPerCategory {
		t.Errorf("QuestionsCount = %d, want %d", got[0].QuestionsCount, assessment.QuestionsPerCategory)
	}
}

func TestCorruptValueTreatedAsAbsent(t *testing.T) {
	s := openTestStore(t)

	_, err := s.DB().Exec(
		`INSERT INTO progress (key, value, updated_at) VALUES (?, ?, ?)`,
		"assessment_progress", []byte("{not json"), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("plant corrupt row: %v", err)
	}

	if d := s.LoadDraft(); d != nil {
		t.Error("corrupt draft must read as absent")
	}
}

func TestGenerationReconcile(t *testing.T) {
	s := openTestStore(t)

	// First sight of a marker stores it without clearing.
	cleared, err := s.ReconcileGeneration("1700000000.5")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if cleared {
		t.Error("first marker sighting must not clear state")
	}

	if err := s.SaveDraft(&SessionDraft{CategoryIndex: 0, Answers: assessment.Ledger{}}); err != nil {
		t.Fatalf("save draft: %v", err)
	}
	set := assessment.CompletionSet{0: {CategoryIndex: 0, Submitted: true, RemoteConfirmed: true}}
	if err := s.SaveCompletions(set); err != nil {
		t.Fatalf("save completions: %v", err)
	}

	// Same marker: nothing happens.
	cleared, err = s.ReconcileGeneration("1700000000.5")
	if err != nil || cleared {
		t.Fatalf("same marker: cleared=%v err=%v", cleared, err)
	}
	if s.LoadDraft() == nil {
		t.Fatal("draft lost on matching marker")
	}

	// New marker: server restarted, draft and completions are dropped.
	cleared, err = s.ReconcileGeneration("1800000000.0")
	if err != nil {
		t.Fatalf("reconcile after restart: %v", err)
	}
	if !cleared {
		t.Error("expected clear on marker mismatch")
	}
	if s.LoadDraft() != nil {
		t.Error("draft survived server restart")
	}
	if len(s.LoadCompletions()) != 0 {
		t.Error("completions survived server restart")
	}
	if s.Generation() != "1800000000.0" {
		t.Errorf("generation = %q, want new marker", s.Generation())
	}
}

func TestJustCompletedIsOneShot(t *testing.T) {
	s := openTestStore(t)

	if msg := s.TakeJustCompleted(); msg != "" {
		t.Errorf("fresh store returned message %q", msg)
	}

	if err := s.SetJustCompleted("You've completed the Communication assessment"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if msg := s.TakeJustCompleted(); msg == "" {
		t.Error("expected pending message")
	}
	if msg := s.TakeJustCompleted(); msg != "" {
		t.Errorf("message not cleared after take: %q", msg)
	}
}

func TestDebouncerCoalescesAndFlushes(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var ran atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Schedule(func() {
			ran.Add(1)
			last.Store(n)
		})
	}

	time.Sleep(60 * time.Millisecond)
	if got := ran.Load(); got != 1 {
		t.Errorf("debounced writes ran %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last write = %d, want newest (5)", got)
	}

	// Flush runs the pending function synchronously.
	d.Schedule(func() { ran.Add(1) })
	d.Flush()
	if got := ran.Load(); got != 2 {
		t.Errorf("after flush ran = %d, want 2", got)
	}

	// Stop drops the pending function.
	d.Schedule(func() { ran.Add(1) })
	d.Stop()
	time.Sleep(40 * time.Millisecond)
	if got := ran.Load(); got != 2 {
		t.Errorf("after stop ran = %d, want 2", got)
	}
}

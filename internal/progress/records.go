package progress

import (
	"time"

	"github.com/sailshr/wow/internal/assessment"
)

// Storage keys. Each holds one JSON blob.
const (
	keyDraft         = "assessment_progress"
	keyCompletions   = "completed_categories"
	keyGeneration    = "server_start_time"
	keyJustCompleted = "just_completed"
)

// SessionDraft is the persisted form of an in-flight category session.
type SessionDraft struct {
	CategoryIndex int               `json:"category_index"`
	QuestionIndex int               `json:"question_index"`
	Answers       assessment.Ledger `json:"answers"`
	SavedAt       time.Time         `json:"saved_at"`
}

// LoadDraft returns the cached session draft, or nil when absent or
// unreadable.
func (s *Store) LoadDraft() *SessionDraft {
	var d SessionDraft
	if !s.get(keyDraft, &d) {
		return nil
	}
	if d.Answers == nil {
		d.Answers = assessment.Ledger{}
	}
	return &d
}

// SaveDraft persists the session draft.
func (s *Store) SaveDraft(d *SessionDraft) error {
	return s.set(keyDraft, d)
}

// ClearDraft removes the cached session draft.
func (s *Store) ClearDraft() error {
	return s.delete(keyDraft)
}

// LoadCompletions returns the completion record set. A missing or
// corrupt entry yields an empty set, never an error.
func (s *Store) LoadCompletions() assessment.CompletionSet {
	set := assessment.CompletionSet{}
	s.get(keyCompletions, &set)
	return set
}

// SaveCompletions persists the completion record set.
func (s *Store) SaveCompletions(set assessment.CompletionSet) error {
	return s.set(keyCompletions, set)
}

// ClearCompletions removes all completion records.
func (s *Store) ClearCompletions() error {
	return s.delete(keyCompletions)
}

// Generation returns the cached server generation marker, or "" when
// none is stored.
func (s *Store) Generation() string {
	var marker string
	s.get(keyGeneration, &marker)
	return marker
}

// ReconcileGeneration compares the server's current start-time marker
// against the cached one. A mismatch means the backend was reset, so
// the draft and completion caches are dropped to avoid resuming against
// stale server state. The assessment history is remote-owned and is not
// touched. The new marker is always stored.
//
// Returns true when local state was cleared.
func (s *Store) ReconcileGeneration(marker string) (cleared bool, err error) {
	stored := s.Generation()
	if stored != "" && stored != marker {
		if err := s.delete(keyDraft, keyCompletions, keyJustCompleted); err != nil {
			return false, err
		}
		cleared = true
	}
	return cleared, s.set(keyGeneration, marker)
}

// SetJustCompleted records a one-shot completion notification.
func (s *Store) SetJustCompleted(message string) error {
	return s.set(keyJustCompleted, message)
}

// TakeJustCompleted returns the pending completion notification and
// clears it, or "" when none is pending.
func (s *Store) TakeJustCompleted() string {
	var msg string
	if !s.get(keyJustCompleted, &msg) {
		return ""
	}
	_ = s.delete(keyJustCompleted)
	return msg
}

// Reset drops all locally cached assessment state, including the
// generation marker.
func (s *Store) Reset() error {
	return s.delete(keyDraft, keyCompletions, keyGeneration, keyJustCompleted)
}

package assessment

import (
	"fmt"
	"time"
)

// SlotKey is the stable identity of one question slot within the
// assessment: "category-{categoryIndex}-question-{questionIndex}".
func SlotKey(categoryIndex, questionIndex int) string {
	return fmt.Sprintf("category-%d-question-%d", categoryIndex, questionIndex)
}

// Answer is a Likert response attached to exactly one question slot.
type Answer struct {
	Value      string    `json:"response"`
	AnsweredAt time.Time `json:"answered_at"`
}

// Ledger maps slot keys to answers for in-flight (draft) state.
type Ledger map[string]Answer

// Get returns the answer for a slot, if any.
func (l Ledger) Get(categoryIndex, questionIndex int) (Answer, bool) {
	a, ok := l[SlotKey(categoryIndex, questionIndex)]
	return a, ok
}

// Set upserts the answer for a slot.
func (l Ledger) Set(categoryIndex, questionIndex int, a Answer) {
	l[SlotKey(categoryIndex, questionIndex)] = a
}

// AnsweredCount counts the non-empty answers held for a category.
func (l Ledger) AnsweredCount(categoryIndex int) int {
	count := 0
	for q := 0; q < QuestionsPerCategory; q++ {
		if a, ok := l[SlotKey(categoryIndex, q)]; ok && a.Value != "" {
			count++
		}
	}
	return count
}

// Complete reports whether every slot in the category holds an answer.
func (l Ledger) Complete(categoryIndex int) bool {
	return l.AnsweredCount(categoryIndex) == QuestionsPerCategory
}

// CompletionRecord marks a category whose submission the remote service
// has acknowledged. It is the sole authority for "completed" status;
// local answer presence never counts.
type CompletionRecord struct {
	CategoryIndex   int       `json:"category_index"`
	Submitted       bool      `json:"submitted"`
	RemoteConfirmed bool      `json:"api_synced"`
	SubmittedAt     time.Time `json:"submitted_at"`
	QuestionsCount  int       `json:"questions_count"`
	EmployeeID      string    `json:"employee_id"`
	Band            string    `json:"band"`
}

// CompletionSet is the per-category completion record map, keyed by
// 0-based category index.
type CompletionSet map[int]CompletionRecord

// Confirmed reports whether the category has a remote-confirmed record.
func (s CompletionSet) Confirmed(categoryIndex int) bool {
	rec, ok := s[categoryIndex]
	return ok && rec.Submitted && rec.RemoteConfirmed
}

package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sailshr/wow/internal/assessment"
	"github.com/sailshr/wow/internal/progress"
	"github.com/sailshr/wow/internal/remote"
)

// RemoteService is the controller's view of the remote assessment
// service.
type RemoteService interface {
	FetchSectionAnswers(ctx context.Context, category, employeeID string) ([]remote.SectionAnswer, error)
	SubmitSection(ctx context.Context, req remote.SubmitRequest) (*remote.SubmitResult, error)
}

// Controller drives the question-by-question flow within one category
// and coordinates submission. All methods are safe for concurrent use;
// UI event handlers and network completion callbacks may land on
// different goroutines.
type Controller struct {
	store      *progress.Store
	remote     RemoteService
	employeeID string
	band       string

	debounce *progress.Debouncer

	mu         sync.Mutex
	state      *State
	submitting bool
}

// New creates a Controller bound to the local store and remote service.
func New(store *progress.Store, svc RemoteService, employeeID, band string) *Controller {
	return &Controller{
		store:      store,
		remote:     svc,
		employeeID: employeeID,
		band:       band,
		debounce:   progress.NewDebouncer(progress.DefaultDebounceWindow),
	}
}

// State returns a snapshot of the active session state, or nil when no
// session is open.
func (c *Controller) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return nil
	}
	snapshot := *c.state
	snapshot.Answers = cloneLedger(c.state.Answers)
	return &snapshot
}

// OpenCategory starts a session for the category at index.
//
// A category with a remote-confirmed completion record opens in review
// mode, reconstructed from the service's authoritative answer set,
// never from a local draft. Anything else opens in draft mode: a cached
// draft for this exact category wins, otherwise the ledger starts
// empty. Draft mode callers should follow up with Backfill for the
// best-effort merge of partially submitted answers.
func (c *Controller) OpenCategory(ctx context.Context, index int, questions remote.QuestionSet) (*State, error) {
	category := assessment.CategoryAt(index)
	if category == nil {
		return nil, ErrNoSession
	}

	if c.store.LoadCompletions().Confirmed(index) {
		return c.openReview(ctx, index, category.Name, questions)
	}
	return c.openDraft(index, questions), nil
}

// openReview reconstructs a submitted category from the service's
// stored question+answer set. The randomized question set passed to
// OpenCategory is ignored here: the stored set is what was actually
// answered, and is the only authoritative source for review.
func (c *Controller) openReview(ctx context.Context, index int, categoryName string, _ remote.QuestionSet) (*State, error) {
	fetched, err := c.remote.FetchSectionAnswers(ctx, categoryName, c.employeeID)
	if err != nil {
		return nil, err
	}

	questions := make(remote.QuestionSet, assessment.NumCategories)
	answers := assessment.Ledger{}
	for slot, sa := range fetched {
		if slot >= assessment.QuestionsPerCategory {
			break
		}
		questions[index] = append(questions[index], sa.Question)
		if sa.IsAnswered && sa.AnswerValue != "" {
			answers.Set(index, slot, assessment.Answer{Value: sa.AnswerValue})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = &State{
		SessionID:     uuid.NewString(),
		Mode:          ModeReview,
		Phase:         PhaseSubmitted,
		CategoryIndex: index,
		Answers:       answers,
		Questions:     questions,
	}
	return c.snapshotLocked(), nil
}

func (c *Controller) openDraft(index int, questions remote.QuestionSet) *State {
	answers := assessment.Ledger{}
	questionIndex := 0

	// A draft cached for another category stays cached; this session
	// simply ignores it.
	if draft := c.store.LoadDraft(); draft != nil && draft.CategoryIndex == index {
		answers = draft.Answers
		questionIndex = clampIndex(draft.QuestionIndex)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = &State{
		SessionID:     uuid.NewString(),
		Mode:          ModeDraft,
		Phase:         PhaseAnswering,
		CategoryIndex: index,
		QuestionIndex: questionIndex,
		Answers:       answers,
		Questions:     questions,
	}
	return c.snapshotLocked()
}

// Backfill merges answers already stored on the server into empty
// slots of the active draft, matching by question text. It is
// idempotent and best-effort: failures leave the session as it was and
// only a stale session id makes it a no-op. Never called for review
// sessions, which are fully remote-sourced at open.
func (c *Controller) Backfill(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	if c.state == nil || c.state.SessionID != sessionID || c.state.Mode != ModeDraft {
		c.mu.Unlock()
		return nil
	}
	index := c.state.CategoryIndex
	categoryName := c.state.Category().Name
	questions := c.state.Questions
	c.mu.Unlock()

	fetched, err := c.remote.FetchSectionAnswers(ctx, categoryName, c.employeeID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The user may have navigated away while the fetch was pending.
	if c.state == nil || c.state.SessionID != sessionID {
		return nil
	}

	changed := false
	for _, sa := range fetched {
		if !sa.IsAnswered || sa.AnswerValue == "" {
			continue
		}
		slot := questionSlot(questions, index, sa.Question)
		if slot < 0 {
			continue
		}
		if _, exists := c.state.Answers.Get(index, slot); exists {
			continue
		}
		c.state.Answers.Set(index, slot, assessment.Answer{Value: sa.AnswerValue})
		changed = true
	}
	if changed {
		c.schedulePersistLocked()
	}
	return nil
}

// Answer records the Likert value for the active slot. In review mode
// the call is a silent no-op. A recorded answer clears any outstanding
// submission error and schedules a debounced persistence write.
func (c *Controller) Answer(value string) {
	if !assessment.ValidAnswerValue(value) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || c.state.Mode == ModeReview {
		return
	}

	c.state.Answers.Set(c.state.CategoryIndex, c.state.QuestionIndex, assessment.Answer{
		Value:      value,
		AnsweredAt: time.Now(),
	})
	c.state.SubmitErr = nil
	c.schedulePersistLocked()
}

// Next advances to the next question. The current slot must hold an
// answer. On the last question of a draft it does not advance: a
// complete battery moves to the confirm-submission decision point, an
// incomplete one reports what is missing.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return ErrNoSession
	}
	s := c.state

	if s.Mode == ModeDraft {
		if a, ok := s.Answers.Get(s.CategoryIndex, s.QuestionIndex); !ok || a.Value == "" {
			return ErrNoAnswer
		}
	}

	if s.QuestionIndex < assessment.QuestionsPerCategory-1 {
		s.QuestionIndex++
		if s.Mode == ModeDraft {
			c.schedulePersistLocked()
		}
		return nil
	}

	// Last question. Review mode has nowhere further to go.
	if s.Mode == ModeReview {
		return nil
	}
	if !s.Answers.Complete(s.CategoryIndex) {
		return &ErrIncomplete{
			Answered: s.Answers.AnsweredCount(s.CategoryIndex),
			Required: assessment.QuestionsPerCategory,
		}
	}
	s.Phase = PhaseConfirmSubmit
	return nil
}

// Previous moves back one question, bounds-checked.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil || c.state.QuestionIndex == 0 {
		return
	}
	c.state.QuestionIndex--
	if c.state.Mode == ModeDraft {
		c.schedulePersistLocked()
	}
}

// CancelConfirm leaves the confirm-submission decision point and
// returns to answering, so the user can review their draft.
func (c *Controller) CancelConfirm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil && c.state.Phase == PhaseConfirmSubmit {
		c.state.Phase = PhaseAnswering
	}
}

// CompletionCheck reports whether all slots of the active category are
// answered.
func (c *Controller) CompletionCheck() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != nil && c.state.Answers.Complete(c.state.CategoryIndex)
}

// Submit sends the active category's answers to the remote service.
//
// Review sessions return immediately with a nil result: the category
// was already submitted and acknowledged, so there is nothing to send.
// A submission already in flight is rejected with ErrSubmitInFlight.
// On success the completion record is written remote-confirmed, the
// draft is cleared, and the session flips to review mode. On failure
// the draft is left untouched so the user can retry.
func (c *Controller) Submit(ctx context.Context) (*remote.SubmitResult, error) {
	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return nil, ErrNoSession
	}
	if c.state.Mode == ModeReview {
		c.mu.Unlock()
		return nil, nil
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}

	s := c.state
	index := s.CategoryIndex
	if answered := s.Answers.AnsweredCount(index); answered < assessment.QuestionsPerCategory {
		c.mu.Unlock()
		return nil, &ErrIncomplete{Answered: answered, Required: assessment.QuestionsPerCategory}
	}
	if s.Questions.Count(index) == 0 {
		c.mu.Unlock()
		return nil, ErrNoQuestions
	}

	// Ordered payload with the authoritative question text per slot.
	payload := make([]remote.QA, 0, assessment.QuestionsPerCategory)
	for q := 0; q < assessment.QuestionsPerCategory; q++ {
		answer, _ := s.Answers.Get(index, q)
		payload = append(payload, remote.QA{
			Question:    s.Questions.Question(index, q),
			AnswerValue: answer.Value,
		})
	}
	categoryName := s.Category().Name
	sessionID := s.SessionID

	c.submitting = true
	s.Phase = PhaseSubmitting
	c.mu.Unlock()

	result, err := c.remote.SubmitSection(ctx, remote.SubmitRequest{
		EmployeeID: c.employeeID,
		Band:       c.band,
		Category:   categoryName,
		Answers:    payload,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	// The session may have been closed or reopened while the call was
	// pending; a stale acknowledgment must not mutate the new session.
	stale := c.state == nil || c.state.SessionID != sessionID

	if err != nil {
		if !stale {
			c.state.Phase = PhaseConfirmSubmit
			c.state.SubmitErr = err
		}
		return nil, err
	}

	// The record is written only after a parsed acknowledgment; there
	// is no "maybe submitted" state on the client.
	c.debounce.Stop()
	records := c.store.LoadCompletions()
	records[index] = assessment.CompletionRecord{
		CategoryIndex:   index,
		Submitted:       true,
		RemoteConfirmed: true,
		SubmittedAt:     time.Now(),
		QuestionsCount:  assessment.QuestionsPerCategory,
		EmployeeID:      c.employeeID,
		Band:            c.band,
	}
	if err := c.store.SaveCompletions(records); err != nil {
		log.Printf("progress: save completion record: %v", err)
	}
	if err := c.store.ClearDraft(); err != nil {
		log.Printf("progress: clear draft: %v", err)
	}
	if err := c.store.SetJustCompleted("You've completed the " + categoryName + " assessment"); err != nil {
		log.Printf("progress: set completion notice: %v", err)
	}

	if !stale {
		c.state.Mode = ModeReview
		c.state.Phase = PhaseSubmitted
		c.state.SubmitErr = nil
	}
	return result, nil
}

// Close ends the active session. A draft is flushed to the store so it
// can be resumed later; review state is discarded, since it is always
// reconstructable from the remote service.
func (c *Controller) Close() {
	c.mu.Lock()
	draft := c.state != nil && c.state.Mode == ModeDraft
	c.state = nil
	c.mu.Unlock()

	if draft {
		c.debounce.Flush()
	} else {
		c.debounce.Stop()
	}
}

// schedulePersistLocked queues a debounced draft write. The snapshot is
// taken under the lock; the write itself runs later off the lock.
// Persistence failures are non-fatal: the session continues in memory
// and only resume-across-restart degrades.
func (c *Controller) schedulePersistLocked() {
	draft := &progress.SessionDraft{
		CategoryIndex: c.state.CategoryIndex,
		QuestionIndex: c.state.QuestionIndex,
		Answers:       cloneLedger(c.state.Answers),
		SavedAt:       time.Now(),
	}
	c.debounce.Schedule(func() {
		if err := c.store.SaveDraft(draft); err != nil {
			log.Printf("progress: save draft: %v", err)
		}
	})
}

func (c *Controller) snapshotLocked() *State {
	snapshot := *c.state
	snapshot.Answers = cloneLedger(c.state.Answers)
	return &snapshot
}

func cloneLedger(l assessment.Ledger) assessment.Ledger {
	clone := make(assessment.Ledger, len(l))
	for k, v := range l {
		clone[k] = v
	}
	return clone
}

// questionSlot finds the slot index whose authoritative text matches
// the given question, or -1.
func questionSlot(questions remote.QuestionSet, categoryIndex int, text string) int {
	for q := 0; q < assessment.QuestionsPerCategory; q++ {
		if questions.Question(categoryIndex, q) == text {
			return q
		}
	}
	return -1
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= assessment.QuestionsPerCategory {
		return assessment.QuestionsPerCategory - 1
	}
	return i
}

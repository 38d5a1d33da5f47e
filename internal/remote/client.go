package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sailshr/wow/internal/assessment"
)

// DefaultTimeout bounds a single request to the assessment service.
const DefaultTimeout = 15 * time.Second

// QuestionSet holds the authoritative question text per category,
// indexed like assessment.Categories. Immutable once fetched for a
// session.
type QuestionSet [][]string

// Question returns the text for a slot. Short batteries wrap around,
// matching how the service occasionally serves fewer than a full set.
func (qs QuestionSet) Question(categoryIndex, questionIndex int) string {
	if categoryIndex < 0 || categoryIndex >= len(qs) {
		return ""
	}
	questions := qs[categoryIndex]
	if len(questions) == 0 {
		return ""
	}
	return questions[questionIndex%len(questions)]
}

// Count returns the number of questions fetched for a category.
func (qs QuestionSet) Count(categoryIndex int) int {
	if categoryIndex < 0 || categoryIndex >= len(qs) {
		return 0
	}
	return len(qs[categoryIndex])
}

// SectionAnswer is one previously stored answer for a category.
type SectionAnswer struct {
	Question    string
	IsAnswered  bool
	AnswerValue string
}

// QA is a (question text, answer value) pair as submitted on the wire.
type QA struct {
	Question    string `json:"question"`
	AnswerValue string `json:"answer_value"`
}

// SubmitRequest is the body of a section submission.
type SubmitRequest struct {
	EmployeeID string `json:"employee_id"`
	Band       string `json:"band"`
	Category   string `json:"category"`
	Answers    []QA   `json:"answers"`
}

// SubmitResult is the parsed acknowledgment of a section submission.
// Message is mandatory; the completion fields appear only when this
// submission finished the whole assessment.
type SubmitResult struct {
	Message        string
	IsCompleted    bool
	TotalScore     float64
	CategoryScores []assessment.CategoryScore
}

// HistorySection groups one category's answers inside a history entry.
type HistorySection struct {
	Category  string
	Questions []QA
}

// HistoryEntry is one band's assessment in the employee's history.
type HistoryEntry struct {
	Band           string
	Status         string
	CompletedAt    time.Time
	TotalScore     float64
	CategoryScores []assessment.CategoryScore
	Sections       []HistorySection
}

// Completed reports whether this entry is a finished assessment.
func (h HistoryEntry) Completed() bool {
	return strings.EqualFold(h.Status, "Completed")
}

// Client talks to the remote assessment service. All responses are
// schema-validated and normalized into strict internal types here;
// raw payloads never leave this package.
type Client struct {
	baseURL string
	http    *http.Client
	retry   RetryConfig
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		retry:   DefaultRetryConfig(),
	}
}

// FetchQuestionSet fetches the randomized question battery for a band,
// grouped by competency. Rows whose competency does not match one of
// the five fixed categories are skipped.
func (c *Client) FetchQuestionSet(ctx context.Context, band string) (QuestionSet, error) {
	const op = "fetch questions"

	var raw json.RawMessage
	err := withRetry(ctx, c.retry, func() error {
		var err error
		raw, err = c.getJSON(ctx, op, "/bands/"+url.PathEscape(bandTable(band))+"/random-questions")
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := validate(op, questionSetSchema, raw); err != nil {
		return nil, err
	}

	var payload struct {
		Questions []map[string]any `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: raw, Err: err}
	}

	set := make(QuestionSet, assessment.NumCategories)
	for _, item := range payload.Questions {
		competency, _ := field(item, "Competency", "category").(string)
		question, _ := field(item, "Question").(string)
		if competency == "" || question == "" {
			continue
		}
		idx := assessment.MatchCategory(competency)
		if idx < 0 {
			continue
		}
		set[idx] = append(set[idx], question)
	}
	return set, nil
}

// FetchSectionAnswers fetches previously stored answers for one
// category, used to reconstruct review mode and to backfill a draft.
func (c *Client) FetchSectionAnswers(ctx context.Context, category, employeeID string) ([]SectionAnswer, error) {
	const op = "fetch section answers"

	path := "/assessment/" + url.PathEscape(category) + "/" + url.PathEscape(employeeID)
	var raw json.RawMessage
	err := withRetry(ctx, c.retry, func() error {
		var err error
		raw, err = c.getJSON(ctx, op, path)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := validate(op, sectionAnswersSchema, raw); err != nil {
		return nil, err
	}

	var payload struct {
		Questions []struct {
			Question    string `json:"question"`
			IsAnswered  bool   `json:"is_answered"`
			AnswerValue string `json:"answer_value"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: raw, Err: err}
	}

	answers := make([]SectionAnswer, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		answers = append(answers, SectionAnswer{
			Question:    q.Question,
			IsAnswered:  q.IsAnswered,
			AnswerValue: q.AnswerValue,
		})
	}
	return answers, nil
}

// SubmitSection submits one category's answers. It is never retried
// here; the caller decides whether to re-attempt a failed submission.
func (c *Client) SubmitSection(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	const op = "submit section"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode submit request: %w", err)
	}

	raw, err := c.postJSON(ctx, op, "/assessment/section/submit", body)
	if err != nil {
		return nil, err
	}
	// Absence of "message" means the submission cannot be considered
	// acknowledged, even on HTTP 200.
	if err := validate(op, submitSchema, raw); err != nil {
		return nil, err
	}

	var payload struct {
		Message        string  `json:"message"`
		IsCompleted    bool    `json:"is_completed"`
		TotalScore     float64 `json:"total_score"`
		CategoryScores []any   `json:"category_scores"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: raw, Err: err}
	}

	return &SubmitResult{
		Message:        payload.Message,
		IsCompleted:    payload.IsCompleted,
		TotalScore:     payload.TotalScore,
		CategoryScores: normalizeCategoryScores(payload.CategoryScores),
	}, nil
}

// FetchHistory fetches the employee's assessment history across bands.
func (c *Client) FetchHistory(ctx context.Context, employeeID string) ([]HistoryEntry, error) {
	const op = "fetch history"

	var raw json.RawMessage
	err := withRetry(ctx, c.retry, func() error {
		var err error
		raw, err = c.getJSON(ctx, op, "/assessment/history/"+url.PathEscape(employeeID))
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := validate(op, historySchema, raw); err != nil {
		return nil, err
	}

	var payload struct {
		History []struct {
			Band           string `json:"band"`
			Status         string `json:"status"`
			CompletedAt    string `json:"completed_at"`
			TotalScore     any    `json:"total_score"`
			CategoryScores []any  `json:"category_scores"`
			Sections       []struct {
				Category  string `json:"category"`
				Questions []QA   `json:"questions"`
			} `json:"sections"`
		} `json:"history"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &ErrInvalidResponse{Op: op, Content: raw, Err: err}
	}

	entries := make([]HistoryEntry, 0, len(payload.History))
	for _, h := range payload.History {
		entry := HistoryEntry{
			Band:           h.Band,
			Status:         h.Status,
			CompletedAt:    parseTimestamp(h.CompletedAt),
			TotalScore:     toFloat(h.TotalScore),
			CategoryScores: normalizeCategoryScores(h.CategoryScores),
		}
		for _, s := range h.Sections {
			entry.Sections = append(entry.Sections, HistorySection{
				Category:  s.Category,
				Questions: s.Questions,
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ServerStartTime fetches the service's generation marker, used to
// detect backend resets. The marker is opaque to the client and only
// compared for equality.
func (c *Client) ServerStartTime(ctx context.Context) (string, error) {
	const op = "fetch server start time"

	raw, err := c.getJSON(ctx, op, "/server/start-time")
	if err != nil {
		return "", err
	}
	if err := validate(op, startTimeSchema, raw); err != nil {
		return "", err
	}

	var payload struct {
		StartTime any `json:"start_time"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return "", &ErrInvalidResponse{Op: op, Content: raw, Err: err}
	}

	switch v := payload.StartTime.(type) {
	case json.Number:
		return v.String(), nil
	case string:
		return v, nil
	default:
		return "", &ErrInvalidResponse{Op: op, Content: raw, Err: fmt.Errorf("start_time has type %T", v)}
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(op, req)
}

func (c *Client) postJSON(ctx context.Context, op, path string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ErrRemoteUnavailable{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrRemoteUnavailable{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ErrRemoteUnavailable{Op: op, Err: fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(data, 200))}
	}
	return data, nil
}

// bandTable maps a band name to its table path segment. The service's
// band tables are named with a "band" prefix.
func bandTable(band string) string {
	if strings.HasPrefix(band, "band") {
		return band
	}
	return "band" + band
}

// field looks up a map key case-insensitively, preferring the given
// names in order.
func field(m map[string]any, names ...string) any {
	for _, name := range names {
		if v, ok := m[name]; ok {
			return v
		}
	}
	for _, name := range names {
		for k, v := range m {
			if strings.EqualFold(k, name) {
				return v
			}
		}
	}
	return nil
}

// normalizeCategoryScores accepts the two shapes the service produces:
// a list of {category, score} objects or a bare list of numbers.
func normalizeCategoryScores(raw []any) []assessment.CategoryScore {
	scores := make([]assessment.CategoryScore, 0, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case map[string]any:
			name, _ := field(v, "category").(string)
			scores = append(scores, assessment.CategoryScore{
				Category: name,
				Score:    toFloat(field(v, "score")),
			})
		case float64:
			scores = append(scores, assessment.CategoryScore{
				Category: fmt.Sprintf("Category %d", i+1),
				Score:    v,
			})
		}
	}
	return scores
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		var f float64
		_, _ = fmt.Sscanf(n, "%g", &f)
		return f
	default:
		return 0
	}
}

// parseTimestamp handles the service's timestamp variants: RFC3339 with
// or without zone, and bare dates.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}

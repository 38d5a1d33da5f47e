package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailshr/wow/internal/assessment"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(server.URL, 5*time.Second)
	// Keep tests fast: no backoff between attempts.
	c.retry = RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}
	return c
}

func TestFetchQuestionSet(t *testing.T) {
	t.Run("groups by competency with loose casing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bands/band2A/random-questions", r.URL.Path)
			w.Write([]byte(`{"questions": [
				{"Competency": "Communication", "Question": "I speak clearly"},
				{"competency": "COMMUNICATION ", "question": "I listen actively"},
				{"Competency": "Teamwork & Collaboration", "Question": "I help teammates"},
				{"Competency": "Leadership", "Question": "ignored"},
				{"Competency": "Communication"}
			]}`))
		})

		set, err := client.FetchQuestionSet(context.Background(), "2A")
		require.NoError(t, err)
		assert.Equal(t, []string{"I speak clearly", "I listen actively"}, set[0])
		assert.Equal(t, 1, set.Count(2))
		assert.Equal(t, 0, set.Count(1))
	})

	t.Run("band prefix preserved when already present", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/bands/band3B/random-questions", r.URL.Path)
			w.Write([]byte(`{"questions": []}`))
		})

		_, err := client.FetchQuestionSet(context.Background(), "band3B")
		require.NoError(t, err)
	})

	t.Run("missing questions field is invalid", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"band": "2A"}`))
		})

		_, err := client.FetchQuestionSet(context.Background(), "2A")
		var invalid *ErrInvalidResponse
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("retries transport failures", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"questions": []}`))
		})

		_, err := client.FetchQuestionSet(context.Background(), "2A")
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestQuestionSetWrapsShortBatteries(t *testing.T) {
	set := QuestionSet{{"q0", "q1", "q2"}}
	assert.Equal(t, "q0", set.Question(0, 0))
	assert.Equal(t, "q1", set.Question(0, 4))
	assert.Equal(t, "", set.Question(1, 0))
	assert.Equal(t, "", set.Question(-1, 0))
}

func TestFetchSectionAnswers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assessment/Teamwork & Collaboration/SS005", r.URL.Path)
		w.Write([]byte(`{"questions": [
			{"question": "I help teammates", "is_answered": true, "answer_value": "4"},
			{"question": "I share credit", "is_answered": false, "answer_value": ""}
		]}`))
	})

	answers, err := client.FetchSectionAnswers(context.Background(), "Teamwork & Collaboration", "SS005")
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.True(t, answers[0].IsAnswered)
	assert.Equal(t, "4", answers[0].AnswerValue)
	assert.False(t, answers[1].IsAnswered)
}

func TestSubmitSection(t *testing.T) {
	t.Run("success with parsed acknowledgment", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/assessment/section/submit", r.URL.Path)
			w.Write([]byte(`{
				"message": "Section submitted successfully",
				"is_completed": true,
				"total_score": 82.4,
				"category_scores": [{"category": "Communication", "score": 88.0}, 76.8]
			}`))
		})

		result, err := client.SubmitSection(context.Background(), SubmitRequest{
			EmployeeID: "SS005",
			Band:       "2A",
			Category:   "Communication",
			Answers:    []QA{{Question: "I speak clearly", AnswerValue: "5"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Section submitted successfully", result.Message)
		assert.True(t, result.IsCompleted)
		assert.InDelta(t, 82.4, result.TotalScore, 0.001)
		require.Len(t, result.CategoryScores, 2)
		assert.Equal(t, assessment.CategoryScore{Category: "Communication", Score: 88.0}, result.CategoryScores[0])
		assert.Equal(t, "Category 2", result.CategoryScores[1].Category)
	})

	t.Run("missing message is an invalid response", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"questions_saved": 25}`))
		})

		_, err := client.SubmitSection(context.Background(), SubmitRequest{})
		var invalid *ErrInvalidResponse
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("server failure is never retried", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.SubmitSection(context.Background(), SubmitRequest{})
		var unavail *ErrRemoteUnavailable
		require.ErrorAs(t, err, &unavail)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestFetchHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assessment/history/SS005", r.URL.Path)
		w.Write([]byte(`{"history": [
			{
				"band": "2A",
				"status": "Completed",
				"completed_at": "2026-07-01T09:30:00",
				"total_score": 81.2,
				"category_scores": [{"category": "Communication", "score": 90}],
				"sections": [
					{"category": "Communication", "questions": [
						{"question": "I speak clearly", "answer_value": "5"}
					]}
				]
			},
			{"band": "3A", "status": "In Progress", "sections": []}
		]}`))
	})

	history, err := client.FetchHistory(context.Background(), "SS005")
	require.NoError(t, err)
	require.Len(t, history, 2)

	completed := history[0]
	assert.True(t, completed.Completed())
	assert.Equal(t, 2026, completed.CompletedAt.Year())
	assert.InDelta(t, 81.2, completed.TotalScore, 0.001)
	require.Len(t, completed.Sections, 1)
	assert.Equal(t, "5", completed.Sections[0].Questions[0].AnswerValue)

	inProgress := history[1]
	assert.False(t, inProgress.Completed())
	assert.True(t, inProgress.CompletedAt.IsZero())
}

func TestServerStartTime(t *testing.T) {
	t.Run("numeric marker kept verbatim", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"start_time": 1700000000.53125}`))
		})

		marker, err := client.ServerStartTime(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1700000000.53125", marker)
	})

	t.Run("string marker accepted", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"start_time": "2026-08-01T00:00:00"}`))
		})

		marker, err := client.ServerStartTime(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2026-08-01T00:00:00", marker)
	})

	t.Run("unreachable server", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", time.Second)

		_, err := client.ServerStartTime(context.Background())
		var unavail *ErrRemoteUnavailable
		require.ErrorAs(t, err, &unavail)
	})
}

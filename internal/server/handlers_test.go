package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/vocabdiary/internal/database"
	"github.com/example/vocabdiary/internal/learning"
	"github.com/example/vocabdiary/internal/session"
	"github.com/example/vocabdiary/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	require.NoError(t, database.ConnectForTest())
	t.Cleanup(func() { database.Close() })
	svc := learning.NewService(session.NewStore(time.Hour), learning.Config{})
	return New(svc, zap.NewNop())
}

func createWord(t *testing.T, english, portuguese string) *models.Word {
	t.Helper()
	word := &models.Word{TextEnglish: english, TextPortuguese: portuguese}
	require.NoError(t, database.NewWordRepository().Create(word))
	return word
}

func do(srv *Server, method, path string, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRejectsRequestsWithoutUserIdentity(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(srv, http.MethodGet, "/api/dashboard", "not-a-number", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitAnswer(t *testing.T) {
	srv := newTestServer(t)
	word := createWord(t, "cat", "gato")

	rec := do(srv, http.MethodPost, "/api/answers", "1",
		map[string]any{"word_id": word.ID, "answer": "gato"})
	require.Equal(t, http.StatusOK, rec.Code)

	var res learning.AnswerResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Correct)
	assert.Equal(t, "gato", res.CorrectAnswer)
}

func TestSubmitAnswerUnknownWord(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/answers", "1",
		map[string]any{"word_id": 42, "answer": "gato"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudyNextDoesNotLeakTheAnswer(t *testing.T) {
	srv := newTestServer(t)
	createWord(t, "cat", "gato")

	rec := do(srv, http.MethodGet, "/api/study/next", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Finished bool     `json:"finished"`
		Word     wordCard `json:"word"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Finished)
	assert.Equal(t, "cat", res.Word.TextEnglish)
	assert.NotContains(t, rec.Body.String(), "gato")
}

func TestStudyNextFinished(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodGet, "/api/study/next", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"finished":true`)
}

func TestMasterSetFlow(t *testing.T) {
	srv := newTestServer(t)
	word := createWord(t, "dog", "cachorro")

	rec := do(srv, http.MethodPost, "/api/answers", "1",
		map[string]any{"word_id": word.ID, "answer": "wrong"})
	require.Equal(t, http.StatusOK, rec.Code)

	st, err := database.NewStatusRepository().GetByUserAndWord(1, word.ID)
	require.NoError(t, err)
	require.True(t, st.InTrainingSet())
	path := fmt.Sprintf("/api/training-sets/%d/master", st.TrainingSetID.Int64)

	rec = do(srv, http.MethodPost, path, "1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A mastered set is terminal.
	rec = do(srv, http.MethodPost, path, "1", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Other users never see it.
	rec = do(srv, http.MethodPost, path, "2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidPathID(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPost, "/api/training-sets/abc/master", "1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrainingSetListIncludesDailyProgress(t *testing.T) {
	srv := newTestServer(t)
	word := createWord(t, "dog", "cachorro")

	rec := do(srv, http.MethodPost, "/api/answers", "1",
		map[string]any{"word_id": word.ID, "answer": "wrong"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(srv, http.MethodGet, "/api/training-sets", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		TrainingSets  []trainingSetView       `json:"training_sets"`
		DailyProgress *learning.DailyProgress `json:"daily_progress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.TrainingSets, 1)
	assert.Equal(t, 1, res.TrainingSets[0].WordCount)
	assert.Equal(t, models.DefaultDailyGoal, res.DailyProgress.Goal)
}

func TestProfileValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := do(srv, http.MethodPut, "/api/profile", "1", map[string]any{"daily_goal": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(srv, http.MethodPut, "/api/profile", "1", map[string]any{"daily_goal": 20})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(srv, http.MethodGet, "/api/profile", "1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"daily_goal":20`)
}

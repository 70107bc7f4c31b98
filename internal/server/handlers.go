package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/vocabdiary/internal/learning"
	"github.com/example/vocabdiary/pkg/models"
)

// wordCard is the flashcard payload. The translation is the answer, so it is
// never part of the card.
type wordCard struct {
	ID          int    `json:"id"`
	TextEnglish string `json:"text_english"`
	Complexity  int    `json:"complexity"`
}

func cardFrom(w *models.Word) wordCard {
	return wordCard{ID: w.ID, TextEnglish: w.TextEnglish, Complexity: w.Complexity}
}

type trainingSetView struct {
	ID           int64  `json:"id"`
	CreationDate string `json:"creation_date"`
	WordCount    int    `json:"word_count"`
}

// fail maps core errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, learning.ErrWordNotFound),
		errors.Is(err, learning.ErrTrainingSetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, learning.ErrSetAlreadyMastered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", c.GetString("request_id")),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) studyNext(c *gin.Context) {
	word, err := s.svc.NextWord(userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if word == nil {
		c.JSON(http.StatusOK, gin.H{"finished": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"finished": false, "word": cardFrom(word)})
}

func (s *Server) trainingNext(c *gin.Context) {
	setID, ok := pathID(c)
	if !ok {
		return
	}
	word, err := s.svc.NextTrainingWord(userID(c), setID)
	if errors.Is(err, learning.ErrSetExhausted) {
		c.JSON(http.StatusOK, gin.H{"exhausted": true})
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exhausted": false, "word": cardFrom(word)})
}

type answerRequest struct {
	WordID int    `json:"word_id" binding:"required"`
	Answer string `json:"answer"`
}

func (s *Server) submitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := s.svc.SubmitAnswer(userID(c), req.WordID, req.Answer)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) markCorrect(c *gin.Context) {
	wordID, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.MarkCorrect(userID(c), int(wordID)); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) masterSet(c *gin.Context) {
	setID, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.MasterSet(userID(c), setID); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) resetProgress(c *gin.Context) {
	if err := s.svc.ResetProgress(userID(c)); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) listTrainingSets(c *gin.Context) {
	uid := userID(c)
	sets, err := s.svc.ListOpenSets(uid)
	if err != nil {
		s.fail(c, err)
		return
	}
	daily, err := s.svc.DailyProgress(uid)
	if err != nil {
		s.fail(c, err)
		return
	}
	views := make([]trainingSetView, 0, len(sets))
	for _, set := range sets {
		views = append(views, trainingSetView{
			ID:           set.ID,
			CreationDate: set.CreationDate.Format("2006-01-02"),
			WordCount:    set.WordCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"training_sets": views, "daily_progress": daily})
}

func (s *Server) dashboard(c *gin.Context) {
	counts, err := s.svc.Counts(userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *Server) dashboardChart(c *gin.Context) {
	series, err := s.svc.ProgressSeries(userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.svc.Profile(userID(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileRequest struct {
	DailyGoal int `json:"daily_goal" binding:"required,min=1"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.svc.SetDailyGoal(userID(c), req.DailyGoal); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

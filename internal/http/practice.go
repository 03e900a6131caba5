package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/auth"
	"github.com/mrlokans/studentlearn/internal/database/attempts"
	"github.com/mrlokans/studentlearn/internal/database/sessions"
	"github.com/mrlokans/studentlearn/internal/database/stats"
	"github.com/mrlokans/studentlearn/internal/database/subjects"
	"github.com/mrlokans/studentlearn/internal/entities"
)

type PracticeController struct {
	sessions *sessions.Repository
	attempts *attempts.Repository
	subjects *subjects.Repository
	stats    *stats.Repository
}

func NewPracticeController(sessionRepo *sessions.Repository, attemptRepo *attempts.Repository, subjectRepo *subjects.Repository, statsRepo *stats.Repository) *PracticeController {
	return &PracticeController{
		sessions: sessionRepo,
		attempts: attemptRepo,
		subjects: subjectRepo,
		stats:    statsRepo,
	}
}

type sessionRequest struct {
	SubjectID      uint    `json:"subject_id" binding:"required"`
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
	TimeTaken      int     `json:"time_taken"`
}

// CreateSession records a finished practice round for the current user.
// POST /practice/sessions
func (pc *PracticeController) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	user := auth.CurrentUser(c)

	if _, err := pc.subjects.GetByID(req.SubjectID); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "create session")
		return
	}

	session := &entities.PracticeSession{
		UserID:         user.ID,
		SubjectID:      req.SubjectID,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		TimeTaken:      req.TimeTaken,
		CompletedAt:    time.Now(),
	}
	if err := pc.sessions.Create(session); err != nil {
		respondInternalError(c, err, "create session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// ListSessions returns the current user's practice history, newest first.
// GET /practice/sessions
func (pc *PracticeController) ListSessions(c *gin.Context) {
	skip, limit := parsePagination(c)
	user := auth.CurrentUser(c)

	list, err := pc.sessions.ListForUser(user.ID, skip, limit)
	if err != nil {
		respondInternalError(c, err, "list sessions")
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateSession patches a session's result fields. Only the owner may
// touch it; admins edit through the admin console instead.
// PATCH /practice/sessions/:id
func (pc *PracticeController) UpdateSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)

	session, err := pc.sessions.GetByID(id)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			respondNotFound(c, "Practice session")
			return
		}
		respondInternalError(c, err, "update session")
		return
	}
	if session.UserID != user.ID {
		respondNotFound(c, "Practice session")
		return
	}

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	updated, err := pc.sessions.Update(id, changes)
	if err != nil {
		if errors.Is(err, sessions.ErrFieldNotUpdatable) || errors.Is(err, sessions.ErrFieldValueInvalid) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "update session")
		return
	}
	c.JSON(http.StatusOK, updated)
}

type attemptRequest struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	SessionID      uint   `json:"session_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer" binding:"required"`
	TimeTaken      int    `json:"time_taken"`
}

// CreateAttempt logs a single answered question. Correctness is computed
// against the question at logging time and never recomputed afterwards.
// POST /practice/attempts
func (pc *PracticeController) CreateAttempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if !entities.ValidAnswerOption(req.SelectedAnswer) {
		respondBadRequest(c, "selected_answer must be one of A, B, C, D")
		return
	}
	user := auth.CurrentUser(c)

	session, err := pc.sessions.GetByID(req.SessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			respondNotFound(c, "Practice session")
			return
		}
		respondInternalError(c, err, "create attempt")
		return
	}
	if session.UserID != user.ID {
		respondNotFound(c, "Practice session")
		return
	}

	attempt, err := pc.attempts.Create(user.ID, req.QuestionID, req.SessionID, req.SelectedAnswer, req.TimeTaken)
	if err != nil {
		if errors.Is(err, attempts.ErrQuestionNotFound) {
			respondNotFound(c, "Question")
			return
		}
		respondInternalError(c, err, "create attempt")
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// ListAttempts returns the current user's attempt log, newest first.
// GET /practice/attempts
func (pc *PracticeController) ListAttempts(c *gin.Context) {
	skip, limit := parsePagination(c)
	user := auth.CurrentUser(c)

	list, err := pc.attempts.ListForUser(user.ID, skip, limit)
	if err != nil {
		respondInternalError(c, err, "list attempts")
		return
	}
	c.JSON(http.StatusOK, list)
}

// AdminListSessions returns any user's sessions for the admin console.
// GET /admin/practice-sessions?user_id=
func (pc *PracticeController) AdminListSessions(c *gin.Context) {
	skip, limit := parsePagination(c)

	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		id, ok := parseQueryUint(c, raw, "user_id")
		if !ok {
			return
		}
		userID = id
	}

	list, total, err := pc.sessions.List(userID, skip, limit)
	if err != nil {
		respondInternalError(c, err, "admin list sessions")
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: list, Total: total, Skip: skip, Limit: limit})
}

// AdminDeleteSession removes a session and its attempts in one transaction.
// DELETE /admin/practice-sessions/:id/permanent
func (pc *PracticeController) AdminDeleteSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := pc.sessions.HardDeleteCascade(id); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			respondNotFound(c, "Practice session")
			return
		}
		respondInternalError(c, err, "admin delete session")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Practice session permanently deleted"})
}

// Statistics summarizes the current user's practice history.
// GET /practice/statistics
func (pc *PracticeController) Statistics(c *gin.Context) {
	user := auth.CurrentUser(c)

	summary, err := pc.stats.ForUser(user.ID)
	if err != nil {
		respondInternalError(c, err, "statistics")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Package attempts provides database operations for question attempts.
package attempts

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

var ErrQuestionNotFound = errors.New("question not found")

// Repository handles question attempt database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new attempts repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create records an answered question. Correctness is derived here, once,
// by comparing the selected label against the question's current correct
// label. The stored flag is final: later edits to the question do not
// rewrite history.
func (r *Repository) Create(userID, questionID, sessionID uint, selectedAnswer string, timeTaken int) (*entities.QuestionAttempt, error) {
	var question entities.Question
	if err := r.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	attempt := &entities.QuestionAttempt{
		UserID:         userID,
		QuestionID:     questionID,
		SessionID:      sessionID,
		SelectedAnswer: selectedAnswer,
		IsCorrect:      question.CorrectAnswer == selectedAnswer,
		TimeTaken:      timeTaken,
		AttemptedAt:    time.Now(),
	}
	if err := r.db.Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListForUser returns a user's attempts, most recent first.
func (r *Repository) ListForUser(userID uint, skip, limit int) ([]entities.QuestionAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	var attempts []entities.QuestionAttempt
	err := r.db.Where("user_id = ?", userID).
		Order("attempted_at DESC").Offset(skip).Limit(limit).Find(&attempts).Error
	return attempts, err
}

// ListForSession returns the attempts recorded within one session.
func (r *Repository) ListForSession(sessionID uint) ([]entities.QuestionAttempt, error) {
	var attempts []entities.QuestionAttempt
	err := r.db.Where("session_id = ?", sessionID).Order("attempted_at ASC").Find(&attempts).Error
	return attempts, err
}

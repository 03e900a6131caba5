// Package sessions provides database operations for practice sessions.
package sessions

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

var (
	ErrSessionNotFound   = errors.New("practice session not found")
	ErrFieldNotUpdatable = errors.New("field is not updatable")
	ErrFieldValueInvalid = errors.New("field value has wrong type")
)

// Session summaries (score, correct_answers) are write-once values set by
// the completing caller; they are never recomputed from attempts here.
// Each field carries a type check on the JSON value.
var updatableFields = map[string]func(any) bool{
	"score":           isNumber,
	"total_questions": isNumber,
	"correct_answers": isNumber,
	"time_taken":      isNumber,
}

// isNumber accepts the float64 that JSON decoding produces, plus the Go
// numeric types programmatic callers pass.
func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, uint, uint64:
		return true
	}
	return false
}

// Repository handles practice session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(session *entities.PracticeSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create practice session: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(id uint) (*entities.PracticeSession, error) {
	var session entities.PracticeSession
	err := r.db.First(&session, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListForUser returns a user's sessions, most recent first.
func (r *Repository) ListForUser(userID uint, skip, limit int) ([]entities.PracticeSession, error) {
	if limit <= 0 {
		limit = 100
	}
	var sessions []entities.PracticeSession
	err := r.db.Where("user_id = ?", userID).
		Order("completed_at DESC").Offset(skip).Limit(limit).Find(&sessions).Error
	return sessions, err
}

// List returns sessions for the admin console, optionally filtered by user,
// alongside the total matching count.
func (r *Repository) List(userID uint, skip, limit int) ([]entities.PracticeSession, int64, error) {
	if limit <= 0 {
		limit = 100
	}

	query := r.db.Model(&entities.PracticeSession{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []entities.PracticeSession
	err := query.Order("completed_at DESC").Offset(skip).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

// Update applies an allow-listed set of changes and returns the updated row.
func (r *Repository) Update(id uint, changes map[string]any) (*entities.PracticeSession, error) {
	for field, value := range changes {
		valid, ok := updatableFields[field]
		if !ok {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldNotUpdatable)
		}
		if !valid(value) {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldValueInvalid)
		}
	}

	session, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := r.db.Model(session).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update practice session: %w", err)
		}
	}

	return r.GetByID(id)
}

// HardDeleteCascade removes a session and all of its attempts in one
// transaction. Admin maintenance only.
func (r *Repository) HardDeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entities.PracticeSession{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrSessionNotFound
		}
		return tx.Where("session_id = ?", id).Delete(&entities.QuestionAttempt{}).Error
	})
}

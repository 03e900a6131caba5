// Package questions provides database operations for the question bank.
package questions

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

var (
	ErrQuestionNotFound  = errors.New("question not found")
	ErrFieldNotUpdatable = errors.New("field is not updatable")
	ErrFieldValueInvalid = errors.New("field value has wrong type")
)

// Patchable question fields, each with a type check on the JSON value.
// Value checks on correct_answer and difficulty_level happen at the HTTP
// boundary; here only the shape is enforced.
var updatableFields = map[string]func(any) bool{
	"question_text":    isString,
	"option_a":         isString,
	"option_b":         isString,
	"option_c":         isString,
	"option_d":         isString,
	"correct_answer":   isString,
	"explanation":      isString,
	"difficulty_level": isString,
	"is_active":        isBool,
}

func isString(v any) bool { _, ok := v.(string); return ok }
func isBool(v any) bool   { _, ok := v.(bool); return ok }

// ListFilter narrows admin question listings. Zero values mean "no filter".
type ListFilter struct {
	SubjectID  uint
	Difficulty entities.DifficultyLevel
	ActiveOnly bool
}

// Repository handles question database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new questions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(question *entities.Question) error {
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(id uint) (*entities.Question, error) {
	var question entities.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// ListBySubject returns active questions for a subject, capped at limit.
// This feeds the practice flow, so inactive questions are always excluded.
func (r *Repository) ListBySubject(subjectID uint, limit int) ([]entities.Question, error) {
	if limit <= 0 {
		limit = 10
	}
	var questions []entities.Question
	err := r.db.Where("subject_id = ? AND is_active = ?", subjectID, true).
		Limit(limit).Find(&questions).Error
	return questions, err
}

// List returns questions matching the filter with skip/limit pagination
// alongside the total matching count.
func (r *Repository) List(filter ListFilter, skip, limit int) ([]entities.Question, int64, error) {
	if limit <= 0 {
		limit = 100
	}

	query := r.db.Model(&entities.Question{})
	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty_level = ?", filter.Difficulty)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []entities.Question
	err := query.Order("id ASC").Offset(skip).Limit(limit).Find(&questions).Error
	return questions, total, err
}

// Update applies an allow-listed set of changes and returns the updated row.
// Historical attempts are never touched: correctness was frozen when each
// attempt was created.
func (r *Repository) Update(id uint, changes map[string]any) (*entities.Question, error) {
	for field, value := range changes {
		valid, ok := updatableFields[field]
		if !ok {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldNotUpdatable)
		}
		if !valid(value) {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldValueInvalid)
		}
	}

	question, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := r.db.Model(question).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update question: %w", err)
		}
	}

	return r.GetByID(id)
}

// SoftDelete marks a question inactive.
func (r *Repository) SoftDelete(id uint) error {
	result := r.db.Model(&entities.Question{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

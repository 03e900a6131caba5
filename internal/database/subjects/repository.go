// Package subjects provides database operations for the course catalog:
// subjects, their content blocks and lessons.
package subjects

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

var (
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrContentNotFound   = errors.New("content not found")
	ErrFieldNotUpdatable = errors.New("field is not updatable")
	ErrFieldValueInvalid = errors.New("field value has wrong type")
)

// Patchable subject fields, each with a type check on the JSON value.
var updatableFields = map[string]func(any) bool{
	"name":        isString,
	"description": isString,
	"is_active":   isBool,
}

func isString(v any) bool { _, ok := v.(string); return ok }
func isBool(v any) bool   { _, ok := v.(bool); return ok }

// Repository handles subject, content and lesson database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new subjects repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(subject *entities.Subject) error {
	if err := r.db.Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(id uint) (*entities.Subject, error) {
	var subject entities.Subject
	err := r.db.First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// GetByName retrieves a subject by exact name. Used by the seed command
// to keep seeding idempotent.
func (r *Repository) GetByName(name string) (*entities.Subject, error) {
	var subject entities.Subject
	err := r.db.Where("name = ?", name).First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// ListActive returns active subjects with skip/limit pagination.
func (r *Repository) ListActive(skip, limit int) ([]entities.Subject, error) {
	if limit <= 0 {
		limit = 100
	}
	var subjects []entities.Subject
	err := r.db.Where("is_active = ?", true).Order("id ASC").Offset(skip).Limit(limit).Find(&subjects).Error
	return subjects, err
}

// List returns all subjects regardless of active flag.
func (r *Repository) List(skip, limit int) ([]entities.Subject, error) {
	if limit <= 0 {
		limit = 100
	}
	var subjects []entities.Subject
	err := r.db.Order("id ASC").Offset(skip).Limit(limit).Find(&subjects).Error
	return subjects, err
}

// Update applies an allow-listed set of changes and returns the updated row.
func (r *Repository) Update(id uint, changes map[string]any) (*entities.Subject, error) {
	for field, value := range changes {
		valid, ok := updatableFields[field]
		if !ok {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldNotUpdatable)
		}
		if !valid(value) {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldValueInvalid)
		}
	}

	subject, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := r.db.Model(subject).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update subject: %w", err)
		}
	}

	return r.GetByID(id)
}

// SoftDelete marks a subject inactive. The row and its questions remain.
func (r *Repository) SoftDelete(id uint) error {
	result := r.db.Model(&entities.Subject{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// HardDelete removes the subject row permanently.
func (r *Repository) HardDelete(id uint) error {
	result := r.db.Delete(&entities.Subject{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// --- Contents and lessons ---

func (r *Repository) CreateContent(content *entities.SubjectContent) error {
	if err := r.db.Create(content).Error; err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}
	return nil
}

func (r *Repository) GetContentByID(id uint) (*entities.SubjectContent, error) {
	var content entities.SubjectContent
	err := r.db.First(&content, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *Repository) ListContents(subjectID uint) ([]entities.SubjectContent, error) {
	var contents []entities.SubjectContent
	err := r.db.Where("subject_id = ?", subjectID).Order("id ASC").Find(&contents).Error
	return contents, err
}

func (r *Repository) CreateLesson(lesson *entities.Lesson) error {
	if err := r.db.Create(lesson).Error; err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

func (r *Repository) ListLessons(contentID uint) ([]entities.Lesson, error) {
	var lessons []entities.Lesson
	err := r.db.Where("content_id = ?", contentID).Order("id ASC").Find(&lessons).Error
	return lessons, err
}

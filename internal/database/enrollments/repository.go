// Package enrollments provides database operations for the user-subject
// enrollment lifecycle.
package enrollments

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

// Repository handles enrollment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new enrollments repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Enroll creates an active enrollment for (user, subject), or returns the
// existing active one, so repeated calls are idempotent.
//
// The check-then-insert below is not atomic: two concurrent requests for
// the same pair can both pass the lookup and insert two active rows. This
// mirrors the historical behaviour and is accepted; see DESIGN.md.
func (r *Repository) Enroll(userID, subjectID uint) (*entities.UserEnrollment, error) {
	var existing entities.UserEnrollment
	err := r.db.Where("user_id = ? AND subject_id = ? AND is_active = ?", userID, subjectID, true).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &entities.UserEnrollment{
		UserID:     userID,
		SubjectID:  subjectID,
		IsActive:   true,
		EnrolledAt: time.Now(),
	}
	if err := r.db.Create(enrollment).Error; err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Unenroll flips the active flag on the current enrollment. The row is kept
// for history. Returns false when no active enrollment exists.
func (r *Repository) Unenroll(userID, subjectID uint) (bool, error) {
	var enrollment entities.UserEnrollment
	err := r.db.Where("user_id = ? AND subject_id = ? AND is_active = ?", userID, subjectID, true).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := r.db.Model(&enrollment).Update("is_active", false).Error; err != nil {
		return false, err
	}
	return true, nil
}

// IsEnrolled reports whether the user currently has an active enrollment
// in the subject.
func (r *Repository) IsEnrolled(userID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.UserEnrollment{}).
		Where("user_id = ? AND subject_id = ? AND is_active = ?", userID, subjectID, true).
		Count(&count).Error
	return count > 0, err
}

// ListSubjectsForUser returns the active subjects the user is actively
// enrolled in.
func (r *Repository) ListSubjectsForUser(userID uint) ([]entities.Subject, error) {
	var subjects []entities.Subject
	err := r.db.Model(&entities.Subject{}).
		Joins("JOIN user_enrollments ON user_enrollments.subject_id = subjects.id").
		Where("user_enrollments.user_id = ? AND user_enrollments.is_active = ? AND subjects.is_active = ?",
			userID, true, true).
		Find(&subjects).Error
	return subjects, err
}

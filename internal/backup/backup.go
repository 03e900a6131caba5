// Package backup serializes the full database into a portable JSON document
// and restores it. Dumps carry password hashes so a restored system keeps
// its credentials; treat the files accordingly.
package backup

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

// FormatVersion identifies the dump layout. Restore refuses documents with
// a different version.
const FormatVersion = "1.0"

var (
	ErrUnsupportedVersion = errors.New("unsupported backup version")
	ErrEmptyDocument      = errors.New("backup document has no data")
)

// Document is the on-disk dump shape.
type Document struct {
	Version          string                     `json:"version"`
	GeneratedAt      time.Time                  `json:"generated_at"`
	Users            []UserRecord               `json:"users"`
	Subjects         []entities.Subject         `json:"subjects"`
	Questions        []entities.Question        `json:"questions"`
	PracticeSessions []entities.PracticeSession `json:"practice_sessions"`
	QuestionAttempts []entities.QuestionAttempt `json:"question_attempts"`
	UserEnrollments  []entities.UserEnrollment  `json:"user_enrollments"`
}

// UserRecord mirrors entities.User but keeps the password hash, which the
// entity hides from API responses.
type UserRecord struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	HashedPassword string    `json:"hashed_password"`
	IsActive       bool      `json:"is_active"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Service dumps and restores the database.
type Service struct {
	db *gorm.DB
}

// NewService creates a new backup service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Dump reads every table into a single document. Inactive rows are included;
// a dump is a full copy, not a view of the live catalog.
func (s *Service) Dump() (*Document, error) {
	doc := &Document{
		Version:          FormatVersion,
		GeneratedAt:      time.Now().UTC(),
		Users:            []UserRecord{},
		Subjects:         []entities.Subject{},
		Questions:        []entities.Question{},
		PracticeSessions: []entities.PracticeSession{},
		QuestionAttempts: []entities.QuestionAttempt{},
		UserEnrollments:  []entities.UserEnrollment{},
	}

	var users []entities.User
	if err := s.db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to dump users: %w", err)
	}
	for _, u := range users {
		doc.Users = append(doc.Users, UserRecord{
			ID:             u.ID,
			Email:          u.Email,
			FullName:       u.FullName,
			HashedPassword: u.HashedPassword,
			IsActive:       u.IsActive,
			IsAdmin:        u.IsAdmin,
			CreatedAt:      u.CreatedAt,
			UpdatedAt:      u.UpdatedAt,
		})
	}

	tables := []struct {
		name string
		dest any
	}{
		{"subjects", &doc.Subjects},
		{"questions", &doc.Questions},
		{"practice_sessions", &doc.PracticeSessions},
		{"question_attempts", &doc.QuestionAttempts},
		{"user_enrollments", &doc.UserEnrollments},
	}
	for _, table := range tables {
		if err := s.db.Order("id ASC").Find(table.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to dump %s: %w", table.name, err)
		}
	}

	return doc, nil
}

// Restore replaces the database contents with the document. The whole
// operation runs in one transaction: either every table is swapped or
// nothing changes.
func (s *Service) Restore(doc *Document) error {
	if doc.Version != FormatVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}
	if len(doc.Users) == 0 && len(doc.Subjects) == 0 && len(doc.Questions) == 0 {
		return ErrEmptyDocument
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Children first so foreign keys never dangle mid-restore.
		for _, model := range []any{
			&entities.QuestionAttempt{},
			&entities.PracticeSession{},
			&entities.UserEnrollment{},
			&entities.Question{},
			&entities.Subject{},
			&entities.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		for _, record := range doc.Users {
			user := entities.User{
				ID:             record.ID,
				Email:          record.Email,
				FullName:       record.FullName,
				HashedPassword: record.HashedPassword,
				IsActive:       record.IsActive,
				IsAdmin:        record.IsAdmin,
				CreatedAt:      record.CreatedAt,
				UpdatedAt:      record.UpdatedAt,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to restore user %d: %w", record.ID, err)
			}
		}

		if len(doc.Subjects) > 0 {
			if err := tx.Create(&doc.Subjects).Error; err != nil {
				return fmt.Errorf("failed to restore subjects: %w", err)
			}
		}
		if len(doc.Questions) > 0 {
			if err := tx.Create(&doc.Questions).Error; err != nil {
				return fmt.Errorf("failed to restore questions: %w", err)
			}
		}
		if len(doc.PracticeSessions) > 0 {
			if err := tx.Create(&doc.PracticeSessions).Error; err != nil {
				return fmt.Errorf("failed to restore practice sessions: %w", err)
			}
		}
		if len(doc.QuestionAttempts) > 0 {
			if err := tx.Create(&doc.QuestionAttempts).Error; err != nil {
				return fmt.Errorf("failed to restore question attempts: %w", err)
			}
		}
		if len(doc.UserEnrollments) > 0 {
			if err := tx.Create(&doc.UserEnrollments).Error; err != nil {
				return fmt.Errorf("failed to restore enrollments: %w", err)
			}
		}

		return nil
	})
}

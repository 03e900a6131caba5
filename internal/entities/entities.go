package entities

import (
	"time"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// ValidDifficulty reports whether the given level is one of the known tiers.
func ValidDifficulty(level DifficultyLevel) bool {
	switch level {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// AnswerOptions are the labels a question option (and a selected answer) may carry.
var AnswerOptions = []string{"A", "B", "C", "D"}

// ValidAnswerOption reports whether the label is one of A-D.
func ValidAnswerOption(label string) bool {
	for _, opt := range AnswerOptions {
		if label == opt {
			return true
		}
	}
	return false
}

type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;size:255" json:"email"`
	FullName       string     `gorm:"size:255" json:"full_name"`
	HashedPassword string     `gorm:"size:255" json:"-"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	IsAdmin        bool       `gorm:"default:false" json:"is_admin"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Question struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SubjectID       uint            `gorm:"index" json:"subject_id"`
	QuestionText    string          `gorm:"type:text" json:"question_text"`
	OptionA         string          `gorm:"size:512" json:"option_a"`
	OptionB         string          `gorm:"size:512" json:"option_b"`
	OptionC         string          `gorm:"size:512" json:"option_c"`
	OptionD         string          `gorm:"size:512" json:"option_d"`
	CorrectAnswer   string          `gorm:"size:1" json:"correct_answer,omitempty"` // "A".."D"
	Explanation     string          `gorm:"type:text" json:"explanation,omitempty"`
	DifficultyLevel DifficultyLevel `gorm:"size:10;default:'medium'" json:"difficulty_level"`
	IsActive        bool            `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`

	Subject Subject `gorm:"foreignKey:SubjectID" json:"-"`
}

type PracticeSession struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	SubjectID      uint      `gorm:"index" json:"subject_id"`
	Score          float64   `gorm:"default:0" json:"score"`
	TotalQuestions int       `gorm:"default:0" json:"total_questions"`
	CorrectAnswers int       `gorm:"default:0" json:"correct_answers"`
	TimeTaken      int       `gorm:"default:0" json:"time_taken"` // seconds
	CompletedAt    time.Time `json:"completed_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"-"`
}

// QuestionAttempt records a single answered question within a session.
// IsCorrect is derived once, at creation time, by comparing the selected
// label against the question's correct label. Editing the question later
// must never change historical attempts.
type QuestionAttempt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	QuestionID     uint      `gorm:"index" json:"question_id"`
	SessionID      uint      `gorm:"index" json:"session_id"`
	SelectedAnswer string    `gorm:"size:1" json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	TimeTaken      int       `gorm:"default:0" json:"time_taken"` // seconds
	AttemptedAt    time.Time `json:"attempted_at"`

	User     User            `gorm:"foreignKey:UserID" json:"-"`
	Question Question        `gorm:"foreignKey:QuestionID" json:"-"`
	Session  PracticeSession `gorm:"foreignKey:SessionID" json:"-"`
}

// UserEnrollment links a user to a subject they are taking. The active flag
// distinguishes a current enrollment from a historical one; at most one
// active row exists per (user, subject) pair.
type UserEnrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	SubjectID  uint      `gorm:"index" json:"subject_id"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	EnrolledAt time.Time `json:"enrolled_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"-"`
}

type SubjectContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"index" json:"subject_id"`
	Title     string    `gorm:"size:512" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	Subject Subject `gorm:"foreignKey:SubjectID" json:"-"`
}

type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"index" json:"content_id"`
	Title     string    `gorm:"size:512" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	Content SubjectContent `gorm:"foreignKey:ContentID" json:"-"`
}

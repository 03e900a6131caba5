// Package stats computes aggregate statistics for users and the admin
// analytics console. Every figure comes from a single aggregate query;
// nothing here iterates over rows in Go.
package stats

import (
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

// UserStatistics summarizes one user's practice history.
type UserStatistics struct {
	TotalSessions           int64    `json:"total_sessions"`
	AverageScore            float64  `json:"average_score"`
	TotalQuestionsAttempted int64    `json:"total_questions_attempted"`
	TotalCorrectAnswers     int64    `json:"total_correct_answers"`
	AccuracyRate            float64  `json:"accuracy_rate"`
	SubjectsPracticed       []string `json:"subjects_practiced"`
}

// Overview holds the admin dashboard headline counts.
type Overview struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	TotalSubjects  int64 `json:"total_subjects"`
	TotalQuestions int64 `json:"total_questions"`
	TotalSessions  int64 `json:"total_sessions"`
	TotalAttempts  int64 `json:"total_attempts"`
}

// SubjectActivity aggregates sessions per subject.
type SubjectActivity struct {
	SubjectID    uint    `json:"subject_id"`
	SubjectName  string  `json:"subject_name"`
	SessionCount int64   `json:"session_count"`
	AverageScore float64 `json:"average_score"`
}

// DifficultyCount aggregates active questions per difficulty tier.
type DifficultyCount struct {
	DifficultyLevel string `json:"difficulty_level"`
	QuestionCount   int64  `json:"question_count"`
}

// DailyActivity counts sessions completed on one calendar day.
type DailyActivity struct {
	Day          string  `json:"day"`
	SessionCount int64   `json:"session_count"`
	AverageScore float64 `json:"average_score"`
}

// TopUser ranks a user by mean session score.
type TopUser struct {
	UserID       uint    `json:"user_id"`
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	SessionCount int64   `json:"session_count"`
	AverageScore float64 `json:"average_score"`
}

// Repository computes aggregate statistics.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stats repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ForUser computes the per-user summary. Accuracy is defined as 0 when the
// user has not attempted anything yet, never a division error.
func (r *Repository) ForUser(userID uint) (*UserStatistics, error) {
	stats := &UserStatistics{SubjectsPracticed: []string{}}

	err := r.db.Model(&entities.PracticeSession{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalSessions).Error
	if err != nil {
		return nil, err
	}

	var avg *float64
	err = r.db.Model(&entities.PracticeSession{}).
		Where("user_id = ?", userID).
		Select("AVG(score)").Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	if avg != nil {
		stats.AverageScore = round2(*avg)
	}

	err = r.db.Model(&entities.QuestionAttempt{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalQuestionsAttempted).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&entities.QuestionAttempt{}).
		Where("user_id = ? AND is_correct = ?", userID, true).
		Count(&stats.TotalCorrectAnswers).Error
	if err != nil {
		return nil, err
	}

	if stats.TotalQuestionsAttempted > 0 {
		stats.AccuracyRate = round2(float64(stats.TotalCorrectAnswers) / float64(stats.TotalQuestionsAttempted) * 100)
	}

	err = r.db.Model(&entities.Subject{}).
		Joins("JOIN practice_sessions ON practice_sessions.subject_id = subjects.id").
		Where("practice_sessions.user_id = ?", userID).
		Distinct().Pluck("subjects.name", &stats.SubjectsPracticed).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetOverview returns the headline counts for the admin dashboard.
func (r *Repository) GetOverview() (*Overview, error) {
	o := &Overview{}
	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{query: r.db.Model(&entities.User{}), dest: &o.TotalUsers},
		{query: r.db.Model(&entities.User{}).Where("is_active = ?", true), dest: &o.ActiveUsers},
		{query: r.db.Model(&entities.Subject{}).Where("is_active = ?", true), dest: &o.TotalSubjects},
		{query: r.db.Model(&entities.Question{}).Where("is_active = ?", true), dest: &o.TotalQuestions},
		{query: r.db.Model(&entities.PracticeSession{}), dest: &o.TotalSessions},
		{query: r.db.Model(&entities.QuestionAttempt{}), dest: &o.TotalAttempts},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return o, nil
}

// BySubject aggregates session counts and mean scores per active subject.
func (r *Repository) BySubject() ([]SubjectActivity, error) {
	var rows []SubjectActivity
	err := r.db.Model(&entities.Subject{}).
		Select("subjects.id AS subject_id, subjects.name AS subject_name, " +
			"COUNT(practice_sessions.id) AS session_count, " +
			"COALESCE(AVG(practice_sessions.score), 0) AS average_score").
		Joins("LEFT JOIN practice_sessions ON practice_sessions.subject_id = subjects.id").
		Where("subjects.is_active = ?", true).
		Group("subjects.id, subjects.name").
		Order("session_count DESC").
		Scan(&rows).Error
	return rows, err
}

// ByDifficulty counts active questions per difficulty tier.
func (r *Repository) ByDifficulty() ([]DifficultyCount, error) {
	var rows []DifficultyCount
	err := r.db.Model(&entities.Question{}).
		Select("difficulty_level, COUNT(id) AS question_count").
		Where("is_active = ?", true).
		Group("difficulty_level").
		Scan(&rows).Error
	return rows, err
}

// DailyActivity returns per-day session counts for the trailing window,
// computed relative to wall-clock now at call time.
func (r *Repository) DailyActivity(days int) ([]DailyActivity, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var rows []DailyActivity
	err := r.db.Model(&entities.PracticeSession{}).
		Select("DATE(completed_at) AS day, COUNT(id) AS session_count, " +
			"COALESCE(AVG(score), 0) AS average_score").
		Where("completed_at >= ?", cutoff).
		Group("DATE(completed_at)").
		Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

// TopUsers ranks users by mean session score, best first.
func (r *Repository) TopUsers(limit int) ([]TopUser, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []TopUser
	err := r.db.Model(&entities.User{}).
		Select("users.id AS user_id, users.full_name, users.email, " +
			"COUNT(practice_sessions.id) AS session_count, " +
			"AVG(practice_sessions.score) AS average_score").
		Joins("JOIN practice_sessions ON practice_sessions.user_id = users.id").
		Group("users.id, users.full_name, users.email").
		Order("average_score DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// IntegrityReport counts rows whose referenced parent no longer exists.
type IntegrityReport struct {
	OrphanedSessions    int64 `json:"orphaned_sessions"`
	OrphanedAttempts    int64 `json:"orphaned_attempts"`
	OrphanedEnrollments int64 `json:"orphaned_enrollments"`
}

// Integrity scans for dangling foreign keys. Hard deletes of users and
// subjects can leave history rows behind; this reports them.
func (r *Repository) Integrity() (*IntegrityReport, error) {
	report := &IntegrityReport{}

	err := r.db.Model(&entities.PracticeSession{}).
		Where("user_id NOT IN (?)", r.db.Model(&entities.User{}).Select("id")).
		Or("subject_id NOT IN (?)", r.db.Model(&entities.Subject{}).Select("id")).
		Count(&report.OrphanedSessions).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&entities.QuestionAttempt{}).
		Where("question_id NOT IN (?)", r.db.Model(&entities.Question{}).Select("id")).
		Or("user_id NOT IN (?)", r.db.Model(&entities.User{}).Select("id")).
		Count(&report.OrphanedAttempts).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&entities.UserEnrollment{}).
		Where("user_id NOT IN (?)", r.db.Model(&entities.User{}).Select("id")).
		Or("subject_id NOT IN (?)", r.db.Model(&entities.Subject{}).Select("id")).
		Count(&report.OrphanedEnrollments).Error
	if err != nil {
		return nil, err
	}

	return report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package backup

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/studentlearn/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Service, func()) {
	return setupNamedTestDB(t, "")
}

func setupNamedTestDB(t *testing.T, suffix string) (*gorm.DB, *Service, func()) {
	dbPath := "./test_backup_" + t.Name() + suffix + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Subject{},
		&entities.Question{},
		&entities.PracticeSession{},
		&entities.QuestionAttempt{},
		&entities.UserEnrollment{},
	)
	require.NoError(t, err)

	service := NewService(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, service, cleanup
}

func seedTestData(t *testing.T, db *gorm.DB) {
	user := &entities.User{Email: "student@example.com", FullName: "Jane Doe", HashedPassword: "$2a$10$hash", IsActive: true}
	require.NoError(t, db.Create(user).Error)

	subject := &entities.Subject{Name: "Mathematics", Description: "Numbers", IsActive: true}
	require.NoError(t, db.Create(subject).Error)

	question := &entities.Question{
		SubjectID:      subject.ID,
		QuestionText:   "2+2?",
		OptionA:        "3", OptionB: "4", OptionC: "5", OptionD: "6",
		CorrectAnswer:  "B",
		DifficultyLevel: entities.DifficultyEasy,
		IsActive:       true,
	}
	require.NoError(t, db.Create(question).Error)

	session := &entities.PracticeSession{UserID: user.ID, SubjectID: subject.ID, Score: 100, TotalQuestions: 1, CorrectAnswers: 1, CompletedAt: time.Now()}
	require.NoError(t, db.Create(session).Error)

	attempt := &entities.QuestionAttempt{UserID: user.ID, QuestionID: question.ID, SessionID: session.ID, SelectedAnswer: "B", IsCorrect: true, AttemptedAt: time.Now()}
	require.NoError(t, db.Create(attempt).Error)

	enrollment := &entities.UserEnrollment{UserID: user.ID, SubjectID: subject.ID, IsActive: true, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(enrollment).Error)
}

func TestService_Dump(t *testing.T) {
	db, service, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)

	doc, err := service.Dump()
	require.NoError(t, err)

	assert.Equal(t, FormatVersion, doc.Version)
	assert.False(t, doc.GeneratedAt.IsZero())
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "$2a$10$hash", doc.Users[0].HashedPassword)
	assert.Len(t, doc.Subjects, 1)
	assert.Len(t, doc.Questions, 1)
	assert.Len(t, doc.PracticeSessions, 1)
	assert.Len(t, doc.QuestionAttempts, 1)
	assert.Len(t, doc.UserEnrollments, 1)
}

func TestService_Dump_IncludesInactiveRows(t *testing.T) {
	db, service, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.Subject{Name: "Retired", IsActive: false}).Error)

	doc, err := service.Dump()
	require.NoError(t, err)
	require.Len(t, doc.Subjects, 1)
	assert.False(t, doc.Subjects[0].IsActive)
}

func TestService_RoundTrip(t *testing.T) {
	db, service, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)

	doc, err := service.Dump()
	require.NoError(t, err)

	// A fresh database restored from the dump holds the same rows.
	_, service2, cleanup2 := setupNamedTestDB(t, "_replica")
	defer cleanup2()

	require.NoError(t, service2.Restore(doc))

	restored, err := service2.Dump()
	require.NoError(t, err)
	require.Len(t, restored.Users, 1)
	assert.Equal(t, doc.Users[0].ID, restored.Users[0].ID)
	assert.Equal(t, doc.Users[0].Email, restored.Users[0].Email)
	assert.Equal(t, doc.Users[0].HashedPassword, restored.Users[0].HashedPassword)
	assert.Len(t, restored.Questions, 1)
	assert.Equal(t, "B", restored.Questions[0].CorrectAnswer)
}

func TestService_Restore_ReplacesExistingData(t *testing.T) {
	db, service, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)

	doc, err := service.Dump()
	require.NoError(t, err)

	require.NoError(t, db.Create(&entities.Subject{Name: "Extra", IsActive: true}).Error)

	require.NoError(t, service.Restore(doc))

	var count int64
	db.Model(&entities.Subject{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestService_Restore_WrongVersion(t *testing.T) {
	_, service, cleanup := setupTestDB(t)
	defer cleanup()

	doc := &Document{Version: "0.9", Users: []UserRecord{{Email: "x@example.com"}}}
	err := service.Restore(doc)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestService_Restore_EmptyDocument(t *testing.T) {
	_, service, cleanup := setupTestDB(t)
	defer cleanup()

	err := service.Restore(&Document{Version: FormatVersion})
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestService_Restore_AllOrNothing(t *testing.T) {
	db, service, cleanup := setupTestDB(t)
	defer cleanup()
	seedTestData(t, db)

	doc, err := service.Dump()
	require.NoError(t, err)

	// Two users with the same email violate the unique index mid-restore;
	// the original rows must survive untouched.
	doc.Users = append(doc.Users, UserRecord{ID: 99, Email: doc.Users[0].Email, FullName: "Dup", HashedPassword: "x"})

	err = service.Restore(doc)
	require.Error(t, err)

	var userCount, subjectCount int64
	db.Model(&entities.User{}).Count(&userCount)
	db.Model(&entities.Subject{}).Count(&subjectCount)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), subjectCount)
}

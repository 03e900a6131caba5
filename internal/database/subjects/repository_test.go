package subjects

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/studentlearn/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_subjects_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Subject{},
		&entities.SubjectContent{},
		&entities.Lesson{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestSubject(t *testing.T, repo *Repository, name string) *entities.Subject {
	subject := &entities.Subject{Name: name, Description: "About " + name, IsActive: true}
	require.NoError(t, repo.Create(subject))
	return subject
}

func TestRepository_ListActive(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestSubject(t, repo, "Mathematics")
	createTestSubject(t, repo, "Physics")
	retired := createTestSubject(t, repo, "Alchemy")
	require.NoError(t, repo.SoftDelete(retired.ID))

	active, err := repo.ListActive(0, 100)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := repo.List(0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_SoftDelete_KeepsRow(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	subject := createTestSubject(t, repo, "Mathematics")

	require.NoError(t, repo.SoftDelete(subject.ID))

	kept, err := repo.GetByID(subject.ID)
	require.NoError(t, err)
	assert.False(t, kept.IsActive)
}

func TestRepository_HardDelete(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	subject := createTestSubject(t, repo, "Mathematics")

	require.NoError(t, repo.HardDelete(subject.ID))

	_, err := repo.GetByID(subject.ID)
	assert.ErrorIs(t, err, ErrSubjectNotFound)

	assert.ErrorIs(t, repo.HardDelete(subject.ID), ErrSubjectNotFound)
}

func TestRepository_Update_AllowList(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	subject := createTestSubject(t, repo, "Mathematics")

	updated, err := repo.Update(subject.ID, map[string]any{"description": "Numbers and shapes"})
	require.NoError(t, err)
	assert.Equal(t, "Numbers and shapes", updated.Description)

	_, err = repo.Update(subject.ID, map[string]any{"id": 99})
	assert.ErrorIs(t, err, ErrFieldNotUpdatable)

	_, err = repo.Update(subject.ID, map[string]any{"is_active": "yes"})
	assert.ErrorIs(t, err, ErrFieldValueInvalid)
}

func TestRepository_ContentsAndLessons(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	subject := createTestSubject(t, repo, "Mathematics")

	content := &entities.SubjectContent{SubjectID: subject.ID, Title: "Algebra", Body: "Intro"}
	require.NoError(t, repo.CreateContent(content))

	lesson := &entities.Lesson{ContentID: content.ID, Title: "Linear equations", Body: "ax+b=0"}
	require.NoError(t, repo.CreateLesson(lesson))

	contents, err := repo.ListContents(subject.ID)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "Algebra", contents[0].Title)

	lessons, err := repo.ListLessons(content.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Linear equations", lessons[0].Title)

	// Lessons hang off a content block, not the subject directly
	other, err := repo.ListLessons(9999)
	require.NoError(t, err)
	assert.Empty(t, other)
}

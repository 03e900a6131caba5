package users

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
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestUser(t *testing.T, repo *Repository, email, name string) *entities.User {
	user := &entities.User{
		Email:          email,
		FullName:       name,
		HashedPassword: "not-a-real-hash",
		IsActive:       true,
	}
	require.NoError(t, repo.Create(user))
	return user
}

func TestRepository_CreateAndGet(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, repo, "a@x.com", "A")

	byID, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.True(t, byID.IsActive)
	assert.False(t, byID.IsAdmin)

	byEmail, err := repo.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestRepository_Create_DuplicateEmail(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, repo, "a@x.com", "A")

	err := repo.Create(&entities.User{Email: "a@x.com", FullName: "Clone", HashedPassword: "x"})
	assert.Error(t, err)

	var count int64
	repo.db.Model(&entities.User{}).Where("email = ?", "a@x.com").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByEmail("missing@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_List_Pagination(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		createTestUser(t, repo, string(rune('a'+i))+"@x.com", "User")
	}

	users, total, err := repo.List(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, users, 2)

	users, _, err = repo.List(4, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRepository_Update_AllowList(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, repo, "a@x.com", "A")

	updated, err := repo.Update(user.ID, map[string]any{"full_name": "Renamed", "is_admin": true})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FullName)
	assert.True(t, updated.IsAdmin)

	// Email is not in the allow-list
	_, err = repo.Update(user.ID, map[string]any{"email": "evil@x.com"})
	assert.ErrorIs(t, err, ErrFieldNotUpdatable)

	// Allow-listed field, wrong JSON type
	_, err = repo.Update(user.ID, map[string]any{"is_active": "yes"})
	assert.ErrorIs(t, err, ErrFieldValueInvalid)

	unchanged, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", unchanged.Email)
	assert.True(t, unchanged.IsActive)
}

func TestRepository_Delete(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, repo, "a@x.com", "A")

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.GetByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(user.ID), ErrUserNotFound)
}

func TestRepository_FindInvalidEmails(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, repo, "good@x.com", "Good")
	broken := createTestUser(t, repo, "no-at-sign", "Broken")
	empty := createTestUser(t, repo, "", "Empty Name")

	invalid, err := repo.FindInvalidEmails()
	require.NoError(t, err)
	require.Len(t, invalid, 2)

	ids := []uint{invalid[0].ID, invalid[1].ID}
	assert.Contains(t, ids, broken.ID)
	assert.Contains(t, ids, empty.ID)
}

func TestPlaceholderEmail(t *testing.T) {
	assert.Equal(t, "ok@x.com", PlaceholderEmail(&entities.User{Email: "ok@x.com"}))
	assert.Equal(t, "noat@placeholder.local", PlaceholderEmail(&entities.User{Email: "noat"}))

	repaired := PlaceholderEmail(&entities.User{ID: 7, FullName: "Jane Q. Doe"})
	assert.Equal(t, "janeqdoe_7@placeholder.local", repaired)
}

func TestRepository_CountAdmins(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, repo, "u@x.com", "U")
	admin := createTestUser(t, repo, "admin@x.com", "Admin")
	_, err := repo.Update(admin.ID, map[string]any{"is_admin": true})
	require.NoError(t, err)

	count, err := repo.CountAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail("a@x.com")
package users

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/studentlearn/internal/entities"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrFieldNotUpdatable = errors.New("field is not updatable")
	ErrFieldValueInvalid = errors.New("field value has wrong type")
)

// updatableFields is the allow-list of user fields an admin may patch,
// each with a check that the JSON value carries the right type. Anything
// else in an update payload is rejected at the HTTP boundary.
var updatableFields = map[string]func(any) bool{
	"full_name": isString,
	"is_active": isBool,
	"is_admin":  isBool,
}

func isString(v any) bool { _, ok := v.(string); return ok }
func isBool(v any) bool   { _, ok := v.(bool); return ok }

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user row. The caller is responsible for hashing
// the password and checking email uniqueness beforehand; a duplicate
// email still fails on the unique index.
func (r *Repository) Create(user *entities.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns users with skip/limit pagination alongside the total count.
func (r *Repository) List(skip, limit int) ([]entities.User, int64, error) {
	if limit <= 0 {
		limit = 100
	}

	var total int64
	if err := r.db.Model(&entities.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []entities.User
	err := r.db.Order("id ASC").Offset(skip).Limit(limit).Find(&users).Error
	return users, total, err
}

// Update applies an allow-listed set of changes to a user and returns the
// updated row. Fields outside the allow-list are reported as an error
// rather than silently dropped.
func (r *Repository) Update(id uint, changes map[string]any) (*entities.User, error) {
	for field, value := range changes {
		valid, ok := updatableFields[field]
		if !ok {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldNotUpdatable)
		}
		if !valid(value) {
			return nil, fmt.Errorf("field %q: %w", field, ErrFieldValueInvalid)
		}
	}

	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		if err := r.db.Model(user).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return r.GetByID(id)
}

// Delete removes the user row permanently. Used by admin maintenance only;
// regular account disabling flips is_active instead.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetActive flips the soft-delete flag on a user account.
func (r *Repository) SetActive(id uint, active bool) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindInvalidEmails returns users whose email is empty or lacks an "@".
// Used by the cleanup maintenance command.
func (r *Repository) FindInvalidEmails() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Where("email = '' OR email IS NULL OR email NOT LIKE '%@%'").Find(&users).Error
	return users, err
}

// FixEmail rewrites a user's email address. Intended for repairing
// malformed rows found by FindInvalidEmails.
func (r *Repository) FixEmail(id uint, email string) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Update("email", email)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PlaceholderEmail derives a repair address for a user with a broken email,
// mirroring what the historical cleanup script generated.
func PlaceholderEmail(user *entities.User) string {
	if user.Email != "" && strings.Contains(user.Email, "@") {
		return user.Email
	}
	if user.Email != "" {
		return user.Email + "@placeholder.local"
	}

	var safe []rune
	for _, c := range strings.ToLower(user.FullName) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			safe = append(safe, c)
		}
		if len(safe) == 10 {
			break
		}
	}
	return fmt.Sprintf("%s_%d@placeholder.local", string(safe), user.ID)
}

// CountAdmins returns the number of admin accounts.
func (r *Repository) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("is_admin = ?", true).Count(&count).Error
	return count, err
}

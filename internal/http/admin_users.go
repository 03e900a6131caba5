package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/auth"
	"github.com/mrlokans/studentlearn/internal/database/users"
)

type UsersController struct {
	users *users.Repository
}

func NewUsersController(repo *users.Repository) *UsersController {
	return &UsersController{users: repo}
}

// List returns a page of accounts without password hashes.
// GET /users (legacy), GET /admin/users
func (uc *UsersController) List(c *gin.Context) {
	skip, limit := parsePagination(c)

	list, total, err := uc.users.List(skip, limit)
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	response := make([]UserResponse, 0, len(list))
	for i := range list {
		response = append(response, newUserResponse(&list[i]))
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: response, Total: total, Skip: skip, Limit: limit})
}

// Get returns one account.
// GET /admin/users/:id
func (uc *UsersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// Update patches an account. The repository allow-list keeps email and
// password out of reach of this endpoint.
// PATCH /admin/users/:id
func (uc *UsersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	user, err := uc.users.Update(id, changes)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUserNotFound):
			respondNotFound(c, "User")
		case errors.Is(err, users.ErrFieldNotUpdatable), errors.Is(err, users.ErrFieldValueInvalid):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update user")
		}
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// Delete removes an account row entirely. Admins cannot delete themselves;
// locking the last admin out is too easy a mistake to allow.
// DELETE /admin/users/:id
func (uc *UsersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	current := auth.CurrentUser(c)
	if current != nil && current.ID == id {
		respondBadRequest(c, "Cannot delete your own account")
		return
	}

	if err := uc.users.Delete(id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted"})
}

// Deactivate flips the account's active flag off, invalidating its tokens.
// POST /admin/users/:id/deactivate
func (uc *UsersController) Deactivate(c *gin.Context) {
	uc.setActive(c, false, "User deactivated")
}

// Activate re-enables a previously deactivated account.
// POST /admin/users/:id/activate
func (uc *UsersController) Activate(c *gin.Context) {
	uc.setActive(c, true, "User activated")
}

func (uc *UsersController) setActive(c *gin.Context, active bool, message string) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := uc.users.SetActive(id, active); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "User")
			return
		}
		respondInternalError(c, err, "set user active flag")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

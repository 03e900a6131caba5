package http

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/studentlearn/internal/entities"
)

func TestListActiveSubjects_Public(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	server.createSubject(t, "Mathematics", true)
	server.createSubject(t, "Retired", false)

	for _, path := range []string{"/practice/subjects", "/library/courses"} {
		w := server.do(t, "GET", path, nil, "")
		require.Equal(t, 200, w.Code)

		var list []entities.Subject
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.Equal(t, "Mathematics", list[0].Name)
	}
}

func TestCreateSubject_RequiresAdmin(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := server.registerUser(t, "student@example.com", "password123")

	w := server.do(t, "POST", "/subjects", map[string]any{"name": "Physics"}, token)
	assert.Equal(t, 403, w.Code)
}

func TestSubjectCRUD_Admin(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := server.registerAdmin(t, "admin@example.com", "password123")

	w := server.do(t, "POST", "/subjects", map[string]any{
		"name":        "Physics",
		"description": "Mechanics and waves",
	}, token)
	require.Equal(t, 200, w.Code)

	var subject entities.Subject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &subject))
	require.NotZero(t, subject.ID)

	w = server.do(t, "PATCH", fmt.Sprintf("/subjects/%d", subject.ID), map[string]any{
		"description": "Updated",
	}, token)
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "Updated")

	// Soft delete hides the subject from the catalog but keeps the row.
	w = server.do(t, "DELETE", fmt.Sprintf("/subjects/%d", subject.ID), nil, token)
	require.Equal(t, 200, w.Code)

	w = server.do(t, "GET", "/practice/subjects", nil, "")
	assert.NotContains(t, w.Body.String(), "Physics")

	var count int64
	server.db.Model(&entities.Subject{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w = server.do(t, "DELETE", fmt.Sprintf("/subjects/%d/permanent", subject.ID), nil, token)
	require.Equal(t, 200, w.Code)
	server.db.Model(&entities.Subject{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubjectGet_NotFound(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := server.registerAdmin(t, "admin@example.com", "password123")

	w := server.do(t, "GET", "/subjects/999", nil, token)
	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestSubjectContentsAndLessons(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	token := server.registerAdmin(t, "admin@example.com", "password123")
	subject := server.createSubject(t, "Chemistry", true)

	w := server.do(t, "POST", fmt.Sprintf("/subjects/%d/contents", subject.ID), map[string]any{
		"title": "Atomic Structure",
		"body":  "Electrons and orbitals",
	}, token)
	require.Equal(t, 200, w.Code)

	var content entities.SubjectContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &content))

	w = server.do(t, "POST", fmt.Sprintf("/contents/%d/lessons", content.ID), map[string]any{
		"title": "The Bohr Model",
		"body":  "Quantized orbits",
	}, token)
	require.Equal(t, 200, w.Code)

	w = server.do(t, "GET", fmt.Sprintf("/contents/%d/lessons", content.ID), nil, token)
	require.Equal(t, 200, w.Code)

	var lessons []entities.Lesson
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lessons))
	require.Len(t, lessons, 1)
	assert.Equal(t, "The Bohr Model", lessons[0].Title)
}

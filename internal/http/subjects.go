package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/database/subjects"
	"github.com/mrlokans/studentlearn/internal/entities"
)

type SubjectsController struct {
	subjects *subjects.Repository
}

func NewSubjectsController(repo *subjects.Repository) *SubjectsController {
	return &SubjectsController{subjects: repo}
}

// ListActive returns the catalog students can practice against.
// GET /practice/subjects, GET /library/courses
func (sc *SubjectsController) ListActive(c *gin.Context) {
	skip, limit := parsePagination(c)

	list, err := sc.subjects.ListActive(skip, limit)
	if err != nil {
		respondInternalError(c, err, "list subjects")
		return
	}
	c.JSON(http.StatusOK, list)
}

// List returns every subject, inactive ones included.
// GET /subjects (admin)
func (sc *SubjectsController) List(c *gin.Context) {
	skip, limit := parsePagination(c)

	list, err := sc.subjects.List(skip, limit)
	if err != nil {
		respondInternalError(c, err, "list all subjects")
		return
	}
	c.JSON(http.StatusOK, list)
}

type subjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Create adds a subject to the catalog.
// POST /subjects (admin)
func (sc *SubjectsController) Create(c *gin.Context) {
	var req subjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	subject := &entities.Subject{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := sc.subjects.Create(subject); err != nil {
		respondInternalError(c, err, "create subject")
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Get returns one subject by ID.
// GET /subjects/:id
func (sc *SubjectsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subject, err := sc.subjects.GetByID(id)
	if err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "get subject")
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Update patches a subject. Only name, description and is_active may change.
// PATCH /subjects/:id (admin)
func (sc *SubjectsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	subject, err := sc.subjects.Update(id, changes)
	if err != nil {
		switch {
		case errors.Is(err, subjects.ErrSubjectNotFound):
			respondNotFound(c, "Subject")
		case errors.Is(err, subjects.ErrFieldNotUpdatable), errors.Is(err, subjects.ErrFieldValueInvalid):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update subject")
		}
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Delete retires a subject from the catalog but keeps its row and history.
// DELETE /subjects/:id (admin)
func (sc *SubjectsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.subjects.SoftDelete(id); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "delete subject")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Subject deactivated"})
}

// DeletePermanent removes the subject row entirely.
// DELETE /subjects/:id/permanent (admin)
func (sc *SubjectsController) DeletePermanent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.subjects.HardDelete(id); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "permanently delete subject")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Subject permanently deleted"})
}

type contentRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// CreateContent attaches a study material section to a subject.
// POST /subjects/:id/contents (admin)
func (sc *SubjectsController) CreateContent(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := sc.subjects.GetByID(subjectID); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "create content")
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	content := &entities.SubjectContent{
		SubjectID: subjectID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := sc.subjects.CreateContent(content); err != nil {
		respondInternalError(c, err, "create content")
		return
	}
	c.JSON(http.StatusOK, content)
}

// ListContents lists a subject's study material sections.
// GET /subjects/:id/contents
func (sc *SubjectsController) ListContents(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contents, err := sc.subjects.ListContents(subjectID)
	if err != nil {
		respondInternalError(c, err, "list contents")
		return
	}
	c.JSON(http.StatusOK, contents)
}

// CreateLesson attaches a lesson to a content section.
// POST /contents/:id/lessons (admin)
func (sc *SubjectsController) CreateLesson(c *gin.Context) {
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := sc.subjects.GetContentByID(contentID); err != nil {
		if errors.Is(err, subjects.ErrContentNotFound) {
			respondNotFound(c, "Content")
			return
		}
		respondInternalError(c, err, "create lesson")
		return
	}

	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	lesson := &entities.Lesson{
		ContentID: contentID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := sc.subjects.CreateLesson(lesson); err != nil {
		respondInternalError(c, err, "create lesson")
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// ListLessons lists the lessons under a content section.
// GET /contents/:id/lessons
func (sc *SubjectsController) ListLessons(c *gin.Context) {
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lessons, err := sc.subjects.ListLessons(contentID)
	if err != nil {
		respondInternalError(c, err, "list lessons")
		return
	}
	c.JSON(http.StatusOK, lessons)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/auth"
	"github.com/mrlokans/studentlearn/internal/database/enrollments"
	"github.com/mrlokans/studentlearn/internal/database/subjects"
)

type EnrollmentsController struct {
	enrollments *enrollments.Repository
	subjects    *subjects.Repository
}

func NewEnrollmentsController(enrollRepo *enrollments.Repository, subjectRepo *subjects.Repository) *EnrollmentsController {
	return &EnrollmentsController{enrollments: enrollRepo, subjects: subjectRepo}
}

// Enroll signs the current user up for a subject. Enrolling twice is a
// no-op that returns the existing enrollment.
// POST /enrollments/:subjectID
func (ec *EnrollmentsController) Enroll(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "subjectID")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)

	subject, err := ec.subjects.GetByID(subjectID)
	if err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "enroll")
		return
	}
	if !subject.IsActive {
		respondNotFound(c, "Subject")
		return
	}

	enrollment, err := ec.enrollments.Enroll(user.ID, subjectID)
	if err != nil {
		respondInternalError(c, err, "enroll")
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// Unenroll drops the current user's enrollment. The row is kept with its
// active flag cleared so history survives.
// DELETE /enrollments/:subjectID
func (ec *EnrollmentsController) Unenroll(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "subjectID")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)

	removed, err := ec.enrollments.Unenroll(user.ID, subjectID)
	if err != nil {
		respondInternalError(c, err, "unenroll")
		return
	}
	if !removed {
		respondBadRequest(c, "Not enrolled in this subject")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Unenrolled successfully"})
}

// MyCourses lists the active subjects the current user is enrolled in.
// GET /my-courses
func (ec *EnrollmentsController) MyCourses(c *gin.Context) {
	user := auth.CurrentUser(c)

	list, err := ec.enrollments.ListSubjectsForUser(user.ID)
	if err != nil {
		respondInternalError(c, err, "list my courses")
		return
	}
	c.JSON(http.StatusOK, list)
}

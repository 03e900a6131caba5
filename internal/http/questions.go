package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/database/questions"
	"github.com/mrlokans/studentlearn/internal/database/subjects"
	"github.com/mrlokans/studentlearn/internal/entities"
)

// PracticeQuestionResponse is the student view of a question. The correct
// answer and explanation are withheld until the attempt is logged.
type PracticeQuestionResponse struct {
	ID              uint                     `json:"id"`
	SubjectID       uint                     `json:"subject_id"`
	QuestionText    string                   `json:"question_text"`
	OptionA         string                   `json:"option_a"`
	OptionB         string                   `json:"option_b"`
	OptionC         string                   `json:"option_c"`
	OptionD         string                   `json:"option_d"`
	DifficultyLevel entities.DifficultyLevel `json:"difficulty_level"`
}

func newPracticeQuestionResponse(q entities.Question) PracticeQuestionResponse {
	return PracticeQuestionResponse{
		ID:              q.ID,
		SubjectID:       q.SubjectID,
		QuestionText:    q.QuestionText,
		OptionA:         q.OptionA,
		OptionB:         q.OptionB,
		OptionC:         q.OptionC,
		OptionD:         q.OptionD,
		DifficultyLevel: q.DifficultyLevel,
	}
}

type QuestionsController struct {
	questions *questions.Repository
	subjects  *subjects.Repository
}

func NewQuestionsController(questionRepo *questions.Repository, subjectRepo *subjects.Repository) *QuestionsController {
	return &QuestionsController{questions: questionRepo, subjects: subjectRepo}
}

// PracticeQuestions returns a batch of active questions for a subject with
// the answers stripped.
// GET /practice/questions/:subjectID?limit=
func (qc *QuestionsController) PracticeQuestions(c *gin.Context) {
	subjectID, ok := parseIDParam(c, "subjectID")
	if !ok {
		return
	}

	if _, err := qc.subjects.GetByID(subjectID); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "practice questions")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := qc.questions.ListBySubject(subjectID, limit)
	if err != nil {
		respondInternalError(c, err, "practice questions")
		return
	}

	response := make([]PracticeQuestionResponse, 0, len(list))
	for _, q := range list {
		response = append(response, newPracticeQuestionResponse(q))
	}
	c.JSON(http.StatusOK, response)
}

type questionRequest struct {
	SubjectID       uint   `json:"subject_id" binding:"required"`
	QuestionText    string `json:"question_text" binding:"required"`
	OptionA         string `json:"option_a" binding:"required"`
	OptionB         string `json:"option_b" binding:"required"`
	OptionC         string `json:"option_c" binding:"required"`
	OptionD         string `json:"option_d" binding:"required"`
	CorrectAnswer   string `json:"correct_answer" binding:"required"`
	Explanation     string `json:"explanation"`
	DifficultyLevel string `json:"difficulty_level"`
}

func (req *questionRequest) validate() error {
	if !entities.ValidAnswerOption(req.CorrectAnswer) {
		return fmt.Errorf("correct_answer must be one of %v", entities.AnswerOptions)
	}
	if req.DifficultyLevel == "" {
		req.DifficultyLevel = string(entities.DifficultyMedium)
	}
	if !entities.ValidDifficulty(entities.DifficultyLevel(req.DifficultyLevel)) {
		return fmt.Errorf("difficulty_level must be one of easy, medium, hard")
	}
	return nil
}

func (req *questionRequest) toEntity() *entities.Question {
	return &entities.Question{
		SubjectID:       req.SubjectID,
		QuestionText:    req.QuestionText,
		OptionA:         req.OptionA,
		OptionB:         req.OptionB,
		OptionC:         req.OptionC,
		OptionD:         req.OptionD,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		DifficultyLevel: entities.DifficultyLevel(req.DifficultyLevel),
		IsActive:        true,
	}
}

// Create adds a single question to the bank.
// POST /admin/questions
func (qc *QuestionsController) Create(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if _, err := qc.subjects.GetByID(req.SubjectID); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "create question")
		return
	}

	question := req.toEntity()
	if err := qc.questions.Create(question); err != nil {
		respondInternalError(c, err, "create question")
		return
	}
	c.JSON(http.StatusOK, question)
}

// List returns questions with answers for the admin console.
// GET /admin/questions?subject_id=&difficulty=
func (qc *QuestionsController) List(c *gin.Context) {
	skip, limit := parsePagination(c)

	filter := questions.ListFilter{}
	if raw := c.Query("subject_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "Invalid subject_id")
			return
		}
		filter.SubjectID = uint(id)
	}
	if raw := c.Query("difficulty"); raw != "" {
		if !entities.ValidDifficulty(entities.DifficultyLevel(raw)) {
			respondBadRequest(c, "difficulty must be one of easy, medium, hard")
			return
		}
		filter.Difficulty = entities.DifficultyLevel(raw)
	}

	list, total, err := qc.questions.List(filter, skip, limit)
	if err != nil {
		respondInternalError(c, err, "list questions")
		return
	}
	c.JSON(http.StatusOK, PaginatedResponse{Data: list, Total: total, Skip: skip, Limit: limit})
}

// Get returns one question including its answer.
// GET /admin/questions/:id
func (qc *QuestionsController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := qc.questions.GetByID(id)
	if err != nil {
		if errors.Is(err, questions.ErrQuestionNotFound) {
			respondNotFound(c, "Question")
			return
		}
		respondInternalError(c, err, "get question")
		return
	}
	c.JSON(http.StatusOK, question)
}

// Update patches a question through the repository allow-list.
// PATCH /admin/questions/:id
func (qc *QuestionsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var changes map[string]any
	if err := c.ShouldBindJSON(&changes); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if raw, present := changes["correct_answer"]; present {
		answer, ok := raw.(string)
		if !ok || !entities.ValidAnswerOption(answer) {
			respondBadRequest(c, "correct_answer must be one of A, B, C, D")
			return
		}
	}
	if raw, present := changes["difficulty_level"]; present {
		level, ok := raw.(string)
		if !ok || !entities.ValidDifficulty(entities.DifficultyLevel(level)) {
			respondBadRequest(c, "difficulty_level must be one of easy, medium, hard")
			return
		}
	}

	question, err := qc.questions.Update(id, changes)
	if err != nil {
		switch {
		case errors.Is(err, questions.ErrQuestionNotFound):
			respondNotFound(c, "Question")
		case errors.Is(err, questions.ErrFieldNotUpdatable), errors.Is(err, questions.ErrFieldValueInvalid):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "update question")
		}
		return
	}
	c.JSON(http.StatusOK, question)
}

// Delete retires a question so new practice batches skip it. Past attempts
// keep referencing the row.
// DELETE /admin/questions/:id
func (qc *QuestionsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := qc.questions.SoftDelete(id); err != nil {
		if errors.Is(err, questions.ErrQuestionNotFound) {
			respondNotFound(c, "Question")
			return
		}
		respondInternalError(c, err, "delete question")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Question deactivated"})
}

type bulkImportRequest struct {
	SubjectID uint              `json:"subject_id" binding:"required"`
	Questions []questionRequest `json:"questions" binding:"required"`
}

type bulkImportFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type bulkImportResult struct {
	Imported int                 `json:"imported"`
	Failed   int                 `json:"failed"`
	Failures []bulkImportFailure `json:"failures"`
}

// BulkImport loads a batch of questions. Each item is validated on its own:
// bad items are reported by index and the valid remainder is committed.
// POST /admin/questions/bulk-import
func (qc *QuestionsController) BulkImport(c *gin.Context) {
	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if _, err := qc.subjects.GetByID(req.SubjectID); err != nil {
		if errors.Is(err, subjects.ErrSubjectNotFound) {
			respondNotFound(c, "Subject")
			return
		}
		respondInternalError(c, err, "bulk import")
		return
	}

	result := bulkImportResult{Failures: []bulkImportFailure{}}
	for i := range req.Questions {
		item := req.Questions[i]
		item.SubjectID = req.SubjectID

		if item.QuestionText == "" || item.OptionA == "" || item.OptionB == "" ||
			item.OptionC == "" || item.OptionD == "" {
			result.Failed++
			result.Failures = append(result.Failures, bulkImportFailure{Index: i, Reason: "missing required fields"})
			continue
		}
		if err := item.validate(); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, bulkImportFailure{Index: i, Reason: err.Error()})
			continue
		}

		if err := qc.questions.Create(item.toEntity()); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, bulkImportFailure{Index: i, Reason: "database error"})
			continue
		}
		result.Imported++
	}

	c.JSON(http.StatusOK, result)
}

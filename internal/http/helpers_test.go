package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/studentlearn/internal/auth"
	"github.com/mrlokans/studentlearn/internal/config"
	"github.com/mrlokans/studentlearn/internal/database"
	"github.com/mrlokans/studentlearn/internal/entities"
)

type testServer struct {
	router *gin.Engine
	cfg    RouterConfig
	db     *gorm.DB
}

func setupTestServer(t *testing.T) (*testServer, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + t.Name() + ".db"

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
		&entities.SubjectContent{},
		&entities.Lesson{},
	)
	require.NoError(t, err)

	wrapped := &database.Database{DB: db}
	cfg := NewRouterConfig(wrapped, nil, "test")
	cfg.AllowedOrigins = []string{"http://localhost:3000"}

	authService, err := auth.NewService(cfg.Users, config.Auth{
		JWTSecret:   "test-secret",
		TokenExpiry: time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})
	require.NoError(t, err)
	cfg.AuthService = authService

	server := &testServer{
		router: NewRouter(cfg),
		cfg:    cfg,
		db:     db,
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return server, cleanup
}

// registerUser creates an account through the API and returns its token.
func (s *testServer) registerUser(t *testing.T, email, password string) string {
	w := s.do(t, "POST", "/auth/register", map[string]any{
		"email":     email,
		"full_name": "Test User",
		"password":  password,
	}, "")
	require.Equal(t, 200, w.Code, w.Body.String())
	return s.login(t, email, password)
}

// registerAdmin creates an account and flips its admin flag directly.
func (s *testServer) registerAdmin(t *testing.T, email, password string) string {
	w := s.do(t, "POST", "/auth/register", map[string]any{
		"email":     email,
		"full_name": "Admin User",
		"password":  password,
	}, "")
	require.Equal(t, 200, w.Code, w.Body.String())
	require.NoError(t, s.db.Model(&entities.User{}).Where("email = ?", email).Update("is_admin", true).Error)
	return s.login(t, email, password)
}

func (s *testServer) login(t *testing.T, email, password string) string {
	w := s.do(t, "POST", "/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, 200, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// do performs a request with an optional JSON body and bearer token.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *testServer) createSubject(t *testing.T, name string, active bool) *entities.Subject {
	subject := &entities.Subject{Name: name, Description: name + " basics", IsActive: active}
	require.NoError(t, s.db.Create(subject).Error)
	return subject
}

func (s *testServer) createQuestion(t *testing.T, subjectID uint, correct string, active bool) *entities.Question {
	question := &entities.Question{
		SubjectID:       subjectID,
		QuestionText:    "What is 2+2?",
		OptionA:         "3",
		OptionB:         "4",
		OptionC:         "5",
		OptionD:         "6",
		CorrectAnswer:   correct,
		Explanation:     "Basic arithmetic",
		DifficultyLevel: entities.DifficultyEasy,
		IsActive:        active,
	}
	require.NoError(t, s.db.Create(question).Error)
	return question
}

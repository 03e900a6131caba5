package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
		}))
	}

	healthController := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService)
	subjectsController := NewSubjectsController(cfg.Subjects)
	questionsController := NewQuestionsController(cfg.Questions, cfg.Subjects)
	enrollmentsController := NewEnrollmentsController(cfg.Enrollments, cfg.Subjects)
	practiceController := NewPracticeController(cfg.Sessions, cfg.Attempts, cfg.Subjects, cfg.Stats)
	usersController := NewUsersController(cfg.Users)
	systemController := NewSystemController(cfg.Stats, cfg.BackupService, cfg.Users)

	// Public endpoints
	router.GET("/", Welcome)
	router.GET("/health", healthController.Status)
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)
	router.GET("/library/courses", subjectsController.ListActive)
	router.GET("/practice/subjects", subjectsController.ListActive)

	// Authenticated endpoints
	user := router.Group("/", auth.RequireUser(cfg.AuthService))
	{
		user.GET("/auth/me", authController.Me)

		user.GET("/practice/questions/:subjectID", questionsController.PracticeQuestions)

		user.POST("/enrollments/:subjectID", enrollmentsController.Enroll)
		user.DELETE("/enrollments/:subjectID", enrollmentsController.Unenroll)
		user.GET("/my-courses", enrollmentsController.MyCourses)

		user.POST("/practice/sessions", practiceController.CreateSession)
		user.GET("/practice/sessions", practiceController.ListSessions)
		user.PATCH("/practice/sessions/:id", practiceController.UpdateSession)
		user.POST("/practice/attempts", practiceController.CreateAttempt)
		user.GET("/practice/attempts", practiceController.ListAttempts)
		user.GET("/practice/statistics", practiceController.Statistics)
	}

	// Admin endpoints
	admin := router.Group("/", auth.RequireUser(cfg.AuthService), auth.RequireAdmin())
	{
		admin.GET("/users", usersController.List)

		admin.GET("/admin/users", usersController.List)
		admin.GET("/admin/users/:id", usersController.Get)
		admin.PATCH("/admin/users/:id", usersController.Update)
		admin.DELETE("/admin/users/:id", usersController.Delete)
		admin.POST("/admin/users/:id/activate", usersController.Activate)
		admin.POST("/admin/users/:id/deactivate", usersController.Deactivate)

		admin.POST("/subjects", subjectsController.Create)
		admin.GET("/subjects", subjectsController.List)
		admin.GET("/subjects/:id", subjectsController.Get)
		admin.PATCH("/subjects/:id", subjectsController.Update)
		admin.DELETE("/subjects/:id", subjectsController.Delete)
		admin.DELETE("/subjects/:id/permanent", subjectsController.DeletePermanent)
		admin.POST("/subjects/:id/contents", subjectsController.CreateContent)
		admin.GET("/subjects/:id/contents", subjectsController.ListContents)
		admin.POST("/contents/:id/lessons", subjectsController.CreateLesson)
		admin.GET("/contents/:id/lessons", subjectsController.ListLessons)

		admin.POST("/admin/questions", questionsController.Create)
		admin.GET("/admin/questions", questionsController.List)
		admin.GET("/admin/questions/:id", questionsController.Get)
		admin.PATCH("/admin/questions/:id", questionsController.Update)
		admin.DELETE("/admin/questions/:id", questionsController.Delete)
		admin.POST("/admin/questions/bulk-import", questionsController.BulkImport)

		admin.GET("/admin/practice-sessions", practiceController.AdminListSessions)
		admin.DELETE("/admin/practice-sessions/:id/permanent", practiceController.AdminDeleteSession)

		admin.GET("/admin/system/analytics", systemController.Analytics)
		admin.GET("/admin/system/backup", systemController.Backup)
		admin.POST("/admin/system/restore", systemController.Restore)
		admin.POST("/admin/system/cleanup", systemController.Cleanup)
	}

	return router
}

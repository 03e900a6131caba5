package http

import (
	"github.com/mrlokans/studentlearn/internal/auth"
	"github.com/mrlokans/studentlearn/internal/backup"
	"github.com/mrlokans/studentlearn/internal/database"
	"github.com/mrlokans/studentlearn/internal/database/attempts"
	"github.com/mrlokans/studentlearn/internal/database/enrollments"
	"github.com/mrlokans/studentlearn/internal/database/questions"
	"github.com/mrlokans/studentlearn/internal/database/sessions"
	"github.com/mrlokans/studentlearn/internal/database/stats"
	"github.com/mrlokans/studentlearn/internal/database/subjects"
	"github.com/mrlokans/studentlearn/internal/database/users"
)

// RouterConfig carries every dependency the router wires into controllers.
// Keeping them in one struct keeps NewRouter's signature stable as the
// surface grows.
type RouterConfig struct {
	Database *database.Database

	// Repositories
	Users       *users.Repository
	Subjects    *subjects.Repository
	Questions   *questions.Repository
	Sessions    *sessions.Repository
	Attempts    *attempts.Repository
	Enrollments *enrollments.Repository
	Stats       *stats.Repository

	// Services
	AuthService   *auth.Service
	BackupService *backup.Service

	// Application info
	Version string

	// Origins allowed to call the API from a browser. Empty disables CORS.
	AllowedOrigins []string
}

// NewRouterConfig builds the full dependency set from an open database.
func NewRouterConfig(db *database.Database, authService *auth.Service, version string) RouterConfig {
	return RouterConfig{
		Database:      db,
		Users:         users.NewRepository(db.DB),
		Subjects:      subjects.NewRepository(db.DB),
		Questions:     questions.NewRepository(db.DB),
		Sessions:      sessions.NewRepository(db.DB),
		Attempts:      attempts.NewRepository(db.DB),
		Enrollments:   enrollments.NewRepository(db.DB),
		Stats:         stats.NewRepository(db.DB),
		AuthService:   authService,
		BackupService: backup.NewService(db.DB),
		Version:       version,
	}
}

// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── users/           # User accounts and maintenance queries
//	├── subjects/        # Subjects, contents and lessons
//	├── questions/       # Question bank CRUD and filtering
//	├── sessions/        # Practice session records
//	├── attempts/        # Question attempt records
//	├── enrollments/     # User-subject enrollment lifecycle
//	└── stats/           # Aggregate statistics and analytics
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./app.db")
//
//	// Create domain-specific repositories
//	usersRepo := users.NewRepository(db.DB)
//	subjectsRepo := subjects.NewRepository(db.DB)
//
//	// Use repositories
//	user, err := usersRepo.GetByEmail("a@x.com")
//	active, err := subjectsRepo.ListActive(0, 100)
//
// Repositories are constructed once at startup and handed to the HTTP
// controllers through http.RouterConfig.
package database

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/studentlearn/internal/backup"
	"github.com/mrlokans/studentlearn/internal/database/stats"
	"github.com/mrlokans/studentlearn/internal/database/users"
)

type SystemController struct {
	stats  *stats.Repository
	backup *backup.Service
	users  *users.Repository
}

func NewSystemController(statsRepo *stats.Repository, backupService *backup.Service, userRepo *users.Repository) *SystemController {
	return &SystemController{stats: statsRepo, backup: backupService, users: userRepo}
}

// AnalyticsResponse is the admin dashboard payload.
type AnalyticsResponse struct {
	Overview      *stats.Overview         `json:"overview"`
	BySubject     []stats.SubjectActivity `json:"by_subject"`
	ByDifficulty  []stats.DifficultyCount `json:"by_difficulty"`
	DailyActivity []stats.DailyActivity   `json:"daily_activity"`
	TopUsers      []stats.TopUser         `json:"top_users"`
}

// Analytics aggregates platform-wide usage for the admin dashboard.
// GET /admin/system/analytics?days=7|30
func (sc *SystemController) Analytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days != 7 && days != 30 {
		respondBadRequest(c, "days must be 7 or 30")
		return
	}

	overview, err := sc.stats.GetOverview()
	if err != nil {
		respondInternalError(c, err, "analytics overview")
		return
	}
	bySubject, err := sc.stats.BySubject()
	if err != nil {
		respondInternalError(c, err, "analytics by subject")
		return
	}
	byDifficulty, err := sc.stats.ByDifficulty()
	if err != nil {
		respondInternalError(c, err, "analytics by difficulty")
		return
	}
	daily, err := sc.stats.DailyActivity(days)
	if err != nil {
		respondInternalError(c, err, "analytics daily activity")
		return
	}
	topUsers, err := sc.stats.TopUsers(10)
	if err != nil {
		respondInternalError(c, err, "analytics top users")
		return
	}

	c.JSON(http.StatusOK, AnalyticsResponse{
		Overview:      overview,
		BySubject:     bySubject,
		ByDifficulty:  byDifficulty,
		DailyActivity: daily,
		TopUsers:      topUsers,
	})
}

// Backup streams a full JSON dump of the database.
// GET /admin/system/backup
func (sc *SystemController) Backup(c *gin.Context) {
	doc, err := sc.backup.Dump()
	if err != nil {
		respondInternalError(c, err, "backup")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="studentlearn-backup.json"`)
	c.JSON(http.StatusOK, doc)
}

// Restore replaces the database with an uploaded dump. The operation is
// transactional; a bad document leaves the database untouched.
// POST /admin/system/restore
func (sc *SystemController) Restore(c *gin.Context) {
	var doc backup.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		respondBadRequest(c, "Invalid backup document")
		return
	}

	if err := sc.backup.Restore(&doc); err != nil {
		switch {
		case errors.Is(err, backup.ErrEmptyDocument):
			respondBadRequest(c, "Backup document has no data")
		case errors.Is(err, backup.ErrUnsupportedVersion):
			respondBadRequest(c, err.Error())
		default:
			respondInternalError(c, err, "restore")
		}
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Database restored successfully"})
}

// repairedEmail describes one malformed address rewritten during cleanup.
type repairedEmail struct {
	UserID   uint   `json:"user_id"`
	OldEmail string `json:"old_email"`
	NewEmail string `json:"new_email"`
}

type cleanupResponse struct {
	Scanned   int                    `json:"scanned"`
	Repaired  []repairedEmail        `json:"repaired"`
	DryRun    bool                   `json:"dry_run"`
	Integrity *stats.IntegrityReport `json:"integrity"`
}

// Cleanup finds malformed account emails and rewrites them onto the
// placeholder domain, then reports dangling foreign keys. Pass dry_run=true
// to preview without writing.
// POST /admin/system/cleanup
func (sc *SystemController) Cleanup(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	invalid, err := sc.users.FindInvalidEmails()
	if err != nil {
		respondInternalError(c, err, "cleanup scan")
		return
	}

	repaired := make([]repairedEmail, 0, len(invalid))
	for i := range invalid {
		user := &invalid[i]
		replacement := users.PlaceholderEmail(user)
		if !dryRun {
			if err := sc.users.FixEmail(user.ID, replacement); err != nil {
				respondInternalError(c, err, "cleanup repair")
				return
			}
		}
		repaired = append(repaired, repairedEmail{UserID: user.ID, OldEmail: user.Email, NewEmail: replacement})
	}

	integrity, err := sc.stats.Integrity()
	if err != nil {
		respondInternalError(c, err, "cleanup integrity")
		return
	}

	c.JSON(http.StatusOK, cleanupResponse{
		Scanned:   len(invalid),
		Repaired:  repaired,
		DryRun:    dryRun,
		Integrity: integrity,
	})
}

package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/studentlearn/internal/config"
	"github.com/mrlokans/studentlearn/internal/database"
	"github.com/mrlokans/studentlearn/internal/database/stats"
	"github.com/mrlokans/studentlearn/internal/database/users"
)

// CleanupEmailsCommand finds accounts whose email is empty or missing an
// @ sign and rewrites them onto the placeholder domain. Without -yes the
// command only reports what it would change.
type CleanupEmailsCommand struct {
	DatabasePath string
	Apply        bool
	Verbose      bool
}

func NewCleanupEmailsCommand() *CleanupEmailsCommand {
	return &CleanupEmailsCommand{}
}

func (cmd *CleanupEmailsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-emails", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Apply, "yes", false, "Apply the repairs (default is a dry run)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every repaired address")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-emails [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Repair malformed account emails and report dangling references.\n")
		fmt.Fprintf(os.Stderr, "Runs as a dry run unless -yes is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *CleanupEmailsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	userRepo := users.NewRepository(db.DB)
	statsRepo := stats.NewRepository(db.DB)

	fmt.Println("Email Cleanup")
	fmt.Println("=============")
	if !cmd.Apply {
		fmt.Println("DRY RUN MODE - pass -yes to apply changes")
		fmt.Println()
	}

	invalid, err := userRepo.FindInvalidEmails()
	if err != nil {
		return fmt.Errorf("failed to scan for malformed emails: %w", err)
	}

	for i := range invalid {
		user := &invalid[i]
		replacement := users.PlaceholderEmail(user)
		if cmd.Verbose || !cmd.Apply {
			fmt.Printf("  user %d: %q -> %q\n", user.ID, user.Email, replacement)
		}
		if cmd.Apply {
			if err := userRepo.FixEmail(user.ID, replacement); err != nil {
				return fmt.Errorf("failed to repair user %d: %w", user.ID, err)
			}
		}
	}

	action := "would repair"
	if cmd.Apply {
		action = "repaired"
	}
	fmt.Printf("%s %d malformed email(s)\n", action, len(invalid))

	report, err := statsRepo.Integrity()
	if err != nil {
		return fmt.Errorf("failed to run integrity checks: %w", err)
	}
	fmt.Println("\nIntegrity report:")
	fmt.Printf("  orphaned sessions:    %d\n", report.OrphanedSessions)
	fmt.Printf("  orphaned attempts:    %d\n", report.OrphanedAttempts)
	fmt.Printf("  orphaned enrollments: %d\n", report.OrphanedEnrollments)

	return nil
}

package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/studentlearn/internal/auth"
	"github.com/mrlokans/studentlearn/internal/config"
	"github.com/mrlokans/studentlearn/internal/database"
	"github.com/mrlokans/studentlearn/internal/database/users"
	"github.com/mrlokans/studentlearn/internal/entities"
)

// CreateAdminCommand creates an admin account, or promotes an existing
// account when the email is already registered.
type CreateAdminCommand struct {
	DatabasePath string
	Email        string
	Name         string
	Password     string
	BcryptCost   int
}

func NewCreateAdminCommand() *CreateAdminCommand {
	return &CreateAdminCommand{}
}

func (cmd *CreateAdminCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Email, "email", "", "Admin email address (required)")
	fs.StringVar(&cmd.Name, "name", "Administrator", "Admin full name")
	fs.StringVar(&cmd.Password, "password", "", "Admin password (required for new accounts)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-admin -email <address> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an admin account. If the email is already registered, the existing\n")
		fmt.Fprintf(os.Stderr, "account is promoted to admin and its password is left unchanged.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Email == "" {
		return fmt.Errorf("required flag -email not provided")
	}
	if cmd.BcryptCost == 0 {
		cmd.BcryptCost = config.NewConfig().Auth.BcryptCost
	}

	return nil
}

func (cmd *CreateAdminCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB)

	existing, err := repo.GetByEmail(cmd.Email)
	if err == nil {
		if existing.IsAdmin {
			fmt.Printf("%s is already an admin\n", cmd.Email)
			return nil
		}
		changes := map[string]any{"is_admin": true, "is_active": true}
		if _, err := repo.Update(existing.ID, changes); err != nil {
			return fmt.Errorf("failed to promote user: %w", err)
		}
		fmt.Printf("Promoted existing user %s to admin\n", cmd.Email)
		return nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided for new account")
	}

	hash, err := auth.HashPassword(cmd.Password, cmd.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &entities.User{
		Email:          cmd.Email,
		FullName:       cmd.Name,
		HashedPassword: hash,
		IsActive:       true,
		IsAdmin:        true,
	}
	if err := repo.Create(admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("Created admin account %s (id=%d)\n", admin.Email, admin.ID)
	return nil
}

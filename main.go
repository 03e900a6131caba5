package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/studentlearn/internal/cli"
	"github.com/mrlokans/studentlearn/internal/config"
	"github.com/mrlokans/studentlearn/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "seed-subjects":
		cmd = cli.NewSeedSubjectsCommand()
	case "create-admin":
		cmd = cli.NewCreateAdminCommand()
	case "cleanup-emails":
		cmd = cli.NewCleanupEmailsCommand()
	case "version":
		fmt.Printf("studentlearn %s (%s)\n", Version, Commit)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [command] [options]\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  serve           Start the HTTP server (default)")
	fmt.Println("  seed-subjects   Create the default subject catalog")
	fmt.Println("  create-admin    Create or promote an admin account")
	fmt.Println("  cleanup-emails  Repair malformed account emails")
	fmt.Println("  version         Print version information")
	fmt.Println()
	fmt.Printf("Run '%s <command> -h' for command options.\n", os.Args[0])
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/contactbox/backend/internal/logging"
	"github.com/contactbox/backend/internal/repository"
	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [command]

Commands:
  up          apply all pending migrations (default)
  down        roll back the most recent migration
  status      print the state of every migration
  reset       roll back every migration
  version     print the current schema version

Supported: %s
`, strings.Join(repository.MigrationCommands, ", "))
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	logging.Setup()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logging.Fatal("DATABASE_URL is required")
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	if !slices.Contains(repository.MigrationCommands, cmd) {
		usage()
	}

	if err := repository.RunMigration(context.Background(), dbURL, cmd); err != nil {
		logging.Fatal("migration failed", "command", cmd, "error", err)
	}
	slog.Info("migration finished", "command", cmd)
}

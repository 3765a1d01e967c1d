package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"teamhub.app/server/core/config"
	"teamhub.app/server/core/db"
)

const usage = "usage: migrate [up|down|status]"

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := config.LoadDB()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	switch command {
	case "up":
		err = database.Migrate(ctx)
	case "down":
		err = database.Rollback(ctx)
	case "status":
		err = database.MigrationStatus(ctx)
	default:
		fmt.Fprintln(os.Stderr, usage)
		database.Close()
		os.Exit(2)
	}
	if err != nil {
		slog.ErrorContext(ctx, "migration failed", "command", command, "error", err)
		database.Close()
		os.Exit(1)
	}
}

// Command migrate runs goose against the configured postgres database.
//
//	migrate up
//	migrate down
//	migrate status
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"supacoach/coach-api/internal/config"
	"supacoach/coach-api/internal/database"
	"supacoach/coach-api/internal/logger"
	"supacoach/coach-api/internal/migrations"
)

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: migrate [-config dir] <up|down|status|version|redo|reset> [args]")
		os.Exit(2)
	}

	if err := run(*configDir, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, command string, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations target postgres, got driver %q", cfg.Database.Driver)
	}

	logg := logger.New(logger.Options{
		ServiceName: "coach-api-migrate",
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
		Output:      os.Stderr,
	})

	ctx := context.Background()
	db, err := database.New(ctx, cfg.Database, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db.SQL(), command, args...); err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "command", command), "migrate.done")
	return nil
}

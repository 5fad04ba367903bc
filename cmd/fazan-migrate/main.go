// Package main is the entry point for the FAZAN.CLOUD database
// migration tool. It applies the schema for the configured backend,
// embedded SQLite by default or PostgreSQL for the user directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/config"
	"github.com/narama3535-tech/fazancloud/internal/repository/postgres"
	"github.com/narama3535-tech/fazancloud/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	switch command {
	case "version":
		fmt.Printf("FAZAN.CLOUD Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up":
		if err := runUp(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "status":
		if err := runStatus(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUp(configPath string) error {
	cfg := config.MustLoad(configPath)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	fmt.Println("SQLite schema up to date")

	if !cfg.Database.IsEmbedded() {
		pgdb, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pgdb.Close()

		if err := pgdb.Migrate(ctx); err != nil {
			return err
		}
		fmt.Println("PostgreSQL schema up to date")
	}

	return nil
}

func runStatus(configPath string) error {
	cfg := config.MustLoad(configPath)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	version, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("SQLite migration version: %d\n", version)
	return nil
}

func printUsage() {
	fmt.Println(`FAZAN.CLOUD Migration Tool

Usage:
  fazan-migrate [flags] <command>

Commands:
  up          Apply all pending migrations
  status      Show current migration status
  version     Print version information
  help        Show this help message

Flags:
  -config     Path to the configuration file

Environment Variables:
  FAZAN_DATABASE_DRIVER   "sqlite" (default) or "postgres"
  FAZAN_DATABASE_PATH     SQLite database file path

Examples:
  fazan-migrate up
  fazan-migrate -config config.yaml status`)
}

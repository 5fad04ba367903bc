// Package main is the entry point for the FAZAN.CLOUD admin CLI.
// It operates directly on the configured database, for maintenance
// that should not go through the HTTP surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/config"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/repository/sqlite"
	"github.com/narama3535-tech/fazancloud/internal/scrape"
	"github.com/narama3535-tech/fazancloud/internal/service"
	"github.com/narama3535-tech/fazancloud/internal/storage"
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

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	command := args[0]

	if command == "version" {
		fmt.Printf("FAZAN.CLOUD Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return nil
	}
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return nil
	}

	cfg := config.MustLoad(configPath)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sqlite.NewDB(ctx, sqlite.DefaultConfig(cfg.Database.Path), logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := sqlite.NewRepositories(db)
	audit := service.NewAuditService(repos.Log, logger)
	tracking := service.NewTrackingService(repos.User, logger)
	defer tracking.Stop()
	admin := service.NewAdminService(repos.User, repos.KV, audit, tracking, logger)

	switch command {
	case "user":
		return runUser(ctx, admin, repos, args[1:])
	case "lockdown":
		return runLockdown(ctx, admin, args[1:])
	case "announcement":
		return runAnnouncement(ctx, admin, args[1:])
	case "seed":
		return runSeed(ctx, cfg, repos, audit, logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
		return nil
	}
}

func runUser(ctx context.Context, admin *service.AdminService, repos *repository.Repositories, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fazan-admin user <list|reset-password|ban|unban> [username]")
	}

	switch args[0] {
	case "list":
		users, err := admin.ListUsers(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%-24s %-8s %-6s %-6s %s\n", "USERNAME", "ROLE", "VIP", "BANNED", "LAST LOGIN")
		for _, u := range users {
			fmt.Printf("%-24s %-8s %-6t %-6t %s\n",
				u.Username, u.Role, u.IsVip, u.IsBanned,
				time.UnixMilli(u.LastLogin).Format(time.RFC3339))
		}
		return nil

	case "reset-password":
		if len(args) < 2 {
			return fmt.Errorf("usage: fazan-admin user reset-password <username>")
		}
		if err := admin.ResetPassword(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("Password reset for %s\n", args[1])
		return nil

	case "ban":
		if len(args) < 2 {
			return fmt.Errorf("usage: fazan-admin user ban <username>")
		}
		if err := admin.SetBanned(ctx, args[1], true); err != nil {
			return err
		}
		fmt.Printf("User %s banned\n", args[1])
		return nil

	case "unban":
		if len(args) < 2 {
			return fmt.Errorf("usage: fazan-admin user unban <username>")
		}
		if err := admin.SetBanned(ctx, args[1], false); err != nil {
			return err
		}
		fmt.Printf("User %s unbanned\n", args[1])
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", args[0])
	}
}

func runLockdown(ctx context.Context, admin *service.AdminService, args []string) error {
	if len(args) < 1 {
		locked, err := admin.IsLockdown(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Lockdown: %t\n", locked)
		return nil
	}

	switch args[0] {
	case "on":
		if err := admin.SetLockdown(ctx, true); err != nil {
			return err
		}
		fmt.Println("Lockdown enabled")
	case "off":
		if err := admin.SetLockdown(ctx, false); err != nil {
			return err
		}
		fmt.Println("Lockdown disabled")
	default:
		return fmt.Errorf("usage: fazan-admin lockdown [on|off]")
	}
	return nil
}

func runAnnouncement(ctx context.Context, admin *service.AdminService, args []string) error {
	if len(args) < 1 {
		text, err := admin.Announcement(ctx)
		if err != nil {
			return err
		}
		if text == "" {
			fmt.Println("No announcement set")
		} else {
			fmt.Println(text)
		}
		return nil
	}

	switch args[0] {
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: fazan-admin announcement set <text>")
		}
		if err := admin.SetAnnouncement(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("Announcement updated")
	case "clear":
		if err := admin.SetAnnouncement(ctx, ""); err != nil {
			return err
		}
		fmt.Println("Announcement cleared")
	default:
		return fmt.Errorf("usage: fazan-admin announcement [set <text>|clear]")
	}
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config, repos *repository.Repositories, audit *service.AuditService, logger zerolog.Logger) error {
	images, err := storage.NewFilesystemStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}
	scraper := scrape.NewTelegramScraper(cfg.Scrape, logger)
	catalog := service.NewCatalogService(repos.Product, images, scraper, audit, logger)

	if err := catalog.Seed(ctx); err != nil {
		return err
	}

	count, err := repos.Product.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Catalog ready: %d products\n", count)
	return nil
}

func printUsage() {
	fmt.Println(`FAZAN.CLOUD Admin CLI

Usage:
  fazan-admin [flags] <command> [arguments]

Commands:
  user          Manage users (list, reset-password, ban, unban)
  lockdown      Show or toggle lockdown mode (on, off)
  announcement  Show, set or clear the global announcement
  seed          Seed the product catalog
  version       Print version information
  help          Show this help message

Flags:
  -config       Path to the configuration file

Examples:
  fazan-admin user list
  fazan-admin user reset-password kolya
  fazan-admin lockdown on
  fazan-admin announcement set "Новая поставка в пятницу"
  fazan-admin seed`)
}

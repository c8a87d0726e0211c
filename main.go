// ABOUTME: Entry point for the officecrm MCP server, CLI, TUI and web dashboard
// ABOUTME: Loads configuration, opens the store and routes to subcommands
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/charm"
	"github.com/harperreed/officecrm/cli"
	"github.com/harperreed/officecrm/config"
	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/logging"
)

const version = "0.1.0"

var errUsage = errors.New("usage")

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	store  *db.Store
	logger *zap.Logger
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/officecrm/officecrm.db)")
	userName := flag.String("user", "", "Acting username (default: $OFFICECRM_USER)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("officecrm version %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *userName != "" {
		cfg.User = *userName
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *initOnly, args); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, initOnly bool, args []string) error {
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Environment: cfg.Environment})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	ctx = logging.WithContext(ctx, logger)

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", zap.String("path", cfg.DBPath))

	if initOnly {
		fmt.Printf("Database initialized at %s\n", cfg.DBPath)
		return nil
	}

	a := &app{
		cfg:    cfg,
		store:  db.NewStore(database, db.WithLogger(logger)),
		logger: logger,
	}

	command, commandArgs := args[0], args[1:]
	switch command {
	case "mcp":
		userID, err := a.currentUser(ctx)
		if err != nil {
			return err
		}
		return cli.MCPCommand(ctx, a.store, userID, version, logger)
	case "crm":
		return a.crm(ctx, commandArgs)
	case "viz":
		return a.viz(ctx, commandArgs)
	case "tui":
		userID, err := a.currentUser(ctx)
		if err != nil {
			return err
		}
		return cli.TUICommand(ctx, a.store, userID)
	case "web":
		var defaultUser *uuid.UUID
		if cfg.User != "" {
			userID, err := a.currentUser(ctx)
			if err != nil {
				return err
			}
			defaultUser = &userID
		}
		return cli.WebCommand(ctx, a.store, defaultUser, cfg.WebPort, logger, commandArgs)
	case "sync":
		return a.sync(ctx, commandArgs)
	case "backup":
		return a.backup(ctx, commandArgs)
	}
	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
	return errUsage
}

// currentUser resolves the configured username to a user ID.
func (a *app) currentUser(ctx context.Context) (uuid.UUID, error) {
	if a.cfg.User == "" {
		return uuid.Nil, fmt.Errorf("no user selected: pass --user or set OFFICECRM_USER")
	}
	user, err := a.store.GetUserByName(ctx, a.cfg.User)
	if errors.Is(err, db.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("unknown user %q: create it with 'officecrm crm add-user --name %s'", a.cfg.User, a.cfg.User)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func (a *app) crm(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: crm requires a subcommand")
		return errUsage
	}
	sub, subArgs := args[0], args[1:]
	w := os.Stdout

	if sub == "add-user" {
		return cli.AddUserCommand(ctx, a.store, subArgs, w)
	}

	userID, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	switch sub {
	case "add-owner":
		return cli.AddOwnerCommand(ctx, a.store, userID, subArgs, w)
	case "add-office":
		return cli.AddOfficeCommand(ctx, a.store, userID, subArgs, w)
	case "add-employee":
		return cli.AddEmployeeCommand(ctx, a.store, userID, subArgs, w)
	case "edit-owner":
		return cli.EditOwnerCommand(ctx, a.store, userID, subArgs, w)
	case "edit-office":
		return cli.EditOfficeCommand(ctx, a.store, userID, subArgs, w)
	case "edit-employee":
		return cli.EditEmployeeCommand(ctx, a.store, userID, subArgs, w)
	case "list-owners":
		return cli.ListOwnersCommand(ctx, a.store, userID, w)
	case "delete-owner":
		return cli.DeleteOwnerCommand(ctx, a.store, userID, subArgs, w)
	case "delete-employee":
		return cli.DeleteEmployeeCommand(ctx, a.store, userID, subArgs, w)
	case "log-report":
		return cli.LogReportCommand(ctx, a.store, userID, subArgs, w)
	case "home":
		return cli.HomeCommand(ctx, a.store, userID, w)
	case "owner":
		return cli.OwnerCommand(ctx, a.store, userID, subArgs, w)
	case "office":
		return cli.OfficeCommand(ctx, a.store, userID, subArgs, w)
	case "activity":
		return cli.ActivityCommand(ctx, a.store, userID, subArgs, w)
	}
	fmt.Fprintf(os.Stderr, "Unknown crm command: %s\n\n", sub)
	return errUsage
}

func (a *app) viz(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "graph" {
		fmt.Fprintln(os.Stderr, "Error: viz requires the graph subcommand")
		return errUsage
	}
	userID, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	return cli.VizGraphCommand(ctx, a.store, userID, args[1:], os.Stdout)
}

func (a *app) sync(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: sync requires a subcommand")
		return errUsage
	}
	sub, subArgs := args[0], args[1:]

	if sub == "init" {
		return cli.SyncInitCommand(ctx, a.cfg, subArgs, os.Stdout)
	}

	userID, err := a.currentUser(ctx)
	if err != nil {
		return err
	}
	switch sub {
	case "calendar":
		return cli.SyncCalendarCommand(ctx, a.cfg, a.store, userID, a.logger, subArgs, os.Stdout)
	case "status":
		return cli.SyncStatusCommand(ctx, a.store, userID, os.Stdout)
	}
	fmt.Fprintf(os.Stderr, "Unknown sync command: %s\n\n", sub)
	return errUsage
}

func (a *app) backup(ctx context.Context, args []string) error {
	userID, err := a.currentUser(ctx)
	if err != nil {
		return err
	}

	charmCfg, err := charm.LoadConfig(a.cfg.CharmHost)
	if err != nil {
		return fmt.Errorf("failed to load charm config: %w", err)
	}
	client, err := charm.NewClient(charmCfg)
	if err != nil {
		return fmt.Errorf("failed to open charm KV: %w", err)
	}
	return cli.BackupCommand(ctx, client, a.store, userID, args, os.Stdout)
}

func printUsage() {
	fmt.Printf(`officecrm v%s - Owner, office and employee relationship tracker

USAGE:
  officecrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/officecrm/officecrm.db)
  --user <name>          Acting username (default: $OFFICECRM_USER)
  --init                 Initialize database and exit

COMMANDS:
  mcp                    Start MCP server on stdio
  crm                    Hierarchy and report commands
  viz                    Visualization commands
  tui                    Interactive terminal dashboard
  web                    Web dashboard and JSON API
  sync                   Google Calendar import
  backup                 Charm KV snapshots

CRM COMMANDS:
  officecrm crm add-user --name <name>
  officecrm crm add-owner --name <name> [--email <email>]
  officecrm crm add-office --owner <id> --name <name> --number <1-100>
      --address <street> --city <city> --state <state> --zip <zip>
  officecrm crm add-employee --office <id> --name <name> --position <title>
      [--email <email>] [--potential <1-10>]
  officecrm crm edit-owner [--name <name>] [--email <email>] <id>
  officecrm crm edit-office [--name <name>] [--number <1-100>] [--address <street>]
      [--city <city>] [--state <state>] [--zip <zip>] <id>
  officecrm crm edit-employee [--name <name>] [--position <title>] [--email <email>]
      [--potential <1-10>] <id>           Only the flags given are changed
  officecrm crm list-owners
  officecrm crm delete-owner <id>       Removes offices, employees and reports too
  officecrm crm delete-employee <id>    Reports stay with the office
  officecrm crm log-report (--employee <id> | --office <id> | --owner <id> [--office <id>])
      --calltype <phone|email|fov|teams|other> --content <text>
      [--subject <text>] [--vibe <1-10>] [--transcript] [--date <YYYY-MM-DD|RFC3339>]
  officecrm crm home                    Activity windows, stale owners, recent reports
  officecrm crm owner <id>              Owner summary
  officecrm crm office <id>             Office summary with average vibe
  officecrm crm activity [--start <YYYY-MM-DD>] [--end <YYYY-MM-DD>] [--days <n>]

VIZ COMMANDS:
  officecrm viz graph [owner-id]
    --format <dot|svg|png>               Output format (default: dot)
    --output <file>                      Output file (default: stdout)

WEB:
  officecrm web [--port <n>]             Serve on $OFFICECRM_WEB_PORT (default 8080)

SYNC COMMANDS:
  officecrm sync init                    Authorize Google Calendar (read-only)
  officecrm sync calendar [--initial]    Import meetings with known employees
  officecrm sync status                  Show calendar sync state

BACKUP COMMANDS:
  officecrm backup create [--keep <n>]   Snapshot this user's data
  officecrm backup list                  List snapshots, newest first
  officecrm backup restore [--key <k>] --confirm
  officecrm backup prune [--keep <n>]
  officecrm backup status | now | auto --enable|--disable | wipe --confirm

EXAMPLES:
  officecrm crm add-user --name alice
  officecrm --user alice crm add-owner --name "Acme Holdings"
  officecrm --user alice crm activity --start 2025-03-01 --end 2025-03-31
  officecrm --user alice mcp

`, version)
}

// ABOUTME: Utility for moving one user's hierarchy between database files
// ABOUTME: Supports dry-run, JSON dumps and a backup of the target before writing

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/logging"
	"github.com/harperreed/officecrm/models"
)

type options struct {
	fromPath   string
	toPath     string
	user       string
	as         string
	out        string
	dryRun     bool
	backup     bool
	createUser bool
}

func main() {
	var opts options
	flag.StringVar(&opts.fromPath, "from", "", "Source database (required)")
	flag.StringVar(&opts.toPath, "to", "", "Target database")
	flag.StringVar(&opts.user, "user", "", "Username to copy (required)")
	flag.StringVar(&opts.as, "as", "", "Username in the target (default: same as -user)")
	flag.StringVar(&opts.out, "out", "", "Write the export as JSON to this file instead of a target database")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Show what would be copied without writing")
	flag.BoolVar(&opts.backup, "backup", true, "Back up the target database before writing")
	flag.BoolVar(&opts.createUser, "create-user", false, "Create the target user when missing")
	flag.Parse()

	logger, err := logging.New(logging.Config{Level: os.Getenv("OFFICECRM_LOG_LEVEL")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), opts, logger); err != nil {
		logger.Fatal("tenant copy failed", zap.Error(err))
	}
	logger.Info("tenant copy completed")
}

func run(ctx context.Context, opts options, logger *zap.Logger) error {
	if opts.fromPath == "" || opts.user == "" {
		return errors.New("-from and -user are required")
	}
	if opts.toPath == "" && opts.out == "" {
		return errors.New("one of -to or -out is required")
	}
	if _, err := os.Stat(opts.fromPath); os.IsNotExist(err) {
		return fmt.Errorf("database file does not exist: %s", opts.fromPath)
	}

	source, err := db.OpenDatabase(opts.fromPath)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = source.Close() }()

	export, err := exportUser(ctx, db.NewStore(source, db.WithLogger(logger)), opts.user)
	if err != nil {
		return err
	}
	logger.Info("loaded tenant",
		zap.String("user", opts.user),
		zap.Int("owners", len(export.Owners)),
		zap.Int("offices", len(export.Offices)),
		zap.Int("employees", len(export.Employees)),
		zap.Int("reports", len(export.Reports)),
	)

	if opts.dryRun {
		logger.Info("[DRY RUN] nothing written")
		return nil
	}

	if opts.out != "" {
		return writeJSON(opts.out, export)
	}

	if opts.backup {
		if err := backupFile(opts.toPath, logger); err != nil {
			return err
		}
	}

	target, err := db.OpenDatabase(opts.toPath)
	if err != nil {
		return fmt.Errorf("failed to open target: %w", err)
	}
	defer func() { _ = target.Close() }()

	targetName := opts.as
	if targetName == "" {
		targetName = opts.user
	}
	result, err := importUser(ctx, db.NewStore(target, db.WithLogger(logger)), targetName, opts.createUser, export)
	if err != nil {
		return err
	}
	logger.Info("restored into target",
		zap.String("user", targetName),
		zap.Int("owners", result.Owners),
		zap.Int("offices", result.Offices),
		zap.Int("employees", result.Employees),
		zap.Int("reports", result.Reports),
	)
	return nil
}

func exportUser(ctx context.Context, store *db.Store, username string) (*models.TenantExport, error) {
	user, err := store.GetUserByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", username, err)
	}
	return store.ExportTenant(ctx, user.ID)
}

func importUser(ctx context.Context, store *db.Store, username string, create bool, export *models.TenantExport) (*models.RestoreResult, error) {
	user, err := store.GetUserByName(ctx, username)
	if errors.Is(err, db.ErrNotFound) && create {
		user = &models.User{Username: username}
		err = store.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target user %q (use -create-user to create it): %w", username, err)
	}
	return store.RestoreTenant(ctx, user.ID, export)
}

func writeJSON(path string, export *models.TenantExport) error {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// backupFile copies path aside. A missing target needs no backup.
func backupFile(path string, logger *zap.Logger) error {
	input, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, input, 0600); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	logger.Info("backup created", zap.String("path", backupPath))
	return nil
}

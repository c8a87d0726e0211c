// ABOUTME: Web subcommand
// ABOUTME: Serves the dashboard pages and JSON API over HTTP
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/web"
)

// WebCommand starts the web server and blocks until ctx is cancelled.
// defaultUser, when set, serves requests that carry no identity.
func WebCommand(ctx context.Context, store *db.Store, defaultUser *uuid.UUID, port int, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	portFlag := fs.Int("port", port, "Port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := []web.Option{web.WithLogger(logger)}
	if defaultUser != nil {
		opts = append(opts, web.WithDefaultUser(*defaultUser))
	}

	server, err := web.NewServer(store, opts...)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}
	return server.Start(ctx, *portFlag)
}

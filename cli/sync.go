// ABOUTME: Google Calendar sync CLI commands
// ABOUTME: Handles OAuth setup, calendar import and sync status
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/harperreed/officecrm/config"
	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/sync"
)

const callbackAddr = ":8085"

// SyncInitCommand runs the OAuth flow and stores the token.
func SyncInitCommand(ctx context.Context, cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("sync init", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	oauthCfg, err := sync.NewOAuthConfig(cfg)
	if err != nil {
		return err
	}

	// Buffered so a late callback never blocks the handler.
	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)
	state := uuid.NewString()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(rw, "state mismatch", http.StatusBadRequest)
			errChan <- errors.New("OAuth state mismatch")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(rw, "missing code", http.StatusBadRequest)
			errChan <- errors.New("no authorization code received")
			return
		}

		token, err := oauthCfg.Exchange(ctx, code)
		if err != nil {
			http.Error(rw, "exchange failed", http.StatusBadGateway)
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(rw, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Fprintln(w, "Opening browser for Google OAuth...")
	fmt.Fprintf(w, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		if err := sync.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		fmt.Fprintf(w, "\n✓ Authenticated successfully\n")
		fmt.Fprintf(w, "✓ Tokens saved to %s\n\n", sync.TokenPath())
		fmt.Fprintln(w, "Ready to sync! Run 'officecrm sync calendar --initial' to import meetings.")
		return nil

	case err := <-errChan:
		return fmt.Errorf("OAuth flow failed: %w", err)

	case <-ctx.Done():
		return ctx.Err()
	}
}

// SyncCalendarCommand imports calendar meetings as reports.
func SyncCalendarCommand(ctx context.Context, cfg *config.Config, store *db.Store, userID uuid.UUID, logger *zap.Logger, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("sync calendar", flag.ContinueOnError)
	initial := fs.Bool("initial", false, "Full import (last 6 months)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	oauthCfg, err := sync.NewOAuthConfig(cfg)
	if err != nil {
		return err
	}
	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'officecrm sync init' first: %w", err)
	}

	source, err := sync.NewCalendarSource(ctx, oauthCfg, token)
	if err != nil {
		return fmt.Errorf("failed to create Calendar client: %w", err)
	}

	fmt.Fprintln(w, "Syncing Google Calendar...")
	result, err := sync.NewCalendarImporter(store, source, userID, logger).Import(ctx, *initial)
	if err != nil {
		return fmt.Errorf("calendar sync failed: %w", err)
	}

	fmt.Fprintf(w, "  ✓ Fetched %d event(s)\n", result.Fetched)
	fmt.Fprintf(w, "  ✓ Logged %d report(s)\n", result.Imported)
	if result.Duplicates > 0 {
		fmt.Fprintf(w, "  ✓ %d already imported\n", result.Duplicates)
	}
	if result.Unmatched > 0 {
		fmt.Fprintf(w, "  → %d meeting(s) with no known employee\n", result.Unmatched)
	}
	if skipped := result.TotalSkipped(); skipped > 0 {
		fmt.Fprintf(w, "  → Skipped %d event(s):\n", skipped)
		reasons := make([]string, 0, len(result.Skipped))
		for reason := range result.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(w, "      %s: %d\n", reason, result.Skipped[reason])
		}
	}
	return nil
}

// SyncStatusCommand shows the stored calendar sync state.
func SyncStatusCommand(ctx context.Context, store *db.Store, userID uuid.UUID, w io.Writer) error {
	state, err := store.GetSyncState(ctx, userID, sync.CalendarService)
	if err != nil {
		return fmt.Errorf("failed to read sync state: %w", err)
	}
	if state == nil {
		fmt.Fprintln(w, "Calendar: never synced")
		return nil
	}

	fmt.Fprintf(w, "Calendar: %s\n", state.Status)
	if state.LastSyncTime != nil {
		fmt.Fprintf(w, "  Last sync: %s\n", formatWhen(state.LastSyncTime))
	}
	if state.LastSyncToken != nil {
		fmt.Fprintln(w, "  Incremental sync: enabled")
	}
	if state.ErrorMessage != nil {
		fmt.Fprintf(w, "  Error: %s\n", *state.ErrorMessage)
	}
	return nil
}

// openBrowser attempts to open url in the default browser.
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}

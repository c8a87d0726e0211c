// ABOUTME: Visualization CLI commands
// ABOUTME: Renders the owner/office/employee hierarchy with GraphViz
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/google/uuid"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/viz"
)

var vizFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
}

// VizGraphCommand renders the hierarchy, optionally for one owner.
func VizGraphCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("viz graph", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	formatName := fs.String("format", "dot", "Output format: dot, svg or png")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, ok := vizFormats[*formatName]
	if !ok {
		return fmt.Errorf("unknown format %q (want dot, svg or png)", *formatName)
	}

	var ownerID *uuid.UUID
	if fs.NArg() > 0 {
		id, err := uuid.Parse(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}
		ownerID = &id
	}

	out := w
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *output, err)
		}
		defer f.Close()
		out = f
	}

	stats, err := viz.NewGraphGenerator(store).RenderHierarchyGraph(ctx, userID, ownerID, format, out)
	if err != nil {
		return err
	}
	if *output != "" {
		fmt.Fprintf(w, "✓ Graph written to %s (%d owners, %d offices, %d employees)\n",
			*output, stats.Owners, stats.Offices, stats.Employees)
	}
	return nil
}

// ABOUTME: Graphviz rendering of the owner -> office -> employee hierarchy
// ABOUTME: Produces DOT source or any format go-graphviz can render
package viz

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"
	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
)

type GraphGenerator struct {
	store *db.Store
}

func NewGraphGenerator(store *db.Store) *GraphGenerator {
	return &GraphGenerator{store: store}
}

// GraphStats counts what went into a graph.
type GraphStats struct {
	Owners    int
	Offices   int
	Employees int
}

// GenerateHierarchyGraph returns DOT source for the user's hierarchy, or
// for one owner when ownerID is set.
func (g *GraphGenerator) GenerateHierarchyGraph(ctx context.Context, userID uuid.UUID, ownerID *uuid.UUID) (string, GraphStats, error) {
	var buf bytes.Buffer
	stats, err := g.RenderHierarchyGraph(ctx, userID, ownerID, graphviz.XDOT, &buf)
	if err != nil {
		return "", stats, err
	}
	return buf.String(), stats, nil
}

// RenderHierarchyGraph writes the hierarchy in the given format to w.
func (g *GraphGenerator) RenderHierarchyGraph(ctx context.Context, userID uuid.UUID, ownerID *uuid.UUID, format graphviz.Format, w io.Writer) (GraphStats, error) {
	var stats GraphStats

	var owners []models.Owner
	if ownerID != nil {
		owner, err := g.store.GetOwner(ctx, userID, *ownerID)
		if err != nil {
			return stats, fmt.Errorf("failed to fetch owner: %w", err)
		}
		owners = []models.Owner{*owner}
	} else {
		var err error
		owners, err = g.store.ListOwners(ctx, userID)
		if err != nil {
			return stats, fmt.Errorf("failed to fetch owners: %w", err)
		}
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return stats, fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)
	graph.SetLabel("Owner Hierarchy")

	for _, owner := range owners {
		ownerNode, err := graph.CreateNodeByName("owner_" + owner.ID.String())
		if err != nil {
			return stats, fmt.Errorf("failed to create owner node: %w", err)
		}
		ownerNode.SetLabel(fmt.Sprintf("%s\nlast: %s", owner.Name, formatLastContacted(owner.LastContacted)))
		ownerNode.SetShape("box")
		ownerNode.SetStyle("filled")
		ownerNode.SetFillColor("lightblue")
		stats.Owners++

		offices, err := g.store.ListOfficesByOwner(ctx, userID, owner.ID)
		if err != nil {
			return stats, fmt.Errorf("failed to fetch offices: %w", err)
		}

		for _, office := range offices {
			officeNode, err := graph.CreateNodeByName("office_" + office.ID.String())
			if err != nil {
				return stats, fmt.Errorf("failed to create office node: %w", err)
			}
			officeNode.SetLabel(fmt.Sprintf("%s #%d\n%s, %s", office.Name, office.Number, office.City, office.State))
			officeNode.SetShape("box")
			officeNode.SetStyle("filled")
			officeNode.SetFillColor("lightyellow")
			stats.Offices++

			if _, err := graph.CreateEdgeByName("has_office", ownerNode, officeNode); err != nil {
				return stats, fmt.Errorf("failed to create edge: %w", err)
			}

			employees, err := g.store.ListEmployeesByOffice(ctx, userID, office.ID)
			if err != nil {
				return stats, fmt.Errorf("failed to fetch employees: %w", err)
			}
			for _, emp := range employees {
				empNode, err := graph.CreateNodeByName("employee_" + emp.ID.String())
				if err != nil {
					return stats, fmt.Errorf("failed to create employee node: %w", err)
				}
				empNode.SetLabel(fmt.Sprintf("%s\n%s", emp.Name, emp.Position))
				empNode.SetShape("ellipse")
				empNode.SetStyle("filled")
				empNode.SetFillColor("lightgreen")
				stats.Employees++

				edge, err := graph.CreateEdgeByName("works_at", empNode, officeNode)
				if err != nil {
					return stats, fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetStyle("dashed")
			}
		}
	}

	if err := gv.Render(ctx, graph, format, w); err != nil {
		return stats, fmt.Errorf("failed to render graph: %w", err)
	}
	return stats, nil
}

// ABOUTME: GraphViz visualization MCP handler
// ABOUTME: Provides the hierarchy_graph tool returning DOT source
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type HierarchyGraphInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"UUID of one owner to graph (default all owners)"`
}

type HierarchyGraphOutput struct {
	DOTSource string `json:"dot_source"`
	Owners    int    `json:"owners"`
	Offices   int    `json:"offices"`
	Employees int    `json:"employees"`
}

func (h *Handlers) HierarchyGraph(ctx context.Context, request *mcp.CallToolRequest, input HierarchyGraphInput) (*mcp.CallToolResult, HierarchyGraphOutput, error) {
	var ownerID *uuid.UUID
	if input.OwnerID != "" {
		id, err := parseID("owner_id", input.OwnerID)
		if err != nil {
			return nil, HierarchyGraphOutput{}, err
		}
		ownerID = &id
	}

	dot, stats, err := viz.NewGraphGenerator(h.store).GenerateHierarchyGraph(ctx, h.userID, ownerID)
	if err != nil {
		return nil, HierarchyGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}
	return nil, HierarchyGraphOutput{
		DOTSource: dot,
		Owners:    stats.Owners,
		Offices:   stats.Offices,
		Employees: stats.Employees,
	}, nil
}

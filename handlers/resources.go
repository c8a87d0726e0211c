// ABOUTME: MCP resource handlers exposing read-only hierarchy data
// ABOUTME: Serves officecrm:// URIs for owners, owner summaries and office summaries
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "officecrm://"

func OwnersResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "owners",
		Title:       "Owners",
		Description: "Every owner visible to the current user",
		MIMEType:    "application/json",
		URI:         resourceScheme + "owners",
	}
}

func OwnerResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "owner_summary",
		Title:       "Owner summary",
		Description: "Owner with offices, recent reports and field visit count. URI format: officecrm://owners/{owner_id}",
		MIMEType:    "application/json",
		URITemplate: resourceScheme + "owners/{owner_id}",
	}
}

func OfficeResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "office_summary",
		Title:       "Office summary",
		Description: "Office with employees, recent reports and average vibe. URI format: officecrm://offices/{office_id}",
		MIMEType:    "application/json",
		URITemplate: resourceScheme + "offices/{office_id}",
	}
}

// ReadResource handles resource read requests
func (h *Handlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if request == nil || request.Params == nil || request.Params.URI == "" {
		return nil, fmt.Errorf("resource URI is required")
	}
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	switch {
	case len(parts) == 1 && parts[0] == "owners":
		owners, err := h.store.ListOwners(ctx, h.userID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch owners: %w", err)
		}
		return jsonResource(uri, ListOwnersOutput{Owners: ownersToOutput(owners)})

	case len(parts) == 2 && parts[0] == "owners":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid owner ID: %w", err)
		}
		_, out, err := h.OwnerSummary(ctx, nil, OwnerSummaryInput{OwnerID: id.String()})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, out)

	case len(parts) == 2 && parts[0] == "offices":
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid office ID: %w", err)
		}
		_, out, err := h.OfficeSummary(ctx, nil, OfficeSummaryInput{OfficeID: id.String()})
		if err != nil {
			return nil, err
		}
		return jsonResource(uri, out)
	}

	return nil, fmt.Errorf("unknown resource: %s", uri)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server on stdio for one user
package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/handlers"
)

// NewMCPServer builds the server with every tool and resource registered.
func NewMCPServer(store *db.Store, userID uuid.UUID, version string) *mcp.Server {
	h := handlers.NewHandlers(store, userID)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "officecrm",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_owner",
		Description: "Add a new owner",
	}, h.AddOwner)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_office",
		Description: "Add an office under an owner",
	}, h.AddOffice)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_employee",
		Description: "Add an employee to an office",
	}, h.AddEmployee)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_owner",
		Description: "Change an owner's name or email",
	}, h.UpdateOwner)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_office",
		Description: "Change an office's name, number or address; offices never move between owners",
	}, h.UpdateOffice)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_employee",
		Description: "Change an employee's name, position, email or potential",
	}, h.UpdateEmployee)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_owners",
		Description: "List every owner with their last contacted time",
	}, h.ListOwners)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_owner",
		Description: "Delete an owner with all of their offices, employees and reports",
	}, h.DeleteOwner)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_employee",
		Description: "Delete an employee; their reports stay attached to the office",
	}, h.DeleteEmployee)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_report",
		Description: "Log a report against an employee, office or owner and update last contacted up the hierarchy",
	}, h.LogReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_report",
		Description: "Fetch a single report by ID",
	}, h.GetReport)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "home_summary",
		Description: "Trailing activity windows, this and last ISO week, month to date, recent reports, owners and offices",
	}, h.HomeSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "owner_summary",
		Description: "One owner with offices, recent reports and field visit count",
	}, h.OwnerSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "office_summary",
		Description: "One office with employees, recent reports, average vibe and field visit count",
	}, h.OfficeSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "activity_matrix",
		Description: "Owner by calltype report counts plus field visits for a date range",
	}, h.ActivityMatrix)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hierarchy_graph",
		Description: "GraphViz DOT source for the owner/office/employee hierarchy",
	}, h.HierarchyGraph)

	server.AddResource(handlers.OwnersResource(), h.ReadResource)
	server.AddResourceTemplate(handlers.OwnerResourceTemplate(), h.ReadResource)
	server.AddResourceTemplate(handlers.OfficeResourceTemplate(), h.ReadResource)

	return server
}

// MCPCommand starts the MCP server on stdio.
func MCPCommand(ctx context.Context, store *db.Store, userID uuid.UUID, version string, logger *zap.Logger) error {
	logger.Info("starting MCP server", zap.String("user_id", userID.String()))
	return NewMCPServer(store, userID, version).Run(ctx, &mcp.StdioTransport{})
}

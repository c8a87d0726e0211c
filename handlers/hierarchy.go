// ABOUTME: Owner, office and employee MCP tool handlers
// ABOUTME: Implements the add, update, list and delete tools for the hierarchy
package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handlers serves every tool for a single acting user.
type Handlers struct {
	store  *db.Store
	userID uuid.UUID
}

func NewHandlers(store *db.Store, userID uuid.UUID) *Handlers {
	return &Handlers{store: store, userID: userID}
}

// parseID reports bad ids as validation failures so transports can
// tell them apart from store errors.
func parseID(field, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fieldError(field, "is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fieldError(field, fmt.Sprintf("must be a UUID (got %q)", value))
	}
	return id, nil
}

func fieldError(field, message string) error {
	return &models.ValidationError{Fields: []models.FieldError{{Field: field, Message: message}}}
}

type AddOwnerInput struct {
	Name  string `json:"name" jsonschema:"Owner name (required)"`
	Email string `json:"email,omitempty" jsonschema:"Owner contact email"`
}

func (h *Handlers) AddOwner(ctx context.Context, request *mcp.CallToolRequest, input AddOwnerInput) (*mcp.CallToolResult, OwnerOutput, error) {
	owner := &models.Owner{Name: input.Name, Email: input.Email}
	if err := h.store.CreateOwner(ctx, h.userID, owner); err != nil {
		return nil, OwnerOutput{}, fmt.Errorf("failed to create owner: %w", err)
	}
	return nil, ownerToOutput(owner), nil
}

type AddOfficeInput struct {
	OwnerID string `json:"owner_id" jsonschema:"UUID of the owning owner (required)"`
	Name    string `json:"name" jsonschema:"Office name (required)"`
	Number  int    `json:"number" jsonschema:"Office number between 1 and 100 (required)"`
	Address string `json:"address" jsonschema:"Street address (required)"`
	City    string `json:"city" jsonschema:"City (required)"`
	State   string `json:"state" jsonschema:"State (required)"`
	ZipCode string `json:"zip_code" jsonschema:"ZIP code (required)"`
}

func (h *Handlers) AddOffice(ctx context.Context, request *mcp.CallToolRequest, input AddOfficeInput) (*mcp.CallToolResult, OfficeOutput, error) {
	ownerID, err := parseID("owner_id", input.OwnerID)
	if err != nil {
		return nil, OfficeOutput{}, err
	}

	office := &models.Office{
		Name:    input.Name,
		Number:  input.Number,
		Address: input.Address,
		City:    input.City,
		State:   input.State,
		ZipCode: input.ZipCode,
	}
	if err := h.store.CreateOffice(ctx, h.userID, ownerID, office); err != nil {
		return nil, OfficeOutput{}, fmt.Errorf("failed to create office: %w", err)
	}
	return nil, officeToOutput(office), nil
}

type AddEmployeeInput struct {
	OfficeID  string `json:"office_id" jsonschema:"UUID of the employee's office (required)"`
	Name      string `json:"name" jsonschema:"Employee name (required)"`
	Position  string `json:"position" jsonschema:"Job title (required)"`
	Email     string `json:"email,omitempty" jsonschema:"Employee email"`
	Potential int    `json:"potential,omitempty" jsonschema:"Potential rating 1-10 (default 5)"`
}

func (h *Handlers) AddEmployee(ctx context.Context, request *mcp.CallToolRequest, input AddEmployeeInput) (*mcp.CallToolResult, EmployeeOutput, error) {
	officeID, err := parseID("office_id", input.OfficeID)
	if err != nil {
		return nil, EmployeeOutput{}, err
	}

	emp := &models.Employee{
		Name:      input.Name,
		Position:  input.Position,
		Email:     input.Email,
		Potential: input.Potential,
	}
	if err := h.store.CreateEmployee(ctx, h.userID, officeID, emp); err != nil {
		return nil, EmployeeOutput{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return nil, employeeToOutput(emp), nil
}

// Update inputs treat empty strings and zero numbers as "unchanged".

type UpdateOwnerInput struct {
	OwnerID string `json:"owner_id" jsonschema:"UUID of the owner to update (required)"`
	Name    string `json:"name,omitempty" jsonschema:"New owner name"`
	Email   string `json:"email,omitempty" jsonschema:"New contact email"`
}

func (h *Handlers) UpdateOwner(ctx context.Context, request *mcp.CallToolRequest, input UpdateOwnerInput) (*mcp.CallToolResult, OwnerOutput, error) {
	ownerID, err := parseID("owner_id", input.OwnerID)
	if err != nil {
		return nil, OwnerOutput{}, err
	}

	owner, err := h.store.GetOwner(ctx, h.userID, ownerID)
	if err != nil {
		return nil, OwnerOutput{}, fmt.Errorf("failed to get owner: %w", err)
	}
	if input.Name != "" {
		owner.Name = input.Name
	}
	if input.Email != "" {
		owner.Email = input.Email
	}

	if err := h.store.UpdateOwner(ctx, h.userID, owner); err != nil {
		return nil, OwnerOutput{}, fmt.Errorf("failed to update owner: %w", err)
	}
	return nil, ownerToOutput(owner), nil
}

type UpdateOfficeInput struct {
	OfficeID string `json:"office_id" jsonschema:"UUID of the office to update (required)"`
	Name     string `json:"name,omitempty" jsonschema:"New office name"`
	Number   int    `json:"number,omitempty" jsonschema:"New office number between 1 and 100"`
	Address  string `json:"address,omitempty" jsonschema:"New street address"`
	City     string `json:"city,omitempty" jsonschema:"New city"`
	State    string `json:"state,omitempty" jsonschema:"New state"`
	ZipCode  string `json:"zip_code,omitempty" jsonschema:"New ZIP code"`
}

func (h *Handlers) UpdateOffice(ctx context.Context, request *mcp.CallToolRequest, input UpdateOfficeInput) (*mcp.CallToolResult, OfficeOutput, error) {
	officeID, err := parseID("office_id", input.OfficeID)
	if err != nil {
		return nil, OfficeOutput{}, err
	}

	office, err := h.store.GetOffice(ctx, h.userID, officeID)
	if err != nil {
		return nil, OfficeOutput{}, fmt.Errorf("failed to get office: %w", err)
	}
	if input.Name != "" {
		office.Name = input.Name
	}
	if input.Number != 0 {
		office.Number = input.Number
	}
	if input.Address != "" {
		office.Address = input.Address
	}
	if input.City != "" {
		office.City = input.City
	}
	if input.State != "" {
		office.State = input.State
	}
	if input.ZipCode != "" {
		office.ZipCode = input.ZipCode
	}

	if err := h.store.UpdateOffice(ctx, h.userID, office); err != nil {
		return nil, OfficeOutput{}, fmt.Errorf("failed to update office: %w", err)
	}
	return nil, officeToOutput(office), nil
}

type UpdateEmployeeInput struct {
	EmployeeID string `json:"employee_id" jsonschema:"UUID of the employee to update (required)"`
	Name       string `json:"name,omitempty" jsonschema:"New employee name"`
	Position   string `json:"position,omitempty" jsonschema:"New job title"`
	Email      string `json:"email,omitempty" jsonschema:"New employee email"`
	Potential  int    `json:"potential,omitempty" jsonschema:"New potential rating 1-10"`
}

func (h *Handlers) UpdateEmployee(ctx context.Context, request *mcp.CallToolRequest, input UpdateEmployeeInput) (*mcp.CallToolResult, EmployeeOutput, error) {
	employeeID, err := parseID("employee_id", input.EmployeeID)
	if err != nil {
		return nil, EmployeeOutput{}, err
	}

	emp, err := h.store.GetEmployee(ctx, h.userID, employeeID)
	if err != nil {
		return nil, EmployeeOutput{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if input.Name != "" {
		emp.Name = input.Name
	}
	if input.Position != "" {
		emp.Position = input.Position
	}
	if input.Email != "" {
		emp.Email = input.Email
	}
	if input.Potential != 0 {
		emp.Potential = input.Potential
	}

	if err := h.store.UpdateEmployee(ctx, h.userID, emp); err != nil {
		return nil, EmployeeOutput{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return nil, employeeToOutput(emp), nil
}

type ListOwnersInput struct{}

type ListOwnersOutput struct {
	Owners []OwnerOutput `json:"owners"`
}

func (h *Handlers) ListOwners(ctx context.Context, request *mcp.CallToolRequest, input ListOwnersInput) (*mcp.CallToolResult, ListOwnersOutput, error) {
	owners, err := h.store.ListOwners(ctx, h.userID)
	if err != nil {
		return nil, ListOwnersOutput{}, fmt.Errorf("failed to list owners: %w", err)
	}
	return nil, ListOwnersOutput{Owners: ownersToOutput(owners)}, nil
}

type DeleteOwnerInput struct {
	OwnerID string `json:"owner_id" jsonschema:"UUID of the owner to delete with all offices, employees and reports (required)"`
}

type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *Handlers) DeleteOwner(ctx context.Context, request *mcp.CallToolRequest, input DeleteOwnerInput) (*mcp.CallToolResult, DeleteOutput, error) {
	ownerID, err := parseID("owner_id", input.OwnerID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.store.DeleteOwner(ctx, h.userID, ownerID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete owner: %w", err)
	}
	return nil, DeleteOutput{ID: ownerID.String(), Deleted: true}, nil
}

type DeleteEmployeeInput struct {
	EmployeeID string `json:"employee_id" jsonschema:"UUID of the employee to delete; their reports are kept (required)"`
}

func (h *Handlers) DeleteEmployee(ctx context.Context, request *mcp.CallToolRequest, input DeleteEmployeeInput) (*mcp.CallToolResult, DeleteOutput, error) {
	employeeID, err := parseID("employee_id", input.EmployeeID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.store.DeleteEmployee(ctx, h.userID, employeeID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil, DeleteOutput{ID: employeeID.String(), Deleted: true}, nil
}

// UserID is the user every tool acts as.
func (h *Handlers) UserID() uuid.UUID {
	return h.userID
}

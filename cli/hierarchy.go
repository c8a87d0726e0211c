// ABOUTME: Hierarchy CLI commands
// ABOUTME: Human-friendly commands for users, owners, offices and employees
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
)

// AddUserCommand creates a tenant.
func AddUserCommand(ctx context.Context, store *db.Store, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("add-user", flag.ContinueOnError)
	name := fs.String("name", "", "Username (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	user := &models.User{Username: *name}
	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(w, "✓ User created: %s (ID: %s)\n", user.Username, user.ID)
	return nil
}

// AddOwnerCommand adds an owner for the current user.
func AddOwnerCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("add-owner", flag.ContinueOnError)
	name := fs.String("name", "", "Owner name (required)")
	email := fs.String("email", "", "Email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	owner := &models.Owner{Name: *name, Email: *email}
	if err := store.CreateOwner(ctx, userID, owner); err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}
	fmt.Fprintf(w, "✓ Owner created: %s (ID: %s)\n", owner.Name, owner.ID)
	return nil
}

// AddOfficeCommand adds an office under an owner.
func AddOfficeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("add-office", flag.ContinueOnError)
	ownerArg := fs.String("owner", "", "Owner ID (required)")
	name := fs.String("name", "", "Office name (required)")
	number := fs.Int("number", 0, "Office number, 1-100 (required)")
	address := fs.String("address", "", "Street address (required)")
	city := fs.String("city", "", "City (required)")
	state := fs.String("state", "", "State (required)")
	zip := fs.String("zip", "", "Zip code (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerID, err := parseIDFlag("owner", *ownerArg)
	if err != nil {
		return err
	}

	office := &models.Office{
		Name:    *name,
		Number:  *number,
		Address: *address,
		City:    *city,
		State:   *state,
		ZipCode: *zip,
	}
	if err := store.CreateOffice(ctx, userID, ownerID, office); err != nil {
		return fmt.Errorf("failed to create office: %w", err)
	}
	fmt.Fprintf(w, "✓ Office created: %s #%d (ID: %s)\n", office.Name, office.Number, office.ID)
	return nil
}

// AddEmployeeCommand adds an employee to an office.
func AddEmployeeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("add-employee", flag.ContinueOnError)
	officeArg := fs.String("office", "", "Office ID (required)")
	name := fs.String("name", "", "Employee name (required)")
	position := fs.String("position", "", "Position (required)")
	email := fs.String("email", "", "Email address")
	potential := fs.Int("potential", 0, "Potential, 1-10 (default 5)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	officeID, err := parseIDFlag("office", *officeArg)
	if err != nil {
		return err
	}

	emp := &models.Employee{Name: *name, Position: *position, Email: *email, Potential: *potential}
	if err := store.CreateEmployee(ctx, userID, officeID, emp); err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	fmt.Fprintf(w, "✓ Employee created: %s, %s (ID: %s)\n", emp.Name, emp.Position, emp.ID)
	return nil
}

// EditOwnerCommand changes the owner's name or email. Only flags that
// were passed are applied, so --email "" clears the email.
func EditOwnerCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("edit-owner", flag.ContinueOnError)
	name := fs.String("name", "", "Owner name")
	email := fs.String("email", "", "Email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := editTarget(fs, "owner")
	if err != nil {
		return err
	}

	owner, err := store.GetOwner(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get owner: %w", err)
	}
	set := setFlags(fs)
	if set["name"] {
		owner.Name = *name
	}
	if set["email"] {
		owner.Email = *email
	}

	if err := store.UpdateOwner(ctx, userID, owner); err != nil {
		return fmt.Errorf("failed to update owner: %w", err)
	}
	fmt.Fprintf(w, "✓ Owner updated: %s (ID: %s)\n", owner.Name, owner.ID)
	return nil
}

// EditOfficeCommand changes an office's name, number or address. The
// office stays with its owner.
func EditOfficeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("edit-office", flag.ContinueOnError)
	name := fs.String("name", "", "Office name")
	number := fs.Int("number", 0, "Office number, 1-100")
	address := fs.String("address", "", "Street address")
	city := fs.String("city", "", "City")
	state := fs.String("state", "", "State")
	zip := fs.String("zip", "", "Zip code")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := editTarget(fs, "office")
	if err != nil {
		return err
	}

	office, err := store.GetOffice(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get office: %w", err)
	}
	set := setFlags(fs)
	if set["name"] {
		office.Name = *name
	}
	if set["number"] {
		office.Number = *number
	}
	if set["address"] {
		office.Address = *address
	}
	if set["city"] {
		office.City = *city
	}
	if set["state"] {
		office.State = *state
	}
	if set["zip"] {
		office.ZipCode = *zip
	}

	if err := store.UpdateOffice(ctx, userID, office); err != nil {
		return fmt.Errorf("failed to update office: %w", err)
	}
	fmt.Fprintf(w, "✓ Office updated: %s #%d (ID: %s)\n", office.Name, office.Number, office.ID)
	return nil
}

// EditEmployeeCommand changes an employee's details. The employee stays
// in their office.
func EditEmployeeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("edit-employee", flag.ContinueOnError)
	name := fs.String("name", "", "Employee name")
	position := fs.String("position", "", "Position")
	email := fs.String("email", "", "Email address")
	potential := fs.Int("potential", 0, "Potential, 1-10")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := editTarget(fs, "employee")
	if err != nil {
		return err
	}

	emp, err := store.GetEmployee(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to get employee: %w", err)
	}
	set := setFlags(fs)
	if set["name"] {
		emp.Name = *name
	}
	if set["position"] {
		emp.Position = *position
	}
	if set["email"] {
		emp.Email = *email
	}
	if set["potential"] {
		emp.Potential = *potential
	}

	if err := store.UpdateEmployee(ctx, userID, emp); err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	fmt.Fprintf(w, "✓ Employee updated: %s, %s (ID: %s)\n", emp.Name, emp.Position, emp.ID)
	return nil
}

// ListOwnersCommand prints every owner of the current user.
func ListOwnersCommand(ctx context.Context, store *db.Store, userID uuid.UUID, w io.Writer) error {
	owners, err := store.ListOwners(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list owners: %w", err)
	}
	if len(owners) == 0 {
		fmt.Fprintln(w, "No owners found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tLAST CONTACTED\tID")
	fmt.Fprintln(tw, "----\t-----\t--------------\t--")
	for _, o := range owners {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Name, orDash(o.Email), formatWhen(o.LastContacted), o.ID)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nTotal: %d owner(s)\n", len(owners))
	return nil
}

// DeleteOwnerCommand removes an owner and everything beneath it.
func DeleteOwnerCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	id, err := positionalID("delete-owner", "owner", args)
	if err != nil {
		return err
	}
	if err := store.DeleteOwner(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete owner: %w", err)
	}
	fmt.Fprintf(w, "✓ Owner deleted: %s\n", id)
	return nil
}

// DeleteEmployeeCommand removes an employee; their reports are kept.
func DeleteEmployeeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	id, err := positionalID("delete-employee", "employee", args)
	if err != nil {
		return err
	}
	if err := store.DeleteEmployee(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	fmt.Fprintf(w, "✓ Employee deleted: %s\n", id)
	return nil
}

func parseIDFlag(name, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", name)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", name, err)
	}
	return id, nil
}

func positionalID(command, kind string, args []string) (uuid.UUID, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return uuid.Nil, err
	}
	if fs.NArg() < 1 {
		return uuid.Nil, fmt.Errorf("%s ID required", kind)
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return id, nil
}

// editTarget reads the ID that follows the flags of an edit command.
func editTarget(fs *flag.FlagSet, kind string) (uuid.UUID, error) {
	if fs.NArg() < 1 {
		return uuid.Nil, fmt.Errorf("%s ID required", kind)
	}
	id, err := uuid.Parse(fs.Arg(0))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s ID: %w", kind, err)
	}
	return id, nil
}

// setFlags names the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

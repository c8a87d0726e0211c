// ABOUTME: Field validation for hierarchy entities and report input
// ABOUTME: Collects every offending field into a single ValidationError
package models

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input violates a field constraint.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type validator struct {
	fields []FieldError
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.fields = append(v.fields, FieldError{Field: field, Message: "is required"})
	}
}

func (v *validator) between(field string, value, min, max int) {
	if value < min || value > max {
		v.fields = append(v.fields, FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d (got %d)", min, max, value),
		})
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func (u *User) Validate() error {
	var v validator
	v.required("username", u.Username)
	return v.err()
}

func (o *Owner) Validate() error {
	var v validator
	v.required("name", o.Name)
	return v.err()
}

func (o *Office) Validate() error {
	var v validator
	v.required("name", o.Name)
	v.between("number", o.Number, MinOfficeNumber, MaxOfficeNumber)
	v.required("address", o.Address)
	v.required("city", o.City)
	v.required("state", o.State)
	v.required("zip_code", o.ZipCode)
	return v.err()
}

// Validate checks the employee after defaults have been applied.
func (e *Employee) Validate() error {
	var v validator
	v.required("name", e.Name)
	v.required("position", e.Position)
	v.between("potential", e.Potential, MinRating, MaxRating)
	return v.err()
}

// ApplyDefaults fills zero-valued optional fields.
func (e *Employee) ApplyDefaults() {
	if e.Potential == 0 {
		e.Potential = DefaultPotential
	}
}

// ApplyDefaults fills zero-valued optional fields.
func (in *ReportInput) ApplyDefaults() {
	if in.Vibe == 0 {
		in.Vibe = DefaultVibe
	}
}

func (in *ReportInput) Validate() error {
	var v validator
	v.required("content", in.Content)
	if !in.CallType.Valid() {
		v.fields = append(v.fields, FieldError{
			Field:   "calltype",
			Message: fmt.Sprintf("must be one of phone, email, fov, teams, other (got %q)", in.CallType),
		})
	}
	v.between("vibe", in.Vibe, MinRating, MaxRating)
	switch in.Target.Kind {
	case TargetEmployee, TargetOffice, TargetOwner:
	default:
		v.fields = append(v.fields, FieldError{
			Field:   "target",
			Message: fmt.Sprintf("must be employee, office or owner (got %q)", in.Target.Kind),
		})
	}
	return v.err()
}

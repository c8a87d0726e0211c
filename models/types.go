// ABOUTME: Data models for the owner/office/employee hierarchy and reports
// ABOUTME: Defines User, Owner, Office, Employee, Report and the calltype enum
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Owner struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email,omitempty"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
}

type Office struct {
	ID            uuid.UUID  `json:"id"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Name          string     `json:"name"`
	Number        int        `json:"number"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	ZipCode       string     `json:"zip_code"`
	LastContacted *time.Time `json:"last_contacted,omitempty"`
}

// Employee carries OwnerID denormalized from its office; the store
// always derives it and never trusts a caller-supplied value.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	OfficeID  uuid.UUID `json:"office_id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Email     string    `json:"email,omitempty"`
	Potential int       `json:"potential"`
}

type Report struct {
	ID         uuid.UUID  `json:"id"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty"`
	OfficeID   *uuid.UUID `json:"office_id,omitempty"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	Subject    string     `json:"subject,omitempty"`
	Content    string     `json:"content"`
	CallType   CallType   `json:"calltype"`
	Vibe       int        `json:"vibe"`
	Transcript bool       `json:"transcript"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CallType is the communication channel of a report.
type CallType string

const (
	CallTypePhone CallType = "phone"
	CallTypeEmail CallType = "email"
	CallTypeFOV   CallType = "fov"
	CallTypeTeams CallType = "teams"
	CallTypeOther CallType = "other"
)

// CallTypes lists every calltype in display order. Activity matrix
// columns follow this order.
var CallTypes = []CallType{
	CallTypePhone,
	CallTypeEmail,
	CallTypeFOV,
	CallTypeTeams,
	CallTypeOther,
}

func (c CallType) Valid() bool {
	for _, ct := range CallTypes {
		if c == ct {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of a calltype.
func (c CallType) Label() string {
	switch c {
	case CallTypePhone:
		return "Phone"
	case CallTypeEmail:
		return "Email"
	case CallTypeFOV:
		return "Field Visit"
	case CallTypeTeams:
		return "Teams"
	case CallTypeOther:
		return "Other"
	}
	return string(c)
}

// ParseCallType normalizes s and returns the matching calltype.
func ParseCallType(s string) (CallType, error) {
	ct := CallType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", &ValidationError{Fields: []FieldError{{
			Field:   "calltype",
			Message: fmt.Sprintf("must be one of phone, email, fov, teams, other (got %q)", s),
		}}}
	}
	return ct, nil
}

// Rating defaults and bounds.
const (
	DefaultPotential = 5
	DefaultVibe      = 5
	MinRating        = 1
	MaxRating        = 10

	MinOfficeNumber = 1
	MaxOfficeNumber = 100
)

// TargetKind says which level of the hierarchy a report is logged against.
type TargetKind string

const (
	TargetEmployee TargetKind = "employee"
	TargetOffice   TargetKind = "office"
	TargetOwner    TargetKind = "owner"
)

// ReportTarget names the entity a report is logged against.
type ReportTarget struct {
	Kind TargetKind `json:"kind"`
	ID   uuid.UUID  `json:"id"`
}

// ReportInput is everything a caller may supply when logging a report.
// OfficeID is only honoured for owner-level reports, and only when the
// office belongs to the target owner.
type ReportInput struct {
	Target     ReportTarget
	Subject    string
	Content    string
	CallType   CallType
	Vibe       int
	Transcript bool
	OfficeID   *uuid.UUID
	CreatedAt  *time.Time
}

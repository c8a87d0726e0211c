// ABOUTME: Tests for hierarchy data models
// ABOUTME: Validates field constraints, calltype parsing, and date ranges
package models

import (
	"errors"
	"testing"
	"time"
)

func TestOfficeNumberBounds(t *testing.T) {
	base := Office{Name: "Suite", Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}

	cases := []struct {
		number int
		valid  bool
	}{
		{0, false},
		{1, true},
		{50, true},
		{100, true},
		{101, false},
	}

	for _, tc := range cases {
		office := base
		office.Number = tc.number
		err := office.Validate()
		if tc.valid && err != nil {
			t.Errorf("number %d: expected valid, got %v", tc.number, err)
		}
		if !tc.valid {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("number %d: expected ValidationError, got %v", tc.number, err)
			}
			if verr.Fields[0].Field != "number" {
				t.Errorf("number %d: expected number field error, got %s", tc.number, verr.Fields[0].Field)
			}
		}
	}
}

func TestOfficeReportsEveryMissingField(t *testing.T) {
	office := Office{Number: 5}
	err := office.Validate()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(verr.Fields), verr)
	}
}

func TestEmployeeDefaultsAndBounds(t *testing.T) {
	emp := Employee{Name: "Jane Doe", Position: "Manager"}
	emp.ApplyDefaults()
	if emp.Potential != DefaultPotential {
		t.Errorf("expected default potential %d, got %d", DefaultPotential, emp.Potential)
	}
	if err := emp.Validate(); err != nil {
		t.Errorf("expected valid employee, got %v", err)
	}

	emp.Potential = 11
	if err := emp.Validate(); err == nil {
		t.Error("expected potential 11 to be rejected")
	}
}

func TestReportInputValidation(t *testing.T) {
	in := ReportInput{
		Target:   ReportTarget{Kind: TargetOwner},
		Content:  "Quarterly check-in",
		CallType: CallTypePhone,
	}
	in.ApplyDefaults()
	if in.Vibe != DefaultVibe {
		t.Errorf("expected default vibe %d, got %d", DefaultVibe, in.Vibe)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	in.CallType = "carrier-pigeon"
	in.Content = " "
	err := in.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("expected content and calltype errors, got %v", verr)
	}
}

func TestParseCallType(t *testing.T) {
	ct, err := ParseCallType(" FOV ")
	if err != nil {
		t.Fatalf("ParseCallType failed: %v", err)
	}
	if ct != CallTypeFOV {
		t.Errorf("expected fov, got %s", ct)
	}

	if _, err := ParseCallType("fax"); err == nil {
		t.Error("expected fax to be rejected")
	}
}

func TestDateRange(t *testing.T) {
	var empty DateRange
	if empty.Active() {
		t.Error("range with no bounds should be inactive")
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	startOnly := DateRange{Start: &start}
	if !startOnly.Active() {
		t.Error("range with a start bound should be active")
	}

	r := DateRange{Start: &start, End: &end}
	if !r.Contains(start) || !r.Contains(end) {
		t.Error("bounds should be inclusive")
	}
	if r.Contains(start.Add(-time.Millisecond)) {
		t.Error("instant before start should be excluded")
	}
	if r.Contains(end.Add(time.Millisecond)) {
		t.Error("instant after end should be excluded")
	}
}

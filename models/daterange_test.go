package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}

	wantStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 3, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	if !r.Start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, r.Start)
	}
	if !r.End.Equal(wantEnd) {
		t.Errorf("expected end %v, got %v", wantEnd, r.End)
	}
	if !r.Contains(time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)) {
		t.Error("a report late on the end day must be in range")
	}
}

func TestParseDateRangeOpenBounds(t *testing.T) {
	r, err := ParseDateRange("", "")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if r.Active() {
		t.Error("empty input should give an inactive range")
	}

	r, err = ParseDateRange("", "2025-03-31")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if r.Start != nil || r.End == nil {
		t.Errorf("expected end-only range, got %+v", r)
	}
}

func TestParseDateRangeErrors(t *testing.T) {
	cases := []struct {
		start, end string
		fields     int
	}{
		{"03/01/2025", "", 1},
		{"2025-03-01", "nope", 1},
		{"bad", "worse", 2},
		{"2025-03-31", "2025-03-01", 1},
	}
	for _, tc := range cases {
		_, err := ParseDateRange(tc.start, tc.end)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%q..%q: expected ValidationError, got %v", tc.start, tc.end, err)
		}
		if len(verr.Fields) != tc.fields {
			t.Errorf("%q..%q: expected %d field errors, got %v", tc.start, tc.end, tc.fields, verr)
		}
	}
}

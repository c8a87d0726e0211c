// ABOUTME: Parsing of calendar-day date ranges supplied by users
// ABOUTME: Days are UTC; the end day is widened to its last millisecond
package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted day format.
const DateLayout = "2006-01-02"

// ParseDateRange parses optional start and end days. Empty strings leave
// the bound open. The end bound covers the whole end day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var v validator

	if s := strings.TrimSpace(start); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			v.fields = append(v.fields, FieldError{Field: "start", Message: fmt.Sprintf("must be YYYY-MM-DD (got %q)", start)})
		} else {
			r.Start = &t
		}
	}

	if s := strings.TrimSpace(end); s != "" {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			v.fields = append(v.fields, FieldError{Field: "end", Message: fmt.Sprintf("must be YYYY-MM-DD (got %q)", end)})
		} else {
			endOfDay := t.AddDate(0, 0, 1).Add(-time.Millisecond)
			r.End = &endOfDay
		}
	}

	if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		v.fields = append(v.fields, FieldError{Field: "end", Message: "must not be before start"})
	}

	if err := v.err(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ABOUTME: Terminal dashboard rendering
// ABOUTME: ASCII views of the home, owner and office summaries and the activity matrix
package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/officecrm/models"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

func header(out *strings.Builder, title string) {
	out.WriteString(rule)
	out.WriteString("  " + title + "\n")
	out.WriteString(rule + "\n")
}

// RenderHome renders the landing dashboard.
func RenderHome(summary *models.HomeSummary) string {
	var out strings.Builder
	header(&out, "OFFICE CRM DASHBOARD")

	out.WriteString("ACTIVITY\n")
	renderWindows(&out, summary.Counts)
	out.WriteString("\n")

	out.WriteString(fmt.Sprintf("  this week  %3d reports  %3d visits\n",
		summary.Counts.ThisWeek.Reports, summary.Counts.ThisWeek.FOVs))
	out.WriteString(fmt.Sprintf("  last week  %3d reports  %3d visits\n",
		summary.Counts.LastWeek.Reports, summary.Counts.LastWeek.FOVs))
	out.WriteString(fmt.Sprintf("  this month %3d reports  %3d visits\n\n",
		summary.Counts.ThisMonth.Reports, summary.Counts.ThisMonth.FOVs))

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  %d owners  %d offices\n\n", len(summary.Owners), len(summary.Offices)))

	if stale := staleOwners(summary.Owners, summary.Counts.Now); len(stale) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d owners - no contact in 30+ days\n\n", len(stale)))
	}

	out.WriteString("RECENT REPORTS\n")
	renderReports(&out, summary.RecentReports)
	return out.String()
}

func renderWindows(out *strings.Builder, counts models.ActivityCounts) {
	maxCount := 0
	for _, w := range counts.Windows {
		if w.Reports > maxCount {
			maxCount = w.Reports
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, w := range counts.Windows {
		barLength := (w.Reports * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-9s %s  %3d (%d visits)\n", windowLabel(w.Days), bar, w.Reports, w.FOVs))
	}
}

func windowLabel(days int) string {
	switch days {
	case 1:
		return "24 hours"
	case 365:
		return "year"
	}
	return fmt.Sprintf("%d days", days)
}

// staleOwners returns owners never contacted or not contacted for 30 days.
func staleOwners(owners []models.Owner, now time.Time) []models.Owner {
	var stale []models.Owner
	for _, owner := range owners {
		if owner.LastContacted == nil || now.Sub(*owner.LastContacted) > 30*24*time.Hour {
			stale = append(stale, owner)
		}
	}
	return stale
}

func renderReports(out *strings.Builder, reports []models.Report) {
	if len(reports) == 0 {
		out.WriteString("  (none)\n")
		return
	}
	for _, r := range reports {
		title := r.Subject
		if title == "" {
			title = truncate(r.Content, 40)
		}
		out.WriteString(fmt.Sprintf("  %s  %-11s  vibe %2d  %s\n",
			r.CreatedAt.Format("2006-01-02"), r.CallType.Label(), r.Vibe, title))
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func formatLastContacted(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}

// RenderOwnerSummary renders one owner with their offices.
func RenderOwnerSummary(summary *models.OwnerSummary) string {
	var out strings.Builder
	header(&out, strings.ToUpper(summary.Owner.Name))

	if summary.Owner.Email != "" {
		out.WriteString(fmt.Sprintf("  email           %s\n", summary.Owner.Email))
	}
	out.WriteString(fmt.Sprintf("  last contacted  %s\n", formatLastContacted(summary.Owner.LastContacted)))
	out.WriteString(fmt.Sprintf("  field visits    %d\n\n", summary.FOVCount))

	out.WriteString("OFFICES\n")
	if len(summary.Offices) == 0 {
		out.WriteString("  (none)\n")
	}
	for _, office := range summary.Offices {
		out.WriteString(fmt.Sprintf("  #%-3d %-24s %s, %s  last %s\n",
			office.Number, office.Name, office.City, office.State, formatLastContacted(office.LastContacted)))
	}
	out.WriteString("\nRECENT REPORTS\n")
	renderReports(&out, summary.RecentReports)
	return out.String()
}

// RenderOfficeSummary renders one office with its employees.
func RenderOfficeSummary(summary *models.OfficeSummary) string {
	var out strings.Builder
	office := summary.Office
	header(&out, fmt.Sprintf("%s (#%d)", strings.ToUpper(office.Name), office.Number))

	out.WriteString(fmt.Sprintf("  %s, %s, %s %s\n", office.Address, office.City, office.State, office.ZipCode))
	out.WriteString(fmt.Sprintf("  last contacted  %s\n", formatLastContacted(office.LastContacted)))
	out.WriteString(fmt.Sprintf("  field visits    %d\n", summary.FOVCount))
	if summary.AverageVibe != nil {
		out.WriteString(fmt.Sprintf("  average vibe    %.1f\n\n", *summary.AverageVibe))
	} else {
		out.WriteString("  average vibe    n/a\n\n")
	}

	out.WriteString("EMPLOYEES\n")
	if len(summary.Employees) == 0 {
		out.WriteString("  (none)\n")
	}
	for _, emp := range summary.Employees {
		out.WriteString(fmt.Sprintf("  %-24s %-20s potential %2d\n", emp.Name, emp.Position, emp.Potential))
	}
	out.WriteString("\nRECENT REPORTS\n")
	renderReports(&out, summary.RecentReports)
	return out.String()
}

// RenderActivity renders the owner x calltype matrix followed by the
// field visits in the same range.
func RenderActivity(report *models.ActivityReport) string {
	var out strings.Builder
	header(&out, "ACTIVITY")

	m := report.Matrix
	if !m.Active {
		out.WriteString("  Choose a start or end date to see activity.\n")
		return out.String()
	}
	out.WriteString("  " + describeRange(m.Range) + "\n\n")

	nameWidth := len("Owner")
	for _, row := range m.Rows {
		if n := len([]rune(row.OwnerName)); n > nameWidth {
			nameWidth = n
		}
	}

	out.WriteString(fmt.Sprintf("  %-*s", nameWidth, "Owner"))
	for _, ct := range m.CallTypes {
		out.WriteString(fmt.Sprintf(" %7s", ct))
	}
	out.WriteString(fmt.Sprintf(" %7s\n", "total"))

	for _, row := range m.Rows {
		out.WriteString(fmt.Sprintf("  %-*s", nameWidth, row.OwnerName))
		for _, ct := range m.CallTypes {
			out.WriteString(fmt.Sprintf(" %7d", row.Counts[ct]))
		}
		out.WriteString(fmt.Sprintf(" %7d\n", row.Total))
	}

	out.WriteString(fmt.Sprintf("  %-*s", nameWidth, "Total"))
	for _, ct := range m.CallTypes {
		out.WriteString(fmt.Sprintf(" %7d", m.ColumnTotals[ct]))
	}
	out.WriteString(fmt.Sprintf(" %7d\n\n", m.GrandTotal))

	out.WriteString("FIELD VISITS\n")
	renderReports(&out, report.FOVReports)
	return out.String()
}

func describeRange(r models.DateRange) string {
	start, end := "beginning", "now"
	if r.Start != nil {
		start = r.Start.Format(models.DateLayout)
	}
	if r.End != nil {
		end = r.End.Format(models.DateLayout)
	}
	return start + " → " + end
}

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jakechorley/working-groups/pkg/core/model"
	"github.com/jakechorley/working-groups/pkg/core/services"
	"github.com/jakechorley/working-groups/pkg/db"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	fragileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// RenderAllocation formats the groups, unplaced members and warnings of an allocation
func RenderAllocation(result *services.AllocateGroupsResult) string {
	outcome := result.Outcome
	var b strings.Builder

	status := okStyle.Render("✓ Allocation complete")
	if !outcome.Success {
		status = warnStyle.Render("⚠ Allocation incomplete")
	}
	fmt.Fprintf(&b, "\n%s\n\n", status)
	fmt.Fprintf(&b, "Seed:    %s\n", result.Seed)
	if result.Saved {
		fmt.Fprintf(&b, "Run ID:  %s\n", result.RunID)
	} else {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render("Dry run, nothing saved"))
	}
	fmt.Fprintf(&b, "Placed:  %d of %d members\n\n", outcome.PlacedCount(), len(result.Members))

	for _, group := range outcome.Groups {
		fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(group.Name), dimStyle.Render("weeks "+joinInts(group.Weeks)))

		t := newTable("ID", "Name", "Household", "Score", "Weight").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if row < len(group.Members) && group.Members[row].IsFragile() {
					return fragileStyle
				}
				return cellStyle
			})
		for _, m := range group.Members {
			t.Row(m.ID, m.Name, m.Household, strconv.Itoa(m.Score), formatWeight(m.Weight))
		}
		b.WriteString(t.String())
		b.WriteString("\n\n")
	}

	if len(outcome.Unplaced) > 0 {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render(fmt.Sprintf("%d members could not be placed:", len(outcome.Unplaced))))
		for _, u := range outcome.Unplaced {
			fmt.Fprintf(&b, "  ✗ %s (%s): %s\n", u.Member.Name, u.Member.ID, u.Reason)
		}
		b.WriteString("\n")
	}

	if len(outcome.DuplicateNames) > 0 {
		fmt.Fprintf(&b, "%s %s\n\n", warnStyle.Render("Duplicate group names:"), strings.Join(outcome.DuplicateNames, ", "))
	}

	if len(outcome.ValidationErrors) > 0 {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render("Validation errors:"))
		for _, verr := range outcome.ValidationErrors {
			fmt.Fprintf(&b, "  ✗ group %s [%s] %s\n", verr.GroupID, verr.ConstraintName, verr.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderMembers formats eligible and excluded members
func RenderMembers(result *services.MembersResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nFound %d eligible members:\n\n", len(result.Eligible))
	b.WriteString(memberTable(result.Eligible).String())
	b.WriteString("\n")

	if len(result.Excluded) > 0 {
		fmt.Fprintf(&b, "\n%s\n\n", dimStyle.Render(fmt.Sprintf("%d members excluded (weight 0 or below):", len(result.Excluded))))
		b.WriteString(memberTable(result.Excluded).String())
		b.WriteString("\n")
	}

	return b.String()
}

func memberTable(members []model.Member) *table.Table {
	t := newTable("ID", "Name", "Household", "Score", "Weight", "Unavailable")
	for _, m := range members {
		t.Row(m.ID, m.Name, m.Household, strconv.Itoa(m.Score), formatWeight(m.Weight), joinInts(m.Weeks))
	}
	return t
}

// RenderRuns formats a list of stored runs
func RenderRuns(runs []db.AllocationRun) string {
	if len(runs) == 0 {
		return "\nNo allocation runs recorded yet.\n"
	}

	t := newTable("Run ID", "Created", "Seed", "Groups", "Members", "Placed", "Unplaced")
	for _, run := range runs {
		t.Row(
			run.ID,
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Seed,
			strconv.Itoa(run.GroupCount),
			strconv.Itoa(run.MemberCount),
			strconv.Itoa(run.PlacedCount),
			strconv.Itoa(run.UnplacedCount),
		)
	}

	return "\n" + t.String() + "\n"
}

// RenderRun formats a stored run with its groups
func RenderRun(details *services.RunDetails) string {
	var b strings.Builder

	run := details.Run
	fmt.Fprintf(&b, "\n%s\n\n", titleStyle.Render("Run "+run.ID))
	fmt.Fprintf(&b, "Created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Seed:    %s\n", run.Seed)
	fmt.Fprintf(&b, "Placed:  %d of %d members\n\n", run.PlacedCount, run.MemberCount)

	for _, group := range details.Groups {
		fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(group.Name), dimStyle.Render("weeks "+group.Weeks))
		t := newTable("ID", "Name", "Household")
		for _, a := range group.Assignments {
			t.Row(a.MemberID, a.MemberName, a.Household)
		}
		b.WriteString(t.String())
		b.WriteString("\n\n")
	}

	if len(details.Unplaced) > 0 {
		fmt.Fprintf(&b, "%s\n", errorStyle.Render("Unplaced:"))
		for _, a := range details.Unplaced {
			fmt.Fprintf(&b, "  ✗ %s (%s)\n", a.MemberName, a.MemberID)
		}
	}

	return b.String()
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func formatWeight(weight float64) string {
	return strconv.FormatFloat(weight, 'f', -1, 64)
}

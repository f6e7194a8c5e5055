package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/custodia-labs/aipsync/internal/core/domain"
)

var summaryHeaders = []string{
	"Category", "Listed", "Fetched", "Up to date", "Not effective", "Bad type", "Failed", "Bundled",
}

// renderSummary formats a run report as a table followed by the bundle location.
func renderSummary(report *domain.SyncReport, st *Styles) string {
	rows := make([][]string, 0, len(report.Categories)+1)
	for _, c := range report.Categories {
		rows = append(rows, summaryRow(string(c.Category), c))
	}
	totals := report.Totals()
	rows = append(rows, summaryRow("Total", totals))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(st.Border).
		Headers(summaryHeaders...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return st.Cell
		})

	var b strings.Builder
	b.WriteString(st.Title.Render("Sync " + report.RunID))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, c := range report.Categories {
		if c.ListError != "" {
			fmt.Fprintf(&b, "%s\n", st.Error.Render(fmt.Sprintf("%s could not be listed: %s", c.Category, c.ListError)))
		}
	}

	if report.BundlePath != "" {
		fmt.Fprintf(&b, "%s %s (%d documents)\n",
			st.Success.Render("Bundle:"), report.BundlePath, len(report.Entries))
	} else {
		fmt.Fprintf(&b, "%s\n", st.Error.Render("Bundle was not written"))
	}
	if report.Published != "" {
		fmt.Fprintf(&b, "%s %s\n", st.Success.Render("Published:"), report.Published)
	}
	for _, e := range report.Dropped {
		fmt.Fprintf(&b, "%s\n", st.Warning.Render(fmt.Sprintf("Dropped %q; it will be fetched again next run", e.Label)))
	}
	if totals.Failed > 0 {
		fmt.Fprintf(&b, "%s\n", st.Warning.Render(fmt.Sprintf("%d documents failed; see the log", totals.Failed)))
	}
	fmt.Fprintf(&b, "%s\n", st.Muted.Render("Took "+report.Duration().Round(time.Millisecond).String()))
	return b.String()
}

func summaryRow(name string, c domain.CategoryReport) []string {
	return []string{
		name,
		strconv.Itoa(c.Listed),
		strconv.Itoa(c.Fetched),
		strconv.Itoa(c.UpToDate),
		strconv.Itoa(c.NotYetEffective),
		strconv.Itoa(c.InvalidContentType),
		strconv.Itoa(c.Failed),
		strconv.Itoa(c.Bundled),
	}
}

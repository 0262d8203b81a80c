package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/rowset"
)

var (
	accentColor = lipgloss.Color("#10B981")
	errorColor  = lipgloss.Color("#EF4444")
	mutedColor  = lipgloss.Color("#64748B")
	badgeColor  = lipgloss.Color("#8B5CF6")

	titleStyle = lipgloss.NewStyle().
			Foreground(badgeColor).
			Bold(true)

	positionStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)
)

// position describes where cur stands.
func position(cur database.Cursor) string {
	switch {
	case cur.Row() == 0 && !cur.IsBeforeFirst() && !cur.IsAfterLast():
		return "insert row"
	case cur.Size() == 0:
		return "empty"
	case cur.IsBeforeFirst():
		return "before first"
	case cur.IsAfterLast():
		return "after last"
	default:
		return fmt.Sprintf("row %d of %d", cur.Row(), cur.Size())
	}
}

// renderStatus is the one-line summary printed after every REPL command.
func renderStatus(name string, rs *rowset.FilteredRowSet) string {
	parts := []string{
		titleStyle.Render(name),
		positionStyle.Render(position(rs.Cursor())),
	}
	if f, ok := rs.Filter().(fmt.Stringer); ok {
		parts = append(parts, mutedStyle.Render("where "+f.String()))
	}
	return strings.Join(parts, " ")
}

// renderRow draws one row as a numbered column/value list.
func renderRow(row database.Row) string {
	om, ok := row.Primitive().(database.OrderedMap)
	if !ok {
		return rowStyle.Render(fmt.Sprintf("%v", row.Primitive()))
	}

	width := 0
	for _, col := range om.Keys() {
		if len(col) > width {
			width = len(col)
		}
	}

	lines := make([]string, 0, len(om))
	for i, kv := range om {
		label := mutedStyle.Render(fmt.Sprintf("%d %-*s", i+1, width, kv.Key))
		lines = append(lines, label+"  "+formatValue(kv.Val))
	}
	return rowStyle.Render(strings.Join(lines, "\n"))
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return mutedStyle.Render("null")
	case string:
		return fmt.Sprintf("%q", val)
	case database.OrderedMap:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

func renderError(err error) string {
	return errorStyle.Render("error:") + " " + err.Error()
}

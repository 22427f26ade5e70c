package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/camelcase"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/document"
)

// ── Palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
)

// PreviewWidth is the character width of the invoice preview.
const PreviewWidth = 72

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2).
			Width(PreviewWidth)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	totalStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
)

// RenderPreview draws the invoice content, and nothing else, for the
// terminal. Images are left out; the payment section prints its URI.
func RenderPreview(desc document.Description) string {
	inner := PreviewWidth - 6
	var b strings.Builder

	// ── Header ──
	meta := make([]string, 0, len(desc.Meta))
	for _, f := range desc.Meta {
		meta = append(meta, dimStyle.Render(f.Label+": ")+f.Value)
	}
	title := headerStyle.Render(desc.Title)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(inner/2).Render(title),
		lipgloss.NewStyle().Width(inner-inner/2).Align(lipgloss.Right).Render(strings.Join(meta, "\n")),
	))
	b.WriteString("\n" + separator(inner) + "\n\n")

	// ── Parties ──
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(inner/2).Render(party(desc.From)),
		lipgloss.NewStyle().Width(inner-inner/2).Render(party(desc.BillTo)),
	))
	b.WriteString("\n\n")

	// ── Items ──
	widths := columnWidths(desc.Columns, inner)
	cells := make([]string, len(desc.Columns))
	for i, col := range desc.Columns {
		cells[i] = cell(col.Header, widths[i], col.Align, titleStyle)
	}
	b.WriteString(strings.Join(cells, "") + "\n")
	b.WriteString(separator(inner) + "\n")
	for _, row := range desc.Rows {
		for i := range desc.Columns {
			v := ""
			if i < len(row.Cells) {
				v = row.Cells[i]
			}
			cells[i] = cell(v, widths[i], desc.Columns[i].Align, lipgloss.NewStyle())
		}
		b.WriteString(strings.Join(cells, "") + "\n")
		if row.Detail != "" {
			b.WriteString(cell("  "+row.Detail, inner, document.AlignLeft, dimStyle) + "\n")
		}
	}
	b.WriteString(separator(inner) + "\n")

	// ── Totals ──
	b.WriteString(RenderTotals(desc.Totals, inner))

	if p := desc.Payment; p != nil {
		b.WriteString("\n" + titleStyle.Render(p.Caption) + "\n")
		b.WriteString(dimStyle.Render(p.URI) + "\n")
	}
	if desc.Notes != "" {
		b.WriteString("\n" + titleStyle.Render("Notes") + "\n" + desc.Notes + "\n")
	}
	if desc.Terms != "" {
		b.WriteString("\n" + titleStyle.Render("Terms") + "\n" + desc.Terms + "\n")
	}
	b.WriteString("\n" + lipgloss.NewStyle().Width(inner).Align(lipgloss.Center).Italic(true).Render(desc.Footer))

	return boxStyle.Render(b.String()) + "\n"
}

// RenderTotals right-aligns the totals rows within width characters.
func RenderTotals(rows []document.TotalRow, width int) string {
	var b strings.Builder
	for _, r := range rows {
		label, value := dimStyle.Render(r.Label), r.Value
		switch {
		case r.Emphasis:
			label, value = totalStyle.Render(r.Label), totalStyle.Render(r.Value)
		case r.Negative:
			value = failStyle.Render(r.Value)
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(16).Render(label),
			lipgloss.NewStyle().Width(18).Align(lipgloss.Right).Render(value),
		)
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(line) + "\n")
	}
	return b.String()
}

// RenderViolations lists validation failures with readable field labels.
func RenderViolations(err *domain.ValidationError) string {
	if err == nil || len(err.Violations) == 0 {
		return "  " + passStyle.Render("Invoice is valid.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Validation") + "  ")
	b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d problems", len(err.Violations))) + "\n\n")
	for _, v := range err.Violations {
		fmt.Fprintf(&b, "    %s %s\n", failStyle.Render("●"), titleStyle.Render(FieldLabel(v.Field)))
		fmt.Fprintf(&b, "      %s\n", dimStyle.Render(v.Message))
	}
	b.WriteString("\n")
	return b.String()
}

// FieldLabel turns a violation path such as "Items[2].TaxRate" into
// "Item 3 › Tax Rate".
func FieldLabel(field string) string {
	parts := strings.Split(field, ".")
	for i, p := range parts {
		index := ""
		if open := strings.IndexByte(p, '['); open >= 0 && strings.HasSuffix(p, "]") {
			var n int
			if _, err := fmt.Sscanf(p[open+1:len(p)-1], "%d", &n); err == nil {
				index = fmt.Sprintf(" %d", n+1)
				p = strings.TrimSuffix(p[:open], "s")
			}
		}
		parts[i] = strings.Join(camelcase.Split(p), " ") + index
	}
	return strings.Join(parts, " › ")
}

// RenderHistory formats the export log for terminal output.
func RenderHistory(entries []domain.ExportEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No exports recorded.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Export History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n\n")

	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}
		stamp := e.Timestamp
		if len(stamp) > 10 {
			stamp = stamp[:10]
		}
		pages := "1 page"
		if e.Pages != 1 {
			pages = fmt.Sprintf("%d pages", e.Pages)
		}

		fmt.Fprintf(&b, "  %s  %s  %s  %s  %s\n",
			dimStyle.Render(stamp),
			faintStyle.Render(hash),
			titleStyle.Render(e.InvoiceNumber),
			pages,
			dimStyle.Render(e.Output),
		)
	}
	return b.String()
}

func party(p document.Party) string {
	lines := []string{dimStyle.Render(p.Heading), titleStyle.Render(p.Name)}
	return strings.Join(append(lines, p.Lines...), "\n")
}

func columnWidths(cols []document.Column, total int) []int {
	widths := make([]int, len(cols))
	used := 0
	for i, c := range cols {
		widths[i] = int(c.Weight * float64(total))
		used += widths[i]
	}
	if len(widths) > 0 {
		widths[0] += total - used
	}
	return widths
}

func cell(s string, width int, align document.Align, style lipgloss.Style) string {
	pos := lipgloss.Left
	switch align {
	case document.AlignRight:
		pos = lipgloss.Right
	case document.AlignCenter:
		pos = lipgloss.Center
	}
	if w := lipgloss.Width(s); w > width-1 && width > 1 {
		s = truncate(s, width-1)
	}
	return style.Width(width).Align(pos).Render(s)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func separator(width int) string {
	return faintStyle.Render(strings.Repeat("─", width))
}

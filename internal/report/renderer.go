package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Renderer serializes a DailyReport to bytes.
type Renderer interface {
	Render(r *DailyReport) ([]byte, error)
}

// ForFormat returns the renderer for "text", "markdown" or "json".
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextRenderer{}, nil
	case "markdown", "md":
		return &MarkdownRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q (want text, markdown or json)", format)
}

// JSONRenderer renders a DailyReport as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(rep *DailyReport) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// ParseJSON decodes a report written by JSONRenderer.
func ParseJSON(data []byte) (*DailyReport, error) {
	var rep DailyReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to parse JSON report: %w", err)
	}
	return &rep, nil
}

// MarkdownRenderer renders a DailyReport as a Markdown table.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(rep *DailyReport) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Study report: %s\n\n", rep.Date)

	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Study time: %s\n", FormatSeconds(rep.StudySeconds))
	fmt.Fprintf(&sb, "- Task hours: %.2f\n", rep.TotalHours)
	if rep.OpenTask != "" {
		fmt.Fprintf(&sb, "- In progress: %s\n", rep.OpenTask)
	}
	sb.WriteString("\n")

	sb.WriteString("## Tasks\n\n")
	sb.WriteString("| Task | Hours | Sessions |\n")
	sb.WriteString("|------|------:|---------:|\n")
	for _, row := range rep.Rows {
		fmt.Fprintf(&sb, "| %s | %.2f | %d |\n", escapePipes(row.Task), row.Hours, row.Sessions)
	}
	return []byte(sb.String()), nil
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// TextRenderer renders a DailyReport for the terminal with a simple bar per
// task, scaled to the longest task.
type TextRenderer struct {
	// BarWidth is the width of the longest bar. Defaults to 30.
	BarWidth int
}

func (r *TextRenderer) Render(rep *DailyReport) ([]byte, error) {
	width := r.BarWidth
	if width <= 0 {
		width = 30
	}
	var longest float64
	nameWidth := len("Task")
	for _, row := range rep.Rows {
		longest = max(longest, row.Hours)
		nameWidth = max(nameWidth, lipgloss.Width(row.Task))
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Study report "+rep.Date) + "\n")
	fmt.Fprintf(&sb, "  Study time: %s\n", FormatSeconds(rep.StudySeconds))
	if rep.OpenTask != "" {
		fmt.Fprintf(&sb, "  In progress: %s\n", rep.OpenTask)
	}
	sb.WriteString("\n")
	for _, row := range rep.Rows {
		n := 0
		if longest > 0 {
			n = int(row.Hours / longest * float64(width))
		}
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(row.Task))
		fmt.Fprintf(&sb, "  %s%s  %6.2fh  %s\n", row.Task, pad, row.Hours, barStyle.Render(strings.Repeat("█", n)))
	}
	fmt.Fprintf(&sb, "\n  Total: %.2fh\n", rep.TotalHours)
	return []byte(sb.String()), nil
}

// FormatSeconds renders seconds as HH:MM:SS.
func FormatSeconds(secs int64) string {
	d := time.Duration(secs) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

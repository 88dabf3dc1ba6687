// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"dotask/internal/api"
	"dotask/internal/taskstore"
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [x] {DESCRIPTION} *  (due string)" where [x] marks
// completion and a trailing * marks the flag.
func FormatTask(w io.Writer, num int, task api.Task, now time.Time) {
	box := " "
	if task.IsComplete {
		box = "x"
	}
	flagMark := ""
	if task.IsFlagged {
		flagMark = " *"
	}
	due := DueString(task, now)
	if due != "" {
		due = "  (" + due + ")"
	}
	fmt.Fprintf(w, "%4d  [%s] %s%s%s\n", num, box, normalizeDescription(task.Description), flagMark, due)
}

// FormatStats formats the progress summary line.
func FormatStats(w io.Writer, stats taskstore.Stats) {
	fmt.Fprintf(w, "%d tasks: %d done (%.0f%%), %d flagged, %d overdue\n",
		stats.Total, stats.Completed, stats.CompletedPercent(), stats.Flagged, stats.Overdue)
}

// DueString renders the relative time annotation for a task: "due in N
// unit(s)" or "overdue N unit(s)" while open, "done N ago" once
// completed. Open tasks without a due date get no annotation.
func DueString(task api.Task, now time.Time) string {
	if task.IsComplete {
		completedAt := now
		if task.CompletedAt != nil {
			completedAt = task.CompletedAt.Time
		}
		return "done " + humanize.RelTime(completedAt, now, "ago", "from now")
	}

	if task.DueAt == nil {
		return ""
	}
	diff := task.DueAt.Time.Sub(now)
	if diff > 0 {
		return "due in " + timeUnit(diff)
	}
	return "overdue " + timeUnit(-diff)
}

// timeUnit picks the largest sensible unit, clamping at ">30 days".
func timeUnit(d time.Duration) string {
	days := int(d.Hours() / 24)
	switch {
	case days > 30:
		return ">30 days"
	case days > 0:
		return pluralize(days, "day")
	case int(d.Hours()) > 0:
		return pluralize(int(d.Hours()), "hour")
	case int(d.Minutes()) > 0:
		return pluralize(int(d.Minutes()), "minute")
	default:
		return pluralize(int(d.Seconds()), "second")
	}
}

func pluralize(value int, unit string) string {
	if value > 1 {
		return fmt.Sprintf("%d %ss", value, unit)
	}
	return fmt.Sprintf("%d %s", value, unit)
}

// normalizeDescription normalizes a description for single-line display.
// Empty or whitespace-only descriptions become "(untitled)".
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")
	if strings.TrimSpace(desc) == "" {
		return "(untitled)"
	}
	return desc
}

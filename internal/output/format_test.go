package output_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dotask/internal/api"
	"dotask/internal/output"
	"dotask/internal/taskstore"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *api.Timestamp {
	return api.NewTimestamp(now.Add(d))
}

func TestDueString(t *testing.T) {
	tests := []struct {
		name string
		task api.Task
		want string
	}{
		{"no due date", api.Task{}, ""},
		{"due in seconds", api.Task{DueAt: at(30 * time.Second)}, "due in 30 seconds"},
		{"due in one minute", api.Task{DueAt: at(90 * time.Second)}, "due in 1 minute"},
		{"due in hours", api.Task{DueAt: at(5 * time.Hour)}, "due in 5 hours"},
		{"due in days", api.Task{DueAt: at(3 * 24 * time.Hour)}, "due in 3 days"},
		{"due far out", api.Task{DueAt: at(90 * 24 * time.Hour)}, "due in >30 days"},
		{"overdue hours", api.Task{DueAt: at(-5 * time.Hour)}, "overdue 5 hours"},
		{"overdue one day", api.Task{DueAt: at(-25 * time.Hour)}, "overdue 1 day"},
		{"long overdue", api.Task{DueAt: at(-90 * 24 * time.Hour)}, "overdue >30 days"},
		{
			"completed",
			api.Task{IsComplete: true, CompletedAt: at(-2 * time.Hour)},
			"done 2 hours ago",
		},
		{
			"completed without timestamp",
			api.Task{IsComplete: true},
			"done now",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, output.DueString(tt.task, now))
		})
	}
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		num  int
		task api.Task
		want string
	}{
		{
			"open task",
			1,
			api.Task{Description: "water the plants"},
			"   1  [ ] water the plants\n",
		},
		{
			"completed flagged task",
			12,
			api.Task{Description: "file taxes", IsComplete: true, IsFlagged: true, CompletedAt: at(-time.Hour)},
			"  12  [x] file taxes *  (done 1 hour ago)\n",
		},
		{
			"open with due date",
			2,
			api.Task{Description: "submit report", DueAt: at(3 * time.Hour)},
			"   2  [ ] submit report  (due in 3 hours)\n",
		},
		{
			"blank description",
			3,
			api.Task{Description: "   "},
			"   3  [ ] (untitled)\n",
		},
		{
			"newlines flattened",
			4,
			api.Task{Description: "first\nsecond"},
			"   4  [ ] first second\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.num, tt.task, now)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFormatStats(t *testing.T) {
	var buf bytes.Buffer
	output.FormatStats(&buf, taskstore.Stats{Total: 4, Completed: 1, Flagged: 2, Overdue: 1})
	assert.Equal(t, "4 tasks: 1 done (25%), 2 flagged, 1 overdue\n", buf.String())

	buf.Reset()
	output.FormatStats(&buf, taskstore.Stats{})
	assert.Equal(t, "0 tasks: 0 done (0%), 0 flagged, 0 overdue\n", buf.String())
}

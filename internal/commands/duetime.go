package commands

import (
	"fmt"
	"strings"
	"time"

	"dotask/internal/api"
)

// dueLayouts are the accepted --due formats, tried in order.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDue turns a --due value into a timestamp. Accepts "now",
// "today", "tomorrow" or an absolute time in one of dueLayouts
// (interpreted as local time).
func parseDue(value string, now time.Time) (*api.Timestamp, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "now", "today":
		return api.NewTimestamp(now), nil
	case "tomorrow":
		return api.NewTimestamp(now.Add(24 * time.Hour)), nil
	}

	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return api.NewTimestamp(t), nil
		}
	}
	return nil, fmt.Errorf("invalid due date: %s", value)
}

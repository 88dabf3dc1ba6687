package taskstore

import (
	"time"

	"dotask/internal/api"
)

// Stats are the derived aggregate counts for the current list.
// Completed wins over overdue: a completed task whose due date has
// passed is counted as completed, never as overdue. Flagged counts
// flagged tasks that are not overdue.
type Stats struct {
	Total     int
	Completed int
	Flagged   int
	Overdue   int
}

// CompletedPercent is Completed/Total as a percentage, 0 for an empty
// list.
func (st Stats) CompletedPercent() float64 { return st.percent(st.Completed) }

// FlaggedPercent is Flagged/Total as a percentage, 0 for an empty list.
func (st Stats) FlaggedPercent() float64 { return st.percent(st.Flagged) }

// OverduePercent is Overdue/Total as a percentage, 0 for an empty list.
func (st Stats) OverduePercent() float64 { return st.percent(st.Overdue) }

func (st Stats) percent(count int) float64 {
	if st.Total == 0 {
		return 0
	}
	return float64(count) / float64(st.Total) * 100
}

// Stats recomputes the aggregates from the current list.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stats := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		overdue := isOverdue(t, now)
		switch {
		case t.IsComplete:
			stats.Completed++
		case overdue:
			stats.Overdue++
		}
		if t.IsFlagged && !overdue {
			stats.Flagged++
		}
	}
	return stats
}

func isOverdue(t api.Task, now time.Time) bool {
	return !t.IsComplete && t.DueAt != nil && t.DueAt.Time.Before(now)
}

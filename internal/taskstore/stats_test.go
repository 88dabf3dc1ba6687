package taskstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotask/internal/testutil"
)

func TestStatsEmptyList(t *testing.T) {
	store := loadedStore(t, testutil.NewFakeService())

	stats := store.Stats()
	assert.Equal(t, Stats{}, stats)
	assert.Zero(t, stats.CompletedPercent())
	assert.Zero(t, stats.FlaggedPercent())
	assert.Zero(t, stats.OverduePercent())
}

func TestStatsCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	svc := testutil.NewFakeService()
	svc.AddTask("open, due tomorrow", &tomorrow, false, false)
	svc.AddTask("open, overdue", &yesterday, false, false)
	svc.AddTask("flagged, no due date", nil, true, false)
	svc.AddTask("done", nil, false, true)

	store := loadedStore(t, svc)
	store.now = func() time.Time { return now }

	stats := store.Stats()
	assert.Equal(t, Stats{Total: 4, Completed: 1, Flagged: 1, Overdue: 1}, stats)
	assert.InDelta(t, 25.0, stats.CompletedPercent(), 0.001)
	assert.InDelta(t, 25.0, stats.FlaggedPercent(), 0.001)
	assert.InDelta(t, 25.0, stats.OverduePercent(), 0.001)
}

func TestStatsCompletedWinsOverOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	svc := testutil.NewFakeService()
	svc.AddTask("done late", &yesterday, false, true)

	store := loadedStore(t, svc)
	store.now = func() time.Time { return now }

	stats := store.Stats()
	assert.Equal(t, Stats{Total: 1, Completed: 1}, stats)
}

func TestStatsFlaggedExcludesOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	svc := testutil.NewFakeService()
	svc.AddTask("flagged and overdue", &yesterday, true, false)

	store := loadedStore(t, svc)
	store.now = func() time.Time { return now }

	stats := store.Stats()
	assert.Equal(t, Stats{Total: 1, Overdue: 1}, stats)
}

func TestStatsOneDueTomorrowOneOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	svc := testutil.NewFakeService()
	svc.AddTask("due tomorrow", &tomorrow, false, false)
	svc.AddTask("slipped", &yesterday, false, false)

	store := loadedStore(t, svc)
	store.now = func() time.Time { return now }

	stats := store.Stats()
	assert.Equal(t, Stats{Total: 2, Overdue: 1}, stats)
	assert.Zero(t, stats.CompletedPercent())
	assert.InDelta(t, 50.0, stats.OverduePercent(), 0.001)
}

func TestStatsReflectMutations(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	svc := testutil.NewFakeService()
	id := svc.AddTask("target", nil, false, false)

	store := loadedStore(t, svc)
	store.now = func() time.Time { return now }

	_, err := store.SetCompletion(context.Background(), id, true)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 1, Completed: 1}, store.Stats())

	_, err = store.SetCompletion(context.Background(), id, false)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 1}, store.Stats())

	require.NoError(t, store.Remove(context.Background(), id))
	assert.Equal(t, Stats{}, store.Stats())
}

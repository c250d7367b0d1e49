// Package analytics turns a profile's raw click history into the counters and
// dense daily histogram shown on the owner's dashboard.
package analytics

import (
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/types"
)

// HistogramDays is the number of calendar days covered by DailyClicks.
const HistogramDays = 30

// DateLayout formats histogram slot dates.
const DateLayout = "2006-01-02"

// Snapshot is the aggregate produced by Compute.
type Snapshot = types.ProfileAnalytics

// Windows holds the boundaries Compute measures against, all in now's
// location.
type Windows struct {
	Today     time.Time
	ThisMonth time.Time
	LastWeek  time.Time
	// FirstDay is the start of the oldest histogram slot.
	FirstDay time.Time
}

// WindowsAt derives the aggregation boundaries for now.
func WindowsAt(now time.Time) Windows {
	today := StartOfDay(now)
	return Windows{
		Today:     today,
		ThisMonth: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		LastWeek:  now.Add(-7 * 24 * time.Hour),
		FirstDay:  today.AddDate(0, 0, -(HistogramDays - 1)),
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Compute aggregates events as of now. Calendar boundaries use now's
// location, so callers convert the clock into the display zone first.
// Events older than the histogram window still count towards the totals.
func Compute(now time.Time, events []types.ClickEvent) Snapshot {
	loc := now.Location()
	w := WindowsAt(now)

	daily := make([]types.DailyClicks, HistogramDays)
	slots := make(map[string]int, HistogramDays)
	for i := range daily {
		day := w.FirstDay.AddDate(0, 0, i)
		key := day.Format(DateLayout)
		daily[i] = types.DailyClicks{Date: key, Day: day}
		slots[key] = i
	}

	snap := Snapshot{
		DailyClicks: daily,
		GeneratedAt: now,
	}
	for _, event := range events {
		at := event.ClickedAt.In(loc)
		snap.TotalClicks++
		if !at.Before(w.Today) {
			snap.TodayClicks++
		}
		if !at.Before(w.LastWeek) {
			snap.WeeklyClicks++
		}
		if !at.Before(w.ThisMonth) {
			snap.MonthlyClicks++
		}
		if idx, ok := slots[at.Format(DateLayout)]; ok {
			daily[idx].Clicks++
		}
	}
	return snap
}

// LastDays sums the final n histogram slots.
func LastDays(snap Snapshot, n int) int {
	if n > len(snap.DailyClicks) {
		n = len(snap.DailyClicks)
	}
	total := 0
	for _, slot := range snap.DailyClicks[len(snap.DailyClicks)-n:] {
		total += slot.Clicks
	}
	return total
}

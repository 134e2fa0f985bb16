// Package stats turns a visibility-scoped set of activity records into
// the aggregate reporting payload served by the statistics endpoint.
// Aggregation is pure: no I/O, no clock reads, no mutation of input.
package stats

import (
	"strconv"
	"time"

	"github.com/goliatone/go-fieldlog/pkg/types"
)

// MonthKey formats a calendar year+month pair as "YYYY-M" with the
// month 1-indexed and not zero-padded. Every bucket assignment and
// trend lookup must go through this one function; mixing padded and
// unpadded keys silently breaks the trend calculation.
func MonthKey(t time.Time) string {
	year, month, _ := t.Date()
	return strconv.Itoa(year) + "-" + strconv.Itoa(int(month))
}

// PreviousMonthKey returns the key for the month immediately before
// t's month, rolling back to December of the prior year in January.
func PreviousMonthKey(t time.Time) string {
	year, month, _ := t.Date()
	if month == time.January {
		return strconv.Itoa(year-1) + "-12"
	}
	return strconv.Itoa(year) + "-" + strconv.Itoa(int(month)-1)
}

// Aggregate computes totals, per-type, per-month, and per-user counts
// plus the month-over-month trend for the given records. The caller is
// responsible for visibility filtering; every record passed in is
// counted. now anchors the trend window and is injected so callers and
// tests control it.
func Aggregate(records []types.ActivityRecord, now time.Time) types.Statistics {
	out := types.Statistics{
		TotalActivities: len(records),
		ByType:          make(map[types.ActivityType]int),
		ByMonth:         make(map[string]int),
		ByUser:          make(map[string]int),
	}

	for _, record := range records {
		out.ByType[record.Type]++
		out.ByMonth[MonthKey(record.Date)]++
		out.ByUser[record.OwnerID.String()]++
	}

	out.RecentTrend = trend(out.ByMonth, now)
	return out
}

// trend is the signed percentage change between the current and
// previous calendar month. A previous month with zero records yields
// zero rather than an error or an infinite ratio.
func trend(byMonth map[string]int, now time.Time) float64 {
	current := byMonth[MonthKey(now)]
	previous := byMonth[PreviousMonthKey(now)]
	if previous == 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

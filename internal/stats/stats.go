// Package stats derives read-only training statistics from session history.
// Every function is pure; calendar math uses the location of the now argument.
package stats

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// BestDayNone is returned by BestDay when no weekday has any volume.
const BestDayNone = "none"

// TopExercises is how many entries ExerciseFrequency returns.
const TopExercises = 5

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Direction describes how recent volume compares to the previous period.
type Direction string

const (
	TrendNoData Direction = "no-data"
	TrendUp     Direction = "up"
	TrendDown   Direction = "down"
	TrendFlat   Direction = "flat"
)

// ExerciseCount is one row of the frequency table.
type ExerciseCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Volume sums the volume of each exercise record.
func Volume(exercises []models.ExerciseRecord) float64 {
	var total float64
	for _, ex := range exercises {
		total += ex.Volume()
	}
	return total
}

// CurrentStreak counts consecutive calendar days with at least one session,
// walking back from today. No session today means a streak of 0.
func CurrentStreak(entries []models.HistoryEntry, now time.Time) int {
	loc := now.Location()
	days := make(map[civilDate]bool, len(entries))
	for _, e := range entries {
		days[dateOf(e.Time(loc))] = true
	}

	streak := 0
	for day := now; days[dateOf(day)]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// BestDay returns the short weekday name with the highest total volume.
// Ties go to the earliest weekday, Sunday first.
func BestDay(entries []models.HistoryEntry, loc *time.Location) string {
	var byDay [7]float64
	for _, e := range entries {
		byDay[e.Time(loc).Weekday()] += Volume(e.Exercises)
	}

	best := -1
	for d, v := range byDay {
		if v > 0 && (best < 0 || v > byDay[best]) {
			best = d
		}
	}
	if best < 0 {
		return BestDayNone
	}
	return weekdayNames[best]
}

// ExerciseFrequency counts every appearance of each exercise name and returns
// the top five by count. Equal counts keep first-seen order.
func ExerciseFrequency(entries []models.HistoryEntry) []ExerciseCount {
	index := map[string]int{}
	var counts []ExerciseCount
	for _, e := range entries {
		for _, ex := range e.Exercises {
			i, ok := index[ex.Name]
			if !ok {
				i = len(counts)
				index[ex.Name] = i
				counts = append(counts, ExerciseCount{Name: ex.Name})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	if len(counts) > TopExercises {
		counts = counts[:TopExercises]
	}
	if counts == nil {
		counts = []ExerciseCount{}
	}
	return counts
}

// PersonalRecords maps each exercise name to the highest volume it reached in
// a single entry.
func PersonalRecords(entries []models.HistoryEntry) map[string]float64 {
	prs := map[string]float64{}
	for _, e := range entries {
		for _, ex := range e.Exercises {
			v := Volume([]models.ExerciseRecord{ex})
			if cur, ok := prs[ex.Name]; !ok || v > cur {
				prs[ex.Name] = v
			}
		}
	}
	return prs
}

// WeeklyVolume buckets the trailing seven days of volume. Slot 6 is the last
// 24 hours, slot 0 six days before that. Older or future entries are ignored.
func WeeklyVolume(entries []models.HistoryEntry, now time.Time) [7]float64 {
	var days [7]float64
	nowMs := now.UnixMilli()
	const dayMs = int64(24 * time.Hour / time.Millisecond)
	for _, e := range entries {
		diff := nowMs - e.Timestamp
		if diff < 0 {
			continue
		}
		d := diff / dayMs
		if d < 7 {
			days[6-d] += Volume(e.Exercises)
		}
	}
	return days
}

// Trend compares the latest seven-day total with the previous one.
//
// TODO: both operands are the same trailing week, so only TrendNoData and
// TrendFlat are reachable. Comparing against the preceding week needs a
// 14-day WeeklyVolume window.
func Trend(weekly [7]float64) Direction {
	lastWeek := sum(weekly[:])
	prevWeek := sum(weekly[:])

	switch {
	case prevWeek == 0:
		return TrendNoData
	case lastWeek > prevWeek:
		return TrendUp
	case lastWeek < prevWeek:
		return TrendDown
	}
	return TrendFlat
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{y, m, d}
}

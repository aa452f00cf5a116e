package stats

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Summary bundles every statistic shown on the statistics screen.
type Summary struct {
	TotalWorkouts      int                `json:"total_workouts"`
	CompletedExercises int                `json:"completed_exercises"`
	TotalVolume        float64            `json:"total_volume"`
	StreakDays         int                `json:"streak_days"`
	BestDay            string             `json:"best_day"`
	Trend              Direction          `json:"trend"`
	WeeklyVolume       [7]float64         `json:"weekly_volume"`
	MostFrequent       []ExerciseCount    `json:"most_frequent"`
	PersonalRecords    map[string]float64 `json:"personal_records"`
}

// Summarize computes the full Summary for entries as of now.
func Summarize(entries []models.HistoryEntry, now time.Time) Summary {
	weekly := WeeklyVolume(entries, now)
	s := Summary{
		TotalWorkouts:   len(entries),
		StreakDays:      CurrentStreak(entries, now),
		BestDay:         BestDay(entries, now.Location()),
		Trend:           Trend(weekly),
		WeeklyVolume:    weekly,
		MostFrequent:    ExerciseFrequency(entries),
		PersonalRecords: PersonalRecords(entries),
	}
	for _, e := range entries {
		s.TotalVolume += Volume(e.Exercises)
		for _, ex := range e.Exercises {
			if ex.Completed() {
				s.CompletedExercises++
			}
		}
	}
	return s
}

package progression

import (
	"sort"
	"time"
)

type SetPerformance struct {
	SetNumber int     `json:"setNumber"`
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
}

// BestPerformance is the baseline a client's next targets are progressed from.
// SessionSets holds every set of the exercise in the winning session, ordered
// by set number, and TargetSets is their count.
type BestPerformance struct {
	ClientID      string           `json:"clientId"`
	ExerciseName  string           `json:"exerciseName"`
	SourceWorkout string           `json:"sourceWorkout"`
	SessionDate   time.Time        `json:"sessionDate"`
	Best          SetPerformance   `json:"best"`
	SessionSets   []SetPerformance `json:"sessionSets"`
	TargetSets    int              `json:"targetSets"`
}

// Better reports whether a beats b: heavier wins, then more reps.
func (a SetPerformance) Better(b SetPerformance) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return a.Reps > b.Reps
}

type sessionKey struct {
	exercise string
	workout  string
	day      time.Time
}

func sessionDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// sortedRecords returns a copy ordered by session date, workout and set
// number, so that "first seen" does not depend on the source ordering.
func sortedRecords(records []PerformanceRecord) []PerformanceRecord {
	sorted := make([]PerformanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.SessionDate.Equal(b.SessionDate) {
			return a.SessionDate.Before(b.SessionDate)
		}
		if a.WorkoutName != b.WorkoutName {
			return a.WorkoutName < b.WorkoutName
		}
		return a.SetNumber < b.SetNumber
	})
	return sorted
}

// BestPerformances selects, per exercise, the single best set of the
// given records together with the session it was performed in.
// The records are expected to be resistance-only and already limited to
// the lookback window. The result is keyed by ExerciseKey.
func BestPerformances(records []PerformanceRecord) map[string]*BestPerformance {
	sorted := sortedRecords(records)

	sessions := make(map[sessionKey][]SetPerformance)
	bestRecords := make(map[string]PerformanceRecord)
	for _, r := range sorted {
		exKey := ExerciseKey(r.ExerciseName)
		sk := sessionKey{exercise: exKey, workout: r.WorkoutName, day: sessionDay(r.SessionDate)}
		set := SetPerformance{SetNumber: r.SetNumber, Weight: r.Weight, Reps: r.Reps}
		sessions[sk] = append(sessions[sk], set)

		current, ok := bestRecords[exKey]
		if !ok || set.Better(SetPerformance{Weight: current.Weight, Reps: current.Reps}) {
			bestRecords[exKey] = r
		}
	}

	bests := make(map[string]*BestPerformance, len(bestRecords))
	for exKey, r := range bestRecords {
		sk := sessionKey{exercise: exKey, workout: r.WorkoutName, day: sessionDay(r.SessionDate)}
		sessionSets := sessions[sk]
		bests[exKey] = &BestPerformance{
			ClientID:      r.ClientID,
			ExerciseName:  r.ExerciseName,
			SourceWorkout: r.WorkoutName,
			SessionDate:   sessionDay(r.SessionDate),
			Best:          SetPerformance{SetNumber: r.SetNumber, Weight: r.Weight, Reps: r.Reps},
			SessionSets:   sessionSets,
			TargetSets:    len(sessionSets),
		}
	}

	return bests
}

package progression

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

type WorkoutClassification string

const (
	WorkoutResistance   WorkoutClassification = "resistance"
	WorkoutConditioning WorkoutClassification = "conditioning"
)

// conditioningKeywords marks workouts excluded from progression.
var conditioningKeywords = []string{
	"hiit",
	"cardio",
	"conditioning",
	"circuit",
	"metcon",
	"metabolic",
	"interval",
	"tabata",
	"emom",
	"amrap",
}

func ClassifyWorkout(workoutName string) WorkoutClassification {
	name := strings.ToLower(workoutName)
	for _, kw := range conditioningKeywords {
		if strings.Contains(name, kw) {
			return WorkoutConditioning
		}
	}
	return WorkoutResistance
}

// FilterResistance drops every record belonging to a conditioning workout.
// The second return value counts the dropped records per workout name.
func FilterResistance(records []PerformanceRecord) ([]PerformanceRecord, map[string]int) {
	kept := make([]PerformanceRecord, 0, len(records))
	excluded := make(map[string]int)
	classified := make(map[string]WorkoutClassification)
	for _, r := range records {
		class, ok := classified[r.WorkoutName]
		if !ok {
			class = ClassifyWorkout(r.WorkoutName)
			classified[r.WorkoutName] = class
		}
		if class == WorkoutConditioning {
			excluded[r.WorkoutName]++
			continue
		}
		kept = append(kept, r)
	}

	if len(excluded) > 0 {
		names := make([]string, 0, len(excluded))
		for name := range excluded {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			log.Infof("workout [%s] classified as conditioning, excluded %d set records", name, excluded[name])
		}
	}

	return kept, excluded
}

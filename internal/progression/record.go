package progression

import (
	"fmt"
	"strings"
	"time"
)

// PerformanceRecord is a single logged set, as scraped from the
// workout tracking app. It is never mutated.
type PerformanceRecord struct {
	ClientID     string    `json:"clientId"`
	ExerciseName string    `json:"exerciseName"`
	WorkoutName  string    `json:"workoutName"`
	SessionDate  time.Time `json:"sessionDate"`
	SetNumber    int       `json:"setNumber"`
	Weight       float64   `json:"weight"`
	Reps         int       `json:"reps"`
}

func (r PerformanceRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.ClientID) == "":
		return fmt.Errorf("%w: empty client id", ErrInvalidRecord)
	case strings.TrimSpace(r.ExerciseName) == "":
		return fmt.Errorf("%w: empty exercise name", ErrInvalidRecord)
	case r.Weight < 0:
		return fmt.Errorf("%w: negative weight %v", ErrInvalidRecord, r.Weight)
	case r.Reps < 0:
		return fmt.Errorf("%w: negative reps %d", ErrInvalidRecord, r.Reps)
	}
	return nil
}

// ExerciseKey is used to match exercise names across workouts and sources.
func ExerciseKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Program is the set of exercises a client is assigned, grouped by workout.
type Program struct {
	ClientID string           `json:"clientId"`
	Workouts []ProgramWorkout `json:"workouts"`
}

type ProgramWorkout struct {
	Name      string   `json:"name"`
	Exercises []string `json:"exercises"`
}

// ProgramFromRecords derives a program from the history itself, keeping
// workouts and exercises in the order they were first performed.
func ProgramFromRecords(clientID string, records []PerformanceRecord) *Program {
	sorted := sortedRecords(records)

	program := &Program{ClientID: clientID}
	workoutIdx := make(map[string]int)
	seen := make(map[string]bool)
	for _, r := range sorted {
		if r.ClientID != clientID {
			continue
		}
		idx, ok := workoutIdx[r.WorkoutName]
		if !ok {
			idx = len(program.Workouts)
			workoutIdx[r.WorkoutName] = idx
			program.Workouts = append(program.Workouts, ProgramWorkout{Name: r.WorkoutName})
		}
		key := r.WorkoutName + "||" + ExerciseKey(r.ExerciseName)
		if seen[key] {
			continue
		}
		seen[key] = true
		program.Workouts[idx].Exercises = append(program.Workouts[idx].Exercises, r.ExerciseName)
	}

	return program
}

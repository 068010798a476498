package planner

import (
	"fmt"
	"io"
	"sort"

	"github.com/2beens/overload/internal/progression"
)

type ExerciseStatus string

const (
	StatusProgressed ExerciseStatus = "progressed"
	StatusDefaulted  ExerciseStatus = "defaulted"
	StatusSkipped    ExerciseStatus = "skipped"
	StatusExcluded   ExerciseStatus = "excluded"
)

type ExerciseReport struct {
	WorkoutName  string         `json:"workoutName"`
	ExerciseName string         `json:"exerciseName"`
	Status       ExerciseStatus `json:"status"`
	Goal         string         `json:"goal,omitempty"`
	Reason       string         `json:"reason,omitempty"`
}

type ClientReport struct {
	ClientID         string                 `json:"clientId"`
	Exercises        []ExerciseReport       `json:"exercises"`
	ExcludedWorkouts map[string]int         `json:"excludedWorkouts,omitempty"`
	Goals            *progression.WeekGoals `json:"-"`
	Persisted        bool                   `json:"persisted"`
	Err              error                  `json:"-"`
}

func (c *ClientReport) add(workoutName, exerciseName string, status ExerciseStatus, goal, reason string) {
	c.Exercises = append(c.Exercises, ExerciseReport{
		WorkoutName:  workoutName,
		ExerciseName: exerciseName,
		Status:       status,
		Goal:         goal,
		Reason:       reason,
	})
}

// Report is the outcome of a planning run. It is always returned, also
// when some of the clients failed.
type Report struct {
	WeekID  string         `json:"weekId"`
	DryRun  bool           `json:"dryRun"`
	Clients []ClientReport `json:"clients"`
}

// Client returns the report of the given client, nil if it was not in the run.
func (r *Report) Client(clientID string) *ClientReport {
	for i := range r.Clients {
		if r.Clients[i].ClientID == clientID {
			return &r.Clients[i]
		}
	}
	return nil
}

func (r *Report) Counts() map[ExerciseStatus]int {
	counts := make(map[ExerciseStatus]int)
	for _, c := range r.Clients {
		for _, ex := range c.Exercises {
			counts[ex.Status]++
		}
	}
	return counts
}

func (r *Report) Failed() []ClientReport {
	failed := make([]ClientReport, 0)
	for _, c := range r.Clients {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// WriteText prints the per client summary followed by the goal lines.
func (r *Report) WriteText(w io.Writer) error {
	counts := r.Counts()
	if _, err := fmt.Fprintf(
		w, "week %s: %d clients, %d progressed, %d defaulted, %d skipped, %d excluded\n",
		r.WeekID, len(r.Clients),
		counts[StatusProgressed], counts[StatusDefaulted], counts[StatusSkipped], counts[StatusExcluded],
	); err != nil {
		return err
	}

	for _, c := range r.Clients {
		state := "stored"
		switch {
		case c.Err != nil:
			state = "FAILED: " + c.Err.Error()
		case r.DryRun:
			state = "dry run"
		}
		if _, err := fmt.Fprintf(w, "\n[%s] %s\n", c.ClientID, state); err != nil {
			return err
		}

		workouts := make([]string, 0, len(c.ExcludedWorkouts))
		for name := range c.ExcludedWorkouts {
			workouts = append(workouts, name)
		}
		sort.Strings(workouts)
		for _, name := range workouts {
			if _, err := fmt.Fprintf(w, "  excluded workout %q (%d sets)\n", name, c.ExcludedWorkouts[name]); err != nil {
				return err
			}
		}

		for _, ex := range c.Exercises {
			line := fmt.Sprintf("  %-10s %s | %s", ex.Status, ex.WorkoutName, ex.ExerciseName)
			if ex.Goal != "" {
				line += ": " + ex.Goal
			}
			if ex.Reason != "" && ex.Status != StatusProgressed {
				line += " (" + ex.Reason + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	return nil
}

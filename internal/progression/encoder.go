package progression

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	goalSeparator    = " | "
	bodyweightMarker = "BW"
)

// setRegex is deliberately tolerant: "S2: 22.5kg*8", "22,5 kg x 8", "bw*12".
var setRegex = regexp.MustCompile(`(?i)^\s*(?:s(\d+)\s*[:.]?\s*)?(?:(\d+(?:[.,]\d+)?)\s*kgs?|(bw))\s*[x*×]\s*(\d+)\s*$`)

// GoalRecord is the persisted, externally visible goal of one exercise
// in one workout for one week.
type GoalRecord struct {
	ClientID     string                `json:"clientId"`
	WeekID       string                `json:"weekId"`
	WorkoutName  string                `json:"workoutName"`
	ExerciseName string                `json:"exerciseName"`
	Goal         string                `json:"goal"`
	Decisions    []ProgressionDecision `json:"decisions"`
	NoData       bool                  `json:"noData"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// WeekGoals groups all goal records of a client for one week, it is
// the unit stored and overwritten by the history repositories.
type WeekGoals struct {
	ClientID  string       `json:"clientId"`
	WeekID    string       `json:"weekId"`
	Records   []GoalRecord `json:"records"`
	CreatedAt time.Time    `json:"createdAt"`
}

// FormatWeight prints a weight without trailing zeros: 25, 17.5, 1.25.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(math.Round(w*100)/100, 'f', -1, 64)
}

func encodeSet(d ProgressionDecision) string {
	weight := FormatWeight(d.NextWeight) + "kg"
	if d.NextWeight == 0 && d.Equipment == Bodyweight && d.Role != RoleStarting {
		weight = bodyweightMarker
	}
	return fmt.Sprintf("S%d: %s*%d", d.SetNumber, weight, d.NextReps)
}

// EncodeGoal renders decisions as "S1: 17.5kg*10 | S2: 25kg*10".
func EncodeGoal(decisions []ProgressionDecision) string {
	parts := make([]string, 0, len(decisions))
	for _, d := range decisions {
		parts = append(parts, encodeSet(d))
	}
	return strings.Join(parts, goalSeparator)
}

// ParseResult is the outcome of reading a legacy goal/performance string.
type ParseResult struct {
	Sets []SetPerformance
	Err  error
}

func (r ParseResult) OK() bool {
	return r.Err == nil
}

// DecodeGoal reads a "S1: 20kg*9 | S2: 25kg*8" string. Sets without an
// explicit "S{n}:" prefix are numbered by position. Bodyweight sets are
// returned with zero weight.
func DecodeGoal(s string) ParseResult {
	if strings.TrimSpace(s) == "" {
		return ParseResult{Err: &ParseError{Input: s, Reason: "empty"}}
	}

	parts := strings.Split(s, "|")
	sets := make([]SetPerformance, 0, len(parts))
	for i, part := range parts {
		m := setRegex.FindStringSubmatch(part)
		if m == nil {
			return ParseResult{Err: &ParseError{Input: strings.TrimSpace(part), Reason: "expected <number>kg*<reps>"}}
		}

		set := SetPerformance{SetNumber: i + 1}
		if m[1] != "" {
			set.SetNumber, _ = strconv.Atoi(m[1])
		}
		if m[2] != "" {
			w, err := strconv.ParseFloat(strings.Replace(m[2], ",", ".", 1), 64)
			if err != nil {
				return ParseResult{Err: &ParseError{Input: strings.TrimSpace(part), Reason: err.Error()}}
			}
			set.Weight = w
		}
		reps, err := strconv.Atoi(m[4])
		if err != nil {
			return ParseResult{Err: &ParseError{Input: strings.TrimSpace(part), Reason: err.Error()}}
		}
		set.Reps = reps

		sets = append(sets, set)
	}

	return ParseResult{Sets: sets}
}

// NewGoalRecord encodes the decisions into the record stored for the
// given week. CreatedAt is pinned to the week start so that re-running
// on the same history yields identical records.
func NewGoalRecord(
	clientID string,
	week WeekID,
	workoutName, exerciseName string,
	decisions []ProgressionDecision,
) GoalRecord {
	noData := len(decisions) == 1 && decisions[0].Role == RoleStarting
	return GoalRecord{
		ClientID:     clientID,
		WeekID:       week.String(),
		WorkoutName:  workoutName,
		ExerciseName: exerciseName,
		Goal:         EncodeGoal(decisions),
		Decisions:    decisions,
		NoData:       noData,
		CreatedAt:    week.Start(),
	}
}

// PrimaryDecision returns the decision that best summarizes the record:
// the first work set, or the first decision if there is none.
func (g GoalRecord) PrimaryDecision() (ProgressionDecision, bool) {
	if len(g.Decisions) == 0 {
		return ProgressionDecision{}, false
	}
	for _, d := range g.Decisions {
		if d.Role == RoleWork {
			return d, true
		}
	}
	return g.Decisions[0], true
}

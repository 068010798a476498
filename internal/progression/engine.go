package progression

import (
	"fmt"
)

type SetRole string

const (
	RoleWarmup   SetRole = "warmup"
	RoleWork     SetRole = "work"
	RoleVolume   SetRole = "volume"
	RoleStarting SetRole = "starting_point"
)

const (
	warmupPosition   = 1
	lastWorkPosition = 3
)

// ProgressionDecision is the next period target for one set position.
type ProgressionDecision struct {
	SetNumber       int            `json:"setNumber"`
	Role            SetRole        `json:"role"`
	Equipment       EquipmentClass `json:"equipment"`
	CurrentWeight   float64        `json:"currentWeight"`
	CurrentReps     int            `json:"currentReps"`
	NextWeight      float64        `json:"nextWeight"`
	NextReps        int            `json:"nextReps"`
	WeightIncreased bool           `json:"weightIncreased"`
	Rationale       string         `json:"rationale"`
}

// Engine applies the rep ladder to every set of a best performance.
type Engine struct {
	// minSets pads shorter sessions by repeating the last decision
	minSets int
}

func NewEngine(minSets int) *Engine {
	if minSets < 1 {
		minSets = 1
	}
	return &Engine{
		minSets: minSets,
	}
}

// DefaultDecision is emitted for exercises with no usable history.
// The weight is left for the coach to set.
func DefaultDecision(equipment EquipmentClass) ProgressionDecision {
	return ProgressionDecision{
		SetNumber: 1,
		Role:      RoleStarting,
		Equipment: equipment,
		NextReps:  ladderBottom,
		Rationale: ErrMissingHistory.Error(),
	}
}

// Decide computes the per-set decisions for one exercise. A nil best
// performance yields the single default decision.
func (e *Engine) Decide(exerciseName string, best *BestPerformance) []ProgressionDecision {
	equipment, _ := ClassifyEquipment(exerciseName)
	if best == nil {
		return []ProgressionDecision{DefaultDecision(equipment)}
	}

	current := currentSets(best)
	decisions := make([]ProgressionDecision, len(current))

	if len(current) == 1 {
		decisions[0] = workDecision(1, equipment, current[0])
		return e.pad(decisions)
	}

	// work sets first: the warm-up is derived from the lightest of them,
	// volume sets hold the heaviest
	workWeight, topWeight := -1.0, -1.0
	for i := warmupPosition; i < len(current) && i < lastWorkPosition; i++ {
		decisions[i] = workDecision(i+1, equipment, current[i])
		if workWeight < 0 || decisions[i].NextWeight < workWeight {
			workWeight = decisions[i].NextWeight
		}
		if decisions[i].NextWeight > topWeight {
			topWeight = decisions[i].NextWeight
		}
	}
	for i := lastWorkPosition; i < len(current); i++ {
		decisions[i] = volumeDecision(i+1, equipment, current[i], topWeight)
	}
	decisions[0] = warmupDecision(equipment, current[0], workWeight)

	return e.pad(decisions)
}

// currentSets expands the best performance into per-set current values.
// Without session sets the best set is replicated across the target sets.
func currentSets(best *BestPerformance) []SetPerformance {
	if len(best.SessionSets) > 0 {
		sets := make([]SetPerformance, len(best.SessionSets))
		copy(sets, best.SessionSets)
		return sets
	}

	n := best.TargetSets
	if n < 1 {
		n = 1
	}
	sets := make([]SetPerformance, n)
	for i := range sets {
		sets[i] = best.Best
		sets[i].SetNumber = i + 1
	}
	return sets
}

func workDecision(position int, equipment EquipmentClass, current SetPerformance) ProgressionDecision {
	currentWeight := equipment.Round(current.Weight)
	nextReps, reset := NextReps(current.Reps)

	d := ProgressionDecision{
		SetNumber:     position,
		Role:          RoleWork,
		Equipment:     equipment,
		CurrentWeight: current.Weight,
		CurrentReps:   current.Reps,
		NextWeight:    currentWeight,
		NextReps:      nextReps,
	}

	switch {
	case reset:
		d.NextWeight = equipment.Round(currentWeight + equipment.Increment(currentWeight))
		d.WeightIncreased = true
		d.Rationale = fmt.Sprintf(
			"reached %d reps, weight %s -> %s, reps reset to %d",
			current.Reps, FormatWeight(currentWeight), FormatWeight(d.NextWeight), nextReps,
		)
	case current.Reps < ladderBottom:
		d.Rationale = fmt.Sprintf("%d reps is below the rep range, starting at %d", current.Reps, nextReps)
	default:
		d.Rationale = fmt.Sprintf("reps %d -> %d, weight unchanged", current.Reps, nextReps)
	}

	return d
}

func warmupDecision(equipment EquipmentClass, current SetPerformance, workWeight float64) ProgressionDecision {
	nextReps, _ := NextReps(current.Reps)
	multiplier := equipment.WarmupMultiplier()

	weight := equipment.Round(workWeight * multiplier)
	if weight > workWeight {
		weight = workWeight
	}

	return ProgressionDecision{
		SetNumber:     warmupPosition,
		Role:          RoleWarmup,
		Equipment:     equipment,
		CurrentWeight: current.Weight,
		CurrentReps:   current.Reps,
		NextWeight:    weight,
		NextReps:      nextReps,
		Rationale: fmt.Sprintf(
			"warm-up at %.0f%% of work weight %s",
			multiplier*100, FormatWeight(workWeight),
		),
	}
}

// volumeDecision holds the set at the work-set weight, only snapping its
// reps to the rep ladder.
func volumeDecision(position int, equipment EquipmentClass, current SetPerformance, workWeight float64) ProgressionDecision {
	return ProgressionDecision{
		SetNumber:     position,
		Role:          RoleVolume,
		Equipment:     equipment,
		CurrentWeight: current.Weight,
		CurrentReps:   current.Reps,
		NextWeight:    workWeight,
		NextReps:      SnapReps(current.Reps),
		Rationale:     fmt.Sprintf("volume set, held at work weight %s", FormatWeight(workWeight)),
	}
}

func (e *Engine) pad(decisions []ProgressionDecision) []ProgressionDecision {
	for len(decisions) < e.minSets {
		next := decisions[len(decisions)-1]
		next.SetNumber++
		next.Rationale = fmt.Sprintf("repeats set %d", next.SetNumber-1)
		decisions = append(decisions, next)
	}
	return decisions
}

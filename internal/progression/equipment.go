package progression

import (
	"math"
	"strings"

	log "github.com/sirupsen/logrus"
)

type EquipmentClass string

const (
	Dumbbell   EquipmentClass = "dumbbell"
	Barbell    EquipmentClass = "barbell"
	Cable      EquipmentClass = "cable"
	Machine    EquipmentClass = "machine"
	Bodyweight EquipmentClass = "bodyweight"
)

type equipmentRule struct {
	class    EquipmentClass
	keywords []string
}

// equipmentRules are checked in order, first match wins.
// Keywords are matched against the normalized, space padded exercise
// name, so " db " only matches the standalone token.
var equipmentRules = []equipmentRule{
	{
		class:    Dumbbell,
		keywords: []string{"dumbbell", " db ", "hammer curl", "goblet", "kettlebell", " kb "},
	},
	{
		class:    Barbell,
		keywords: []string{"barbell", " bb ", "bench", "squat", "deadlift", "rdl", "overhead press", "ez bar"},
	},
	{
		class:    Cable,
		keywords: []string{"cable", "lat pull", "pulldown", "pull down", "seated row", "face pull", "pushdown", "crossover"},
	},
	{
		class:    Machine,
		keywords: []string{"machine", "leg press", "leg extension", "leg curl", "smith", "pec deck"},
	},
	{
		class:    Bodyweight,
		keywords: []string{"chin up", "chinup", "pull up", "pullup", "push up", "pushup", "plank", " dip", "bodyweight", "sit up", "burpee"},
	},
}

type equipmentParams struct {
	// step is the weight granularity and the increase applied on a rep reset
	step float64
	// highStep replaces step from highFrom kg upwards (0 means no switch)
	highStep float64
	highFrom float64
	// warmup is the multiplier of the work weight used for the warm-up set
	warmup float64
}

var equipmentTable = map[EquipmentClass]equipmentParams{
	Dumbbell:   {step: 2.5, warmup: 0.7},
	Barbell:    {step: 2.5, warmup: 0.7},
	Cable:      {step: 2.5, highStep: 5, highFrom: 20, warmup: 0.8},
	Machine:    {step: 5, warmup: 0.8},
	Bodyweight: {step: 2.5, warmup: 1},
}

func normalizeExerciseName(name string) string {
	n := strings.ToLower(name)
	n = strings.NewReplacer("-", " ", "_", " ", "/", " ", "(", " ", ")", " ").Replace(n)
	return " " + strings.Join(strings.Fields(n), " ") + " "
}

// ClassifyEquipment maps an exercise name to its equipment class.
// The returned bool is false when no rule matched and the default
// (Dumbbell) was used.
func ClassifyEquipment(exerciseName string) (EquipmentClass, bool) {
	name := normalizeExerciseName(exerciseName)
	for _, rule := range equipmentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.class, true
			}
		}
	}
	log.Debugf("no equipment rule matched exercise [%s], defaulting to %s", exerciseName, Dumbbell)
	return Dumbbell, false
}

func (c EquipmentClass) params() equipmentParams {
	s, ok := equipmentTable[c]
	if !ok {
		return equipmentTable[Dumbbell]
	}
	return s
}

func (c EquipmentClass) IsValid() bool {
	_, ok := equipmentTable[c]
	return ok
}

// Increment returns the weight step valid at the given weight.
func (c EquipmentClass) Increment(weight float64) float64 {
	s := c.params()
	if s.highStep > 0 && weight >= s.highFrom {
		return s.highStep
	}
	return s.step
}

func (c EquipmentClass) WarmupMultiplier() float64 {
	return c.params().warmup
}

// Round snaps the weight to the nearest valid weight of the class.
func (c EquipmentClass) Round(weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	step := c.Increment(weight)
	rounded := math.Round(weight/step) * step
	return roundKg(rounded)
}

// RoundDown snaps the weight to the closest valid weight not above it.
func (c EquipmentClass) RoundDown(weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	step := c.Increment(weight)
	rounded := math.Floor(weight/step+1e-9) * step
	return roundKg(rounded)
}

// OnGrid reports whether the weight is a valid weight of the class.
func (c EquipmentClass) OnGrid(weight float64) bool {
	if weight == 0 {
		return true
	}
	if weight < 0 {
		return false
	}
	steps := weight / c.Increment(weight)
	return math.Abs(steps-math.Round(steps)) < 1e-9
}

// roundKg drops floating point noise below a gram.
func roundKg(w float64) float64 {
	return math.Round(w*1000) / 1000
}

package progression_test

import (
	"testing"
	"time"

	"github.com/2beens/overload/internal/progression"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Decide_RepIncrease(t *testing.T) {
	day := time.Date(2026, 10, 6, 9, 0, 0, 0, time.UTC)
	records := []progression.PerformanceRecord{
		set("anna", "Upper Body", "Dumbbell Shoulder Press", day, 1, 20, 9),
		set("anna", "Upper Body", "Dumbbell Shoulder Press", day, 2, 25, 8),
	}
	best := progression.BestPerformances(records)["dumbbell shoulder press"]
	require.NotNil(t, best)
	require.Equal(t, 25.0, best.Best.Weight)
	require.Equal(t, 8, best.Best.Reps)
	require.Equal(t, 2, best.TargetSets)

	decisions := progression.NewEngine(1).Decide("Dumbbell Shoulder Press", best)
	require.Len(t, decisions, 2)
	assert.Equal(t, "S1: 17.5kg*10 | S2: 25kg*10", progression.EncodeGoal(decisions))

	warmup, work := decisions[0], decisions[1]
	assert.Equal(t, progression.RoleWarmup, warmup.Role)
	assert.Equal(t, 17.5, warmup.NextWeight)
	assert.Equal(t, progression.RoleWork, work.Role)
	assert.Equal(t, 25.0, work.NextWeight)
	assert.Equal(t, 10, work.NextReps)
	assert.False(t, work.WeightIncreased)
	assert.Equal(t, "reps 8 -> 10, weight unchanged", work.Rationale)
}

func TestEngine_Decide_RepResetIncreasesWeight(t *testing.T) {
	best := &progression.BestPerformance{
		ClientID:     "anna",
		ExerciseName: "Dumbbell Curl",
		Best:         progression.SetPerformance{SetNumber: 1, Weight: 20, Reps: 15},
		TargetSets:   1,
	}

	decisions := progression.NewEngine(1).Decide("Dumbbell Curl", best)
	require.Len(t, decisions, 1)
	assert.Equal(t, progression.RoleWork, decisions[0].Role)
	assert.Equal(t, 22.5, decisions[0].NextWeight)
	assert.Equal(t, 6, decisions[0].NextReps)
	assert.True(t, decisions[0].WeightIncreased)
	assert.Equal(t, "S1: 22.5kg*6", progression.EncodeGoal(decisions))

	// the single aggregate value is replicated across the target sets
	best.TargetSets = 3
	decisions = progression.NewEngine(1).Decide("Dumbbell Curl", best)
	assert.Equal(t, "S1: 15kg*6 | S2: 22.5kg*6 | S3: 22.5kg*6", progression.EncodeGoal(decisions))
}

func TestEngine_Decide_NoPreviousData(t *testing.T) {
	decisions := progression.NewEngine(3).Decide("Nordic Curl", nil)
	require.Len(t, decisions, 1)

	d := decisions[0]
	assert.Equal(t, progression.RoleStarting, d.Role)
	assert.Equal(t, 0.0, d.NextWeight)
	assert.Equal(t, 6, d.NextReps)
	assert.Equal(t, "no previous data", d.Rationale)
	assert.Equal(t, "S1: 0kg*6", progression.EncodeGoal(decisions))

	// bodyweight exercises without data are not shown as BW
	assert.Equal(t, "S1: 0kg*6", progression.EncodeGoal(progression.NewEngine(1).Decide("Pull-Up", nil)))
}

func TestEngine_Decide_CableBoundary(t *testing.T) {
	best := &progression.BestPerformance{
		Best:       progression.SetPerformance{Weight: 17.5, Reps: 15},
		TargetSets: 1,
	}
	decisions := progression.NewEngine(1).Decide("Cable Fly", best)
	assert.Equal(t, 20.0, decisions[0].NextWeight)

	best.Best.Weight = 20
	decisions = progression.NewEngine(1).Decide("Cable Fly", best)
	assert.Equal(t, 25.0, decisions[0].NextWeight)
}

func TestEngine_Decide_VolumeSets(t *testing.T) {
	best := &progression.BestPerformance{
		Best: progression.SetPerformance{SetNumber: 2, Weight: 60, Reps: 10},
		SessionSets: []progression.SetPerformance{
			{SetNumber: 1, Weight: 40, Reps: 12},
			{SetNumber: 2, Weight: 60, Reps: 10},
			{SetNumber: 3, Weight: 60, Reps: 9},
			{SetNumber: 4, Weight: 50, Reps: 11},
			{SetNumber: 5, Weight: 51, Reps: 4},
		},
		TargetSets: 5,
	}

	decisions := progression.NewEngine(1).Decide("Bench Press", best)
	require.Len(t, decisions, 5)
	assert.Equal(t, "S1: 42.5kg*15 | S2: 60kg*12 | S3: 60kg*10 | S4: 60kg*10 | S5: 60kg*6", progression.EncodeGoal(decisions))

	roles := make([]progression.SetRole, 0, len(decisions))
	for _, d := range decisions {
		roles = append(roles, d.Role)
	}
	assert.Equal(t, []progression.SetRole{
		progression.RoleWarmup,
		progression.RoleWork,
		progression.RoleWork,
		progression.RoleVolume,
		progression.RoleVolume,
	}, roles)
}

func TestEngine_Decide_VolumeSetsFollowWorkReset(t *testing.T) {
	best := &progression.BestPerformance{
		Best: progression.SetPerformance{SetNumber: 4, Weight: 30, Reps: 6},
		SessionSets: []progression.SetPerformance{
			{SetNumber: 1, Weight: 20, Reps: 10},
			{SetNumber: 2, Weight: 25, Reps: 15},
			{SetNumber: 3, Weight: 25, Reps: 15},
			{SetNumber: 4, Weight: 30, Reps: 6},
		},
		TargetSets: 4,
	}

	decisions := progression.NewEngine(1).Decide("Dumbbell Row", best)
	require.Len(t, decisions, 4)
	assert.Equal(t, "S1: 20kg*12 | S2: 27.5kg*6 | S3: 27.5kg*6 | S4: 27.5kg*6", progression.EncodeGoal(decisions))
	assert.Equal(t, progression.RoleVolume, decisions[3].Role)
	assert.False(t, decisions[3].WeightIncreased)
}

func TestEngine_Decide_PaddingToMinSets(t *testing.T) {
	best := &progression.BestPerformance{
		Best: progression.SetPerformance{SetNumber: 2, Weight: 25, Reps: 8},
		SessionSets: []progression.SetPerformance{
			{SetNumber: 1, Weight: 20, Reps: 9},
			{SetNumber: 2, Weight: 25, Reps: 8},
		},
		TargetSets: 2,
	}

	decisions := progression.NewEngine(3).Decide("Dumbbell Shoulder Press", best)
	require.Len(t, decisions, 3)
	assert.Equal(t, "S1: 17.5kg*10 | S2: 25kg*10 | S3: 25kg*10", progression.EncodeGoal(decisions))
	assert.Equal(t, progression.RoleWork, decisions[2].Role)
	assert.Equal(t, "repeats set 2", decisions[2].Rationale)

	// sessions at or above the minimum are left alone
	decisions = progression.NewEngine(2).Decide("Dumbbell Shoulder Press", best)
	assert.Len(t, decisions, 2)
}

func TestEngine_Decide_Bodyweight(t *testing.T) {
	best := &progression.BestPerformance{
		Best: progression.SetPerformance{SetNumber: 2, Weight: 0, Reps: 9},
		SessionSets: []progression.SetPerformance{
			{SetNumber: 1, Weight: 0, Reps: 8},
			{SetNumber: 2, Weight: 0, Reps: 9},
			{SetNumber: 3, Weight: 0, Reps: 15},
		},
		TargetSets: 3,
	}

	decisions := progression.NewEngine(1).Decide("Chin-Up", best)
	require.Len(t, decisions, 3)
	// a reset at bodyweight starts adding load on top of 0
	assert.Equal(t, "S1: BW*10 | S2: BW*10 | S3: 2.5kg*6", progression.EncodeGoal(decisions))

	weighted := &progression.BestPerformance{
		Best:       progression.SetPerformance{Weight: 10, Reps: 12},
		TargetSets: 2,
	}
	decisions = progression.NewEngine(1).Decide("Weighted Pull-Up", weighted)
	// no warm-up reduction for bodyweight exercises
	assert.Equal(t, "S1: 10kg*15 | S2: 10kg*15", progression.EncodeGoal(decisions))
}

// Invariants checked on random histories: rep targets are always ladder
// rungs, weights are on the equipment grid, weight only moves on a reset
// the warm-up never exceeds the work sets and volume sets hold the top work weight.
func TestEngine_Decide_Invariants(t *testing.T) {
	faker := gofakeit.New(7)
	exercises := []string{
		"Dumbbell Press", "Bench Press", "Cable Fly", "Leg Press", "Chin-Up", "Nordic Curl", "Lat Pulldown",
	}
	engine := progression.NewEngine(1)

	for i := 0; i < 500; i++ {
		exercise := exercises[faker.IntRange(0, len(exercises)-1)]
		equipment, _ := progression.ClassifyEquipment(exercise)

		sessionSets := make([]progression.SetPerformance, faker.IntRange(1, 6))
		for j := range sessionSets {
			sessionSets[j] = progression.SetPerformance{
				SetNumber: j + 1,
				Weight:    faker.Float64Range(0, 150),
				Reps:      faker.IntRange(0, 20),
			}
		}
		best := &progression.BestPerformance{
			ExerciseName: exercise,
			Best:         sessionSets[0],
			SessionSets:  sessionSets,
			TargetSets:   len(sessionSets),
		}

		decisions := engine.Decide(exercise, best)
		require.Len(t, decisions, len(sessionSets))

		minWork, maxWork := -1.0, -1.0
		for _, d := range decisions {
			assert.True(t, progression.IsRung(d.NextReps), "reps %d", d.NextReps)
			assert.True(t, equipment.OnGrid(d.NextWeight), "%s weight %v", equipment, d.NextWeight)
			if d.Role == progression.RoleWork {
				if d.WeightIncreased {
					assert.Equal(t, 6, d.NextReps)
					assert.Greater(t, d.NextWeight, equipment.Round(d.CurrentWeight))
				} else {
					assert.Equal(t, equipment.Round(d.CurrentWeight), d.NextWeight)
				}
				if minWork < 0 || d.NextWeight < minWork {
					minWork = d.NextWeight
				}
				if d.NextWeight > maxWork {
					maxWork = d.NextWeight
				}
			}
			if d.Role == progression.RoleVolume {
				assert.Equal(t, maxWork, d.NextWeight, "volume set %d", d.SetNumber)
			}
		}
		if len(decisions) > 1 {
			assert.Equal(t, progression.RoleWarmup, decisions[0].Role)
			assert.LessOrEqual(t, decisions[0].NextWeight, minWork)
		}
	}
}

package progression

// RepLadder holds the only rep targets the engine ever emits.
var RepLadder = []int{6, 8, 10, 12, 15}

const (
	ladderBottom = 6
	ladderTop    = 15
)

// NextReps returns the next rung for the given reps. reset is true when
// the top of the ladder was reached and the weight should go up.
func NextReps(current int) (next int, reset bool) {
	switch {
	case current >= ladderTop:
		return ladderBottom, true
	case current >= 12:
		return 15, false
	case current >= 10:
		return 12, false
	case current >= 8:
		return 10, false
	case current >= 6:
		return 8, false
	default:
		return ladderBottom, false
	}
}

// SnapReps returns the highest rung not above current (6 at minimum).
func SnapReps(current int) int {
	snapped := ladderBottom
	for _, rung := range RepLadder {
		if rung <= current {
			snapped = rung
		}
	}
	return snapped
}

func IsRung(reps int) bool {
	for _, rung := range RepLadder {
		if rung == reps {
			return true
		}
	}
	return false
}

package performance

import (
	"time"

	"github.com/2beens/overload/internal/progression"
)

type Params struct {
	ClientID string
	// From is inclusive, To is exclusive
	From *time.Time
	To   *time.Time
}

// WindowParams limits the read to one client and the [from, to) window.
func WindowParams(clientID string, from, to time.Time) Params {
	return Params{
		ClientID: clientID,
		From:     &from,
		To:       &to,
	}
}

func (p Params) contains(t time.Time) bool {
	if p.From != nil && t.Before(*p.From) {
		return false
	}
	if p.To != nil && !t.Before(*p.To) {
		return false
	}
	return true
}

// Rejection is a piece of history that could not be turned into a valid
// performance record. The planner skips the whole exercise for the client.
type Rejection struct {
	ClientID     string `json:"clientId"`
	WorkoutName  string `json:"workoutName"`
	ExerciseName string `json:"exerciseName"`
	Raw          string `json:"raw"`
	Err          error  `json:"-"`
}

// Batch is the result of a single history read.
type Batch struct {
	Records  []progression.PerformanceRecord
	Rejected []Rejection
}

// add validates the record, routing it either to the records or the rejections.
func (b *Batch) add(r progression.PerformanceRecord, raw string) {
	if err := r.Validate(); err != nil {
		b.Rejected = append(b.Rejected, Rejection{
			ClientID:     r.ClientID,
			WorkoutName:  r.WorkoutName,
			ExerciseName: r.ExerciseName,
			Raw:          raw,
			Err:          err,
		})
		return
	}
	b.Records = append(b.Records, r)
}

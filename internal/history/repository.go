package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/overload/internal/progression"
)

var ErrGoalsNotFound = errors.New("week goals not found")

// Repository stores computed goals keyed by (client, week). Put replaces
// whatever was stored for the same key, so re-runs are idempotent.
//
//go:generate mockgen -source=$GOFILE -destination=repository_mocks_test.go -package=history_test
type Repository interface {
	Get(ctx context.Context, clientID, weekID string) (*progression.WeekGoals, error)
	Put(ctx context.Context, goals *progression.WeekGoals) error
}

// PersistenceError is returned when the week goals of a client could not be stored.
type PersistenceError struct {
	ClientID string
	WeekID   string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist goals [%s / %s]: %s", e.ClientID, e.WeekID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func validateGoals(goals *progression.WeekGoals) error {
	if goals == nil {
		return errors.New("nil week goals")
	}
	if goals.ClientID == "" || goals.WeekID == "" {
		return fmt.Errorf("week goals key incomplete: client [%s], week [%s]", goals.ClientID, goals.WeekID)
	}
	return nil
}

package progression

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHistory = errors.New("no previous data")
	ErrInvalidRecord  = errors.New("invalid performance record")
)

// ParseError is returned when a legacy weight/reps string cannot be read.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse performance [%s]: %s", e.Input, e.Reason)
}

package scoring

import "errors"

var (
	// ErrInvalidScore rejects a loser score outside the legal range for
	// the discipline.
	ErrInvalidScore = errors.New("loser score out of range")

	// ErrInvalidOperation rejects an illegal ball-state transition, such
	// as assigning a ball twice or marking the money ball dead.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrMatchConcluded rejects game events on a match whose winner is
	// already determined.
	ErrMatchConcluded = errors.New("match already concluded")
)

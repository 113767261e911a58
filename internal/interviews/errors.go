package interviews

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoQuestions means a role has no questions for the requested difficulty.
	ErrNoQuestions = errors.New("no questions available")
	// ErrNothingToAggregate means completion was requested before any answer was scored.
	ErrNothingToAggregate = errors.New("no scored answers to aggregate")
	// ErrRoundState means a round was started or completed out of order.
	ErrRoundState = errors.New("round is not in the required state")
)

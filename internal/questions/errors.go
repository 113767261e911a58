package questions

import "errors"

var (
	// ErrGenerationFailed wraps every failure to produce interview questions. It is the
	// only oracle failure that reaches the user.
	ErrGenerationFailed = errors.New("question generation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

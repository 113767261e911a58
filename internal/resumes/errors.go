package resumes

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyText    = errors.New("resume contains no extractable text")
)

package score

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatible is returned when two scores have different level counts.
	ErrIncompatible = errors.New("incompatible score shapes")

	// ErrInitScoreSet is returned when the init score is set more than once.
	ErrInitScoreSet = errors.New("init score already set")

	// ErrParse is wrapped by every *ParseError.
	ErrParse = errors.New("invalid score string")

	// ErrLevelOutOfRange is the panic value cause for an invalid level index.
	ErrLevelOutOfRange = errors.New("score level out of range")
)

// ParseError identifies the offending token of a malformed score string.
type ParseError struct {
	Input   string
	Token   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("score string (%s) doesn't follow the pattern %s: %s (%s)",
		e.Input, pattern, e.Message, e.Token)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

func outOfRange(kind string, i, size int) error {
	return fmt.Errorf("%w: %s level %d not in [0, %d)", ErrLevelOutOfRange, kind, i, size)
}

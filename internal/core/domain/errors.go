package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrRemoteCallFailed = errors.New("remote call failed")
	ErrInternal         = errors.New("internal server error")

	ErrPollNotFound       = fmt.Errorf("poll %w", ErrNotFound)
	ErrVotingItemNotFound = fmt.Errorf("voting item %w", ErrNotFound)
)

// Errorf returns an error of the given kind whose message is the formatted
// text alone, so it can be shown to clients as is. errors.Is(err, kind) holds.
func Errorf(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

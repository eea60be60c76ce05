package column

import "github.com/pkg/errors"

// ParseError and NotImplementedError are the two distinct error kinds
// spec.md §7 calls out at this layer, besides an unchanged IOError
// passthrough from the underlying streams. Both are returned wrapped by
// pkg/errors.WithStack; callers recover them with errors.Cause, since the
// pinned pkg/errors v0.8.1 wrapper has no Unwrap method and the standard
// library's errors.As does not see through it.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string { return "column: parse error: " + e.msg }

func newParseError(format string, args ...interface{}) error {
	return errors.WithStack(&ParseError{msg: errors.Errorf(format, args...).Error()})
}

type NotImplementedError struct {
	msg string
}

func (e *NotImplementedError) Error() string { return "column: not implemented: " + e.msg }

func newNotImplementedError(format string, args ...interface{}) error {
	return errors.WithStack(&NotImplementedError{msg: errors.Errorf(format, args...).Error()})
}

// Package fault holds the error values shared by the loader.
//
// Simple conditions are single string instances so they can be compared
// directly. The three pass-fatal conditions (allocation, source
// unavailable, parse) are structured types carrying context; use the
// IsErr helpers or errors.As to detect them through wrapping.
package fault

import (
	"errors"
	"fmt"
)

// GenericError is the base for all string errors.
type GenericError string

// classes of string errors
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ErrInvalidCapacity    = InvalidError("initial capacity must be positive")
	ErrInvalidJob         = InvalidError("job line is invalid")
	ErrInvalidLogDir      = InvalidError("log directory is not set")
	ErrInvalidLogLevel    = InvalidError("log level is invalid")
	ErrInvalidMemoryLimit = InvalidError("memory limit must not be negative")
	ErrInvalidProgress    = InvalidError("progress interval must not be negative")
	ErrInvalidRepeats     = InvalidError("repeat count must be positive")
	ErrInvalidStrategy    = InvalidError("storage strategy is invalid")
	ErrNoFiles            = InvalidError("no files to process")
	ErrNotFoundConfigFile = NotFoundError("config file is not found")
	ErrConfigNotTable     = ProcessError("config file did not return a table")
	ErrVerifyChecksum     = ProcessError("stored record does not match its checksum")
	ErrVerifyCount        = ProcessError("traversal count differs from stored length")
	ErrVerifyLinks        = ProcessError("list tail is not reachable from its head")
	ErrVerifyOrder        = ProcessError("stored records are out of order")
)

func (e GenericError) Error() string  { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }

// AllocationError reports a storage reservation that could not be satisfied.
type AllocationError struct {
	Requested int64 // bytes asked for
	InUse     int64 // bytes already reserved at the time
	Limit     int64 // allocator limit, 0 when unlimited
}

func (e *AllocationError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("allocation of %d bytes failed: %d of %d bytes in use", e.Requested, e.InUse, e.Limit)
	}
	return fmt.Sprintf("allocation of %d bytes failed", e.Requested)
}

// SourceUnavailableError reports a record source that could not be opened.
type SourceUnavailableError struct {
	Path string
	Err  error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("failure opening %s: %v", e.Path, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// ParseError reports malformed input in the middle of a stream.
type ParseError struct {
	Path   string
	Line   int
	Detail string
	Err    error // underlying read error, if any
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	if e.Line > 0 {
		return fmt.Sprintf("failure at line %d of '%s': %s", e.Line, where, e.Detail)
	}
	return fmt.Sprintf("failure while processing '%s': %s", where, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

func IsErrAllocation(e error) bool {
	var t *AllocationError
	return errors.As(e, &t)
}

func IsErrSourceUnavailable(e error) bool {
	var t *SourceUnavailableError
	return errors.As(e, &t)
}

func IsErrParse(e error) bool {
	var t *ParseError
	return errors.As(e, &t)
}

// Kind returns a short label for the class of err, used as a metrics label.
func Kind(e error) string {
	switch {
	case e == nil:
		return "ok"
	case IsErrAllocation(e):
		return "allocation"
	case IsErrSourceUnavailable(e):
		return "source_unavailable"
	case IsErrParse(e):
		return "parse"
	case IsErrInvalid(e):
		return "invalid"
	case IsErrProcess(e):
		return "process"
	}
	return "unknown"
}

package rawpipe

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the core's fatal error categories (§7). Errors
// are fatal to the current operation: the buffer may already have been
// partially mutated and must be discarded rather than retried in place.
type Kind int

const (
	// InvalidBlackArea: a masked strip extends past the uncropped image.
	InvalidBlackArea Kind = iota
	// OutOfMemory: SIMD scratch allocation failed.
	OutOfMemory
	// Unimplemented: doLookup invoked with ntables > 1.
	Unimplemented
)

func (k Kind) String() string {
	switch k {
	case InvalidBlackArea:
		return "InvalidBlackArea"
	case OutOfMemory:
		return "OutOfMemory"
	case Unimplemented:
		return "Unimplemented"
	default:
		return "Unknown"
	}
}

// DecodeError is the core's fatal error type. It wraps an underlying
// cause (if any) with github.com/pkg/errors so callers that log the
// error get a capture-time stack trace, matching the error-wrapping
// convention the rest of the dependency pack (ausocean/av) uses instead
// of bare fmt.Errorf.
type DecodeError struct {
	Kind Kind
	msg  string
	err  error
}

func (e *DecodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("rawpipe: %s: %s: %v", e.Kind, e.msg, e.err)
	}
	return fmt.Sprintf("rawpipe: %s: %s", e.Kind, e.msg)
}

func (e *DecodeError) Unwrap() error { return e.err }

func newDecodeErrorf(kind Kind, format string, args ...interface{}) error {
	return errors.WithStack(&DecodeError{Kind: kind, msg: fmt.Sprintf(format, args...)})
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *DecodeError, and reports whether one was found.
func KindOf(err error) (Kind, bool) {
	var de *DecodeError
	for err != nil {
		if d, ok := err.(*DecodeError); ok {
			de = d
			break
		}
		err = errors.Unwrap(err)
	}
	if de == nil {
		return 0, false
	}
	return de.Kind, true
}

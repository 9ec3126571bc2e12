package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/serene/internal/logger"
)

// Kind classifies a failure by how the client recovers from it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindSourceUnavailable: one dashboard source failed; the field falls back to empty.
	KindSourceUnavailable
	// KindMutationFailed: a create/delete was rejected; surfaced as rollback or notice.
	KindMutationFailed
	// KindExchangeFailed: a chat request failed; surfaced as a fallback turn.
	KindExchangeFailed
	// KindCredentialUnavailable: no session token could be obtained.
	KindCredentialUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindSourceUnavailable:
		return "source unavailable"
	case KindMutationFailed:
		return "mutation failed"
	case KindExchangeFailed:
		return "exchange failed"
	case KindCredentialUnavailable:
		return "credential unavailable"
	default:
		return "unknown"
	}
}

// Error is a classified failure raised at the boundary of a client operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and the operation that produced it.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err has the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

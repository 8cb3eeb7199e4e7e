package interfaces

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed contract operation.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindAuthorization
	KindReplay
	KindState
	KindExternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindReplay:
		return "replay"
	case KindState:
		return "state"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// ParseErrorKind is the inverse of ErrorKind.String.
func ParseErrorKind(s string) ErrorKind {
	for k := KindValidation; k <= KindExternal; k++ {
		if k.String() == s {
			return k
		}
	}
	return KindUnknown
}

// Error is a reverted operation. Reason is the revert string observable by
// callers. External errors wrap the callee's error in Err.
type Error struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Reason == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind and reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Reason == e.Reason
}

func NewValidationError(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func NewAuthorizationError(reason string) *Error {
	return &Error{Kind: KindAuthorization, Reason: reason}
}

func NewReplayError(reason string) *Error {
	return &Error{Kind: KindReplay, Reason: reason}
}

func NewStateError(reason string) *Error {
	return &Error{Kind: KindState, Reason: reason}
}

// NewExternalCallError wraps the failure of a called contract. The message of
// err is kept as the reason so callers observe it unchanged.
func NewExternalCallError(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindExternal, Reason: err.Error(), Err: err}
}

// Errorf builds an *Error of the given kind with a formatted reason.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Reason returns the revert reason of err, falling back to its message.
func Reason(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

package interpreter

import (
	"errors"
	"fmt"

	"libinterpreter/interpreter-go/pkg/runtime"
)

// ErrorKind classifies soft script errors.
type ErrorKind string

const (
	KindUndefinedVariable     ErrorKind = "UndefinedVariable"
	KindUndefinedFunction     ErrorKind = "UndefinedFunction"
	KindArgumentMismatch      ErrorKind = "ArgumentMismatch"
	KindMissingReturn         ErrorKind = "MissingReturn"
	KindTypeMismatch          ErrorKind = "TypeMismatch"
	KindDivideByZero          ErrorKind = "DivideByZero"
	KindModulusByZero         ErrorKind = "ModulusByZero"
	KindStackUnderflow        ErrorKind = "StackUnderflow"
	KindStackOverflow         ErrorKind = "StackOverflow"
	KindInfiniteLoop          ErrorKind = "InfiniteLoopDetected"
	KindReturnOutsideFunction ErrorKind = "ReturnOutsideFunction"
	KindRaisedException       ErrorKind = "RaisedException"
	KindUnsupported           ErrorKind = "Unsupported"
	KindInvalidStatement      ErrorKind = "InvalidStatement"
	KindParseFailure          ErrorKind = "ParseFailure"
	KindHostFailure           ErrorKind = "HostFailure"
)

// ScriptError is a recoverable script failure. It stops the run but is never
// raised as a panic.
type ScriptError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Is matches any ScriptError of the same kind, so callers can write
// errors.Is(err, &ScriptError{Kind: KindDivideByZero}).
func (e *ScriptError) Is(target error) bool {
	t, ok := target.(*ScriptError)
	return ok && t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *ScriptError {
	return &ScriptError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wrapError keeps script errors intact and classifies everything else.
func wrapError(kind ErrorKind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var script *ScriptError
	if errors.As(err, &script) {
		return err
	}
	var coercion *runtime.CoercionError
	if errors.As(err, &coercion) {
		kind = KindTypeMismatch
	}
	message := fmt.Sprintf(format, args...)
	if message == "" {
		message = err.Error()
	} else {
		message = message + ": " + err.Error()
	}
	return &ScriptError{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is a ScriptError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return errors.Is(err, &ScriptError{Kind: kind})
}

// KindOf returns the kind of a ScriptError, or "" for other errors.
func KindOf(err error) ErrorKind {
	var script *ScriptError
	if errors.As(err, &script) {
		return script.Kind
	}
	return ""
}

// Package errors wraps the standard library errors with message context, structured annotations and the stack
// trace of where the error was first created, all of which are emitted by SlogError.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

const maxStackDepth = 32

type annotatedError struct {
	err         error
	msg         string
	annotations []slog.Attr
	stack       []uintptr
}

func (e *annotatedError) Error() string {
	switch {
	case e.err == nil:
		return e.msg
	case e.msg == "":
		return e.err.Error()
	default:
		return e.msg + ": " + e.err.Error()
	}
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callers records the stack of the caller of the exported function that invoked it.
func callers() []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(3, pcs) //nolint:mnd // skip runtime.Callers, callers and the exported function
	return pcs[:n]
}

// New returns an error with msg and the current stack trace.
//
// Use NewSentinel for package level error variables.
func New(msg string, annotations ...slog.Attr) error {
	return &annotatedError{err: nil, msg: msg, annotations: annotations, stack: callers()}
}

// NewSentinel returns a plain error without stack trace suitable for comparison with Is.
func NewSentinel(msg string) error {
	return errors.New(msg) //nolint:err113 // this is the sentinel constructor
}

// Wrap adds msg and annotations to err. The stack trace is only captured if err does not carry one yet.
// Wrap returns nil if err is nil.
func Wrap(err error, msg string, annotations ...slog.Attr) error {
	if err == nil {
		return nil
	}
	var stack []uintptr
	var ae *annotatedError
	if !errors.As(err, &ae) {
		stack = callers()
	}
	return &annotatedError{err: err, msg: msg, annotations: annotations, stack: stack}
}

// DecoratePanic converts a recovered panic value into an error with the stack trace of the panic.
// It returns nil if v is nil.
func DecoratePanic(v any) error {
	if v == nil {
		return nil
	}
	var err error
	if e, ok := v.(error); ok {
		err = fmt.Errorf("panic: %w", e)
	} else {
		err = fmt.Errorf("panic: %v", v) //nolint:err113 // the panic value is only known at runtime
	}
	return &annotatedError{err: err, msg: "", annotations: nil, stack: callers()}
}

// SlogError turns err into a structured log attribute with the message, the collected annotations and the
// innermost stack trace.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	var (
		annotations []any
		stack       []uintptr
	)
	walk(err, func(ae *annotatedError) {
		for _, a := range ae.annotations {
			annotations = append(annotations, a)
		}
		if len(ae.stack) > 0 {
			stack = ae.stack
		}
	})

	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if len(stack) > 0 {
		attrs = append(attrs, slog.String("stack_trace", formatStack(stack)))
	}
	return slog.Group("error", attrs...)
}

// walk visits the annotated errors in the tree from outermost to innermost.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // walking the tree manually
		visit(ae)
	}
	switch u := err.(type) { //nolint:errorlint // walking the tree manually
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walk(e, visit)
		}
	}
}

func formatStack(stack []uintptr) string {
	var b strings.Builder
	frames := runtime.CallersFrames(stack)
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "runtime.") {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			_, _ = fmt.Fprintf(&b, "%s %s:%d", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return b.String()
}

// Is reports whether any error in err's tree matches target. See [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target. See [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err. See [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join returns an error that wraps the given errors. See [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}

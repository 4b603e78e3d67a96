package perr

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// Error is a step failure seen through the pipelines it crossed.
type Error struct {
	message string
	stacks  []string
	cause   error
}

// New creates an Error with its first context line. An empty line is not
// recorded.
func New(message string, cause error, line string) *Error {
	e := &Error{message: message, cause: cause}
	if line != "" {
		e.stacks = append(e.stacks, line)
	}
	return e
}

// Wrap uses the cause's own text as the message.
func Wrap(cause error, line string) *Error {
	return New(cause.Error(), cause, line)
}

// AppendStack records one more enclosing frame and returns the same Error.
func (e *Error) AppendStack(line string) *Error {
	e.stacks = append(e.stacks, line)
	return e
}

func (e *Error) Error() string {
	return e.message + "\n" + e.Stacks()
}

func (e *Error) Message() string { return e.message }

func (e *Error) Unwrap() error { return e.cause }

// Lines returns the context lines, innermost first.
func (e *Error) Lines() []string {
	return append([]string(nil), e.stacks...)
}

func (e *Error) Stacks() string {
	return strings.Join(e.stacks, "\n")
}

// As reports whether err is, or wraps, an *Error.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// PanicError is the cause recorded when a step panics. Stack is captured at
// the recover site, inside the deferred call, so it still shows the frames of
// the panicking step.
type PanicError struct {
	Value any
	Stack []byte
}

func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("%v", p.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (p *PanicError) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// Trace returns the stack captured when the panic was recovered.
func (p *PanicError) Trace() string {
	return string(p.Stack)
}

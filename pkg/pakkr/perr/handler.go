package perr

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Handler renders an error that reached the outermost pipeline.
type Handler func(w io.Writer, err *Error)

var (
	handlerMu sync.Mutex
	handler   Handler = Render
)

// SetHandler installs h process-wide and returns a func restoring the previous
// handler. A nil h restores Render.
func SetHandler(h Handler) (restore func()) {
	if h == nil {
		h = Render
	}
	handlerMu.Lock()
	prev := handler
	handler = h
	handlerMu.Unlock()

	return func() {
		handlerMu.Lock()
		handler = prev
		handlerMu.Unlock()
	}
}

// Handle passes err to the installed handler.
func Handle(w io.Writer, err *Error) {
	handlerMu.Lock()
	h := handler
	handlerMu.Unlock()
	h(w, err)
}

// Render prints the original cause, with its stack when one was captured,
// followed by the context chain. The wrapper itself contributes no trace.
func Render(w io.Writer, err *Error) {
	cause := err.Unwrap()
	if cause == nil {
		_, _ = fmt.Fprintln(w, err.Error())
		return
	}

	var tracer interface{ Trace() string }
	if errors.As(cause, &tracer) {
		_, _ = fmt.Fprintf(w, "panic: %v\n\n%s\n", cause, tracer.Trace())
	} else {
		_, _ = fmt.Fprintf(w, "%T: %v\n", cause, cause)
	}
	_, _ = fmt.Fprintln(w, err.Stacks())
}

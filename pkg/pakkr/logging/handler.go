package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const indentWidth = 4

// IndentHandler prefixes every record message with depth-based indentation and
// the identity of the unit that logged it.
type IndentHandler struct {
	inner    slog.Handler
	depth    int
	identity string
}

func NewHandler(inner slog.Handler, depth int, identity string) *IndentHandler {
	if depth < 0 {
		depth = 0
	}
	return &IndentHandler{inner: inner, depth: depth, identity: identity}
}

// New returns a logger for the unit identified by identity at depth, built on
// the handler of base.
func New(base *slog.Logger, depth int, identity string) *slog.Logger {
	inner := base.Handler()
	if h, ok := inner.(*IndentHandler); ok {
		inner = h.inner
	}
	return slog.New(NewHandler(inner, depth, identity))
}

// Prefix is what Handle puts in front of a message.
func (h *IndentHandler) Prefix() string {
	return strings.Repeat(" ", indentWidth*h.depth) + h.identity + " - "
}

func (h *IndentHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *IndentHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.Prefix()+r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(a)
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *IndentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &IndentHandler{inner: h.inner.WithAttrs(attrs), depth: h.depth, identity: h.identity}
}

func (h *IndentHandler) WithGroup(name string) slog.Handler {
	return &IndentHandler{inner: h.inner.WithGroup(name), depth: h.depth, identity: h.identity}
}

// Default is a colored console logger for command-line use.
func Default(w io.Writer, level slog.Level) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  false,
		TimeFormat: time.TimeOnly,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}

// Discard drops everything. Pipelines use it unless a logger is configured.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

package step

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/ib-77/pakkr/pkg/pakkr/perr"
)

// Input is the bound call of one step.
type Input struct {
	args    []any
	rest    []any
	values  map[string]any
	keyword map[string]any
	meta    map[string]any
	logger  *slog.Logger
}

// NewInput builds an Input by hand, binding args to params the way Bind
// does. It is meant for calling a step body outside a pipeline, in tests.
func NewInput(params []Param, named map[string]any, positional ...any) (Input, error) {
	return bind(positional, named, params, "input", nil)
}

// Len is the number of positional values passed.
func (in Input) Len() int { return len(in.args) }

// At returns positional value i, nil when out of range.
func (in Input) At(i int) any {
	if i < 0 || i >= len(in.args) {
		return nil
	}
	return in.args[i]
}

// Args returns all positional values passed.
func (in Input) Args() []any { return slices.Clone(in.args) }

// Rest returns the positional values taken by the variadic parameter.
func (in Input) Rest() []any { return slices.Clone(in.rest) }

// Get returns the value bound to the parameter name, nil when there is none.
func (in Input) Get(name string) any { return in.values[name] }

func (in Input) Lookup(name string) (any, bool) {
	v, ok := in.values[name]
	return v, ok
}

// Meta returns the named values captured by the meta parameter, nil when the
// step declares none.
func (in Input) Meta() map[string]any { return in.meta }

// Logger is the logger scoped to this step.
func (in Input) Logger() *slog.Logger {
	if in.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return in.logger
}

// Keyword returns the values bound by name rather than by position, together
// with the captured meta.
func (in Input) Keyword() map[string]any {
	out := maps.Clone(in.keyword)
	if out == nil {
		out = map[string]any{}
	}
	maps.Copy(out, in.meta)
	return out
}

// Value returns the parameter bound under name as a T.
func Value[T any](in Input, name string) (T, error) {
	var zero T
	v, ok := in.values[name]
	if !ok {
		return zero, fmt.Errorf("parameter '%s' is not bound", name)
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("parameter '%s' is %s, not %T", name, perr.TypeName(v), zero)
	}
	return t, nil
}

// Bind resolves the call arguments of s from the positional values of the
// previous step and the named values accumulated so far. logger is the
// logger scoped to s; it is offered as the named value "logger".
func Bind(positional []any, named map[string]any, s Step, logger *slog.Logger) (Input, error) {
	return bind(positional, named, s.Params(), Identifier(s), logger)
}

func bind(positional []any, named map[string]any, params []Param, identity string, logger *slog.Logger) (Input, error) {
	var regular []Param
	var capture, rest *Param
	for i := range params {
		switch params[i].Kind {
		case CaptureMeta:
			capture = &params[i]
		case Variadic:
			rest = &params[i]
		default:
			regular = append(regular, params[i])
		}
	}

	if len(positional) > len(regular) && rest == nil {
		return Input{}, &ArityError{Identity: identity, Want: len(regular), Got: len(positional)}
	}

	available := maps.Clone(named)
	if available == nil {
		available = map[string]any{}
	}
	if logger != nil {
		available[loggerKey] = logger
	}

	in := Input{
		args:    slices.Clone(positional),
		values:  map[string]any{},
		keyword: map[string]any{},
		logger:  logger,
	}
	for i, p := range regular {
		if i < len(positional) {
			in.values[p.Name] = positional[i]
			continue
		}
		v, ok := available[p.Name]
		if !ok && p.HasDefault {
			v, ok = p.Default, true
		}
		if !ok {
			return Input{}, &MissingArgumentError{
				Name:     p.Name,
				Identity: identity,
				Context:  perr.MissingContext(identity, positional, available),
			}
		}
		in.values[p.Name] = v
		in.keyword[p.Name] = v
	}
	if rest != nil && len(positional) > len(regular) {
		in.rest = slices.Clone(positional[len(regular):])
	}
	if rest != nil {
		in.values[rest.Name] = in.rest
	}
	if capture != nil {
		in.meta = available
		in.values[capture.Name] = available
	}
	return in, nil
}

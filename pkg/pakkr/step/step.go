package step

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ib-77/pakkr/pkg/pakkr/args"
	"github.com/ib-77/pakkr/pkg/pakkr/returns"
	"github.com/spf13/pflag"
)

type ParamKind int

const (
	Positional ParamKind = iota
	CaptureMeta
	Variadic
)

// Param is a formal parameter.
type Param struct {
	Name       string
	Kind       ParamKind
	Default    any
	HasDefault bool
}

// Arg is a required parameter, filled by position or by name.
func Arg(name string) Param {
	return Param{Name: name, Kind: Positional}
}

// Opt is a parameter falling back to def when neither a positional nor a
// named value is available.
func Opt(name string, def any) Param {
	return Param{Name: name, Kind: Positional, Default: def, HasDefault: true}
}

// Meta receives every named value available to the step.
func Meta(name string) Param {
	return Param{Name: name, Kind: CaptureMeta}
}

// Rest receives the positional values beyond the declared ones.
func Rest(name string) Param {
	return Param{Name: name, Kind: Variadic}
}

// Step is anything a pipeline can run.
type Step interface {
	Name() string
	// Kind names the sort of step in diagnostics, e.g. "Step" or "Pipeline"
	Kind() string
	Params() []Param
	// Returns is the declared output contract, nil when there is none
	Returns() returns.Contract
	Invoke(ctx context.Context, in Input) (any, error)
}

// ArgumentAdder is implemented by steps that register command-line flags.
type ArgumentAdder interface {
	AddArguments(fs *pflag.FlagSet) *pflag.FlagSet
}

// Identifier renders a step for logs and error context: "name"<Kind>.
func Identifier(s Step) string {
	return fmt.Sprintf("\"%s\"<%s>", s.Name(), s.Kind())
}

// Fn is the body of a Func.
type Fn func(ctx context.Context, in Input) (any, error)

// Func wraps a function with its declarations.
type Func struct {
	name    string
	fn      Fn
	params  []Param
	returns returns.Contract
	args    args.Spec

	returnsSet bool
	argsSet    bool
}

type Option func(f *Func) error

// WithParams declares the formal parameters.
func WithParams(params ...Param) Option {
	return func(f *Func) error {
		f.params = append(f.params, params...)
		return nil
	}
}

// WithReturns attaches an output contract. A step declares at most one.
func WithReturns(c returns.Contract) Option {
	return func(f *Func) error {
		if f.returnsSet {
			return configError("returns have been declared on %q already", f.name)
		}
		if c == nil {
			return configError("nil contract declared on %q", f.name)
		}
		f.returns, f.returnsSet = c, true
		return nil
	}
}

// Returning declares the contract from positional types and named fields,
// see returns.Declare.
func Returning(types []returns.Type, fields returns.Fields) Option {
	return func(f *Func) error {
		c, err := returns.Declare(types, fields)
		if err != nil {
			return err
		}
		return WithReturns(c)(f)
	}
}

// WithArguments attaches command-line flags feeding the step's parameters.
// A step declares at most one spec.
func WithArguments(spec ...args.Argument) Option {
	return func(f *Func) error {
		if f.argsSet {
			return configError("arguments have been declared on %q already", f.name)
		}
		f.args, f.argsSet = spec, true
		return nil
	}
}

// New builds a Func. Declarations are checked here, never at call time.
func New(name string, fn Fn, opts ...Option) (*Func, error) {
	if fn == nil {
		return nil, configError("step %q has no function", name)
	}
	f := &Func{name: name, fn: fn}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	if err := checkParams(name, f.params); err != nil {
		return nil, err
	}
	if err := checkArguments(name, f.args, f.params); err != nil {
		return nil, err
	}
	return f, nil
}

func MustNew(name string, fn Fn, opts ...Option) *Func {
	f, err := New(name, fn, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Func) Name() string { return f.name }

func (f *Func) Kind() string { return "Step" }

func (f *Func) Params() []Param { return slices.Clone(f.params) }

func (f *Func) Returns() returns.Contract { return f.returns }

func (f *Func) Invoke(ctx context.Context, in Input) (any, error) {
	return f.fn(ctx, in)
}

func (f *Func) AddArguments(fs *pflag.FlagSet) *pflag.FlagSet {
	return f.args.AddArguments(fs)
}

func checkParams(name string, params []Param) error {
	seen := map[string]bool{}
	var captures, rests int
	for i, p := range params {
		if p.Name == "" {
			return configError("step %q: parameter %d has no name", name, i)
		}
		if seen[p.Name] {
			return configError("step %q: duplicate parameter '%s'", name, p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case CaptureMeta:
			captures++
		case Variadic:
			rests++
		case Positional:
			if rests > 0 {
				return configError("step %q: parameter '%s' follows the variadic parameter", name, p.Name)
			}
		}
	}
	if captures > 1 || rests > 1 {
		return configError("step %q: at most one meta and one variadic parameter", name)
	}
	return nil
}

func checkArguments(name string, spec args.Spec, params []Param) error {
	kinds := map[string]ParamKind{}
	for _, p := range params {
		kinds[p.Name] = p.Kind
	}
	for _, dest := range spec.Dests() {
		kind, ok := kinds[dest]
		if !ok {
			return configError("'%s' is not an argument of %q.", dest, name)
		}
		if kind != Positional {
			return configError("'%s' should be a positional or keyword argument of %q.", dest, name)
		}
	}
	return nil
}

// loggerKey is the named value under which a step finds its scoped logger.
const loggerKey = "logger"

// LoggerFrom returns the logger injected into a captured meta mapping.
func LoggerFrom(meta map[string]any) (*slog.Logger, bool) {
	l, ok := meta[loggerKey].(*slog.Logger)
	return l, ok
}

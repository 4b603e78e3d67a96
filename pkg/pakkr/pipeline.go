package pakkr

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/ib-77/pakkr/pkg/pakkr/returns"
	"github.com/ib-77/pakkr/pkg/pakkr/step"
	"github.com/spf13/pflag"
)

// ErrConfiguration matches pipelines rejected at definition time.
var ErrConfiguration = errors.New("pipeline configuration")

// Pipeline is an ordered sequence of steps. It is immutable once built and
// may be run any number of times, including recursively.
type Pipeline struct {
	name           string
	steps          []step.Step
	folded         returns.Contract
	override       returns.Contract
	suppressTiming bool
}

type Option func(p *Pipeline) error

// WithName sets the identity used in logs and error context. Unnamed
// pipelines get "unnamed_" followed by a random id.
func WithName(name string) Option {
	return func(p *Pipeline) error {
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrConfiguration)
		}
		p.name = name
		return nil
	}
}

// WithReturns narrows what the pipeline returns. c must be satisfiable by the
// contract folded from the steps.
func WithReturns(c returns.Contract) Option {
	return func(p *Pipeline) error {
		if c == nil {
			return fmt.Errorf("%w: nil contract", ErrConfiguration)
		}
		p.override = c
		return nil
	}
}

// WithoutTiming turns off the starting / finished log lines of the pipeline
// and of its steps.
func WithoutTiming() Option {
	return func(p *Pipeline) error {
		p.suppressTiming = true
		return nil
	}
}

// New builds a pipeline from steps run in order. With no steps the
// pipeline passes its arguments through; an override is then checked against
// those arguments when it runs.
func New(steps []step.Step, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{steps: slices.Clone(steps)}

	contracts := make([]returns.Contract, len(p.steps))
	for i, s := range p.steps {
		if s == nil {
			return nil, fmt.Errorf("%w: step %d is nil", ErrConfiguration, i)
		}
		contracts[i] = s.Returns()
	}
	if len(p.steps) > 0 {
		p.folded = returns.Fold(contracts...)
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.name == "" {
		p.name = "unnamed_" + uuid.NewString()
	}
	if p.override != nil && p.folded != nil {
		if err := p.folded.IsSupersetOf(p.override); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func MustNew(steps []step.Step, opts ...Option) *Pipeline {
	p, err := New(steps, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// WithReturns returns a copy of p narrowed to c.
func (p *Pipeline) WithReturns(c returns.Contract) (*Pipeline, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil contract", ErrConfiguration)
	}
	if p.folded != nil {
		if err := p.folded.IsSupersetOf(c); err != nil {
			return nil, err
		}
	}
	cp := *p
	cp.override = c
	return &cp, nil
}

func (p *Pipeline) Name() string { return p.name }

func (p *Pipeline) Kind() string { return "Pipeline" }

// Params takes every positional value and every named value on offer.
func (p *Pipeline) Params() []step.Param {
	return []step.Param{step.Rest("args"), step.Meta("meta")}
}

// Returns is the explicit override when set, otherwise the contract folded
// from the steps. A pipeline without steps and without an override declares
// nothing and hands its arguments back unchanged.
func (p *Pipeline) Returns() returns.Contract {
	if p.override != nil {
		return p.override
	}
	return p.folded
}

func (p *Pipeline) Steps() []step.Step {
	return slices.Clone(p.steps)
}

// AddArguments registers the flags of every step, in step order.
func (p *Pipeline) AddArguments(fs *pflag.FlagSet) *pflag.FlagSet {
	for _, s := range p.steps {
		if a, ok := s.(step.ArgumentAdder); ok {
			fs = a.AddArguments(fs)
		}
	}
	return fs
}

// Call runs the pipeline with positional arguments only.
func (p *Pipeline) Call(ctx context.Context, args ...any) (any, error) {
	return p.run(ctx, args, nil)
}

// CallWithMeta runs the pipeline with positional arguments and initial named
// values.
func (p *Pipeline) CallWithMeta(ctx context.Context, meta map[string]any, args ...any) (any, error) {
	return p.run(ctx, args, meta)
}

// Invoke runs the pipeline as a step of an enclosing pipeline. The logger
// scoped to the step is dropped: the pipeline scopes its own.
func (p *Pipeline) Invoke(ctx context.Context, in step.Input) (any, error) {
	meta := maps.Clone(in.Meta())
	delete(meta, "logger")
	return p.run(ctx, in.Args(), meta)
}

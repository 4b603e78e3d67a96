package pakkr

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/ib-77/pakkr/pkg/pakkr/core"
	"github.com/ib-77/pakkr/pkg/pakkr/frames"
	"github.com/ib-77/pakkr/pkg/pakkr/logging"
	"github.com/ib-77/pakkr/pkg/pakkr/perr"
	"github.com/ib-77/pakkr/pkg/pakkr/returns"
	"github.com/ib-77/pakkr/pkg/pakkr/step"
)

// invocation is the state owned by one run of a pipeline.
type invocation struct {
	frame      *frames.Frame
	base       *slog.Logger
	suppressed bool

	positional returns.Tuple
	named      map[string]any
	// meta collects only what the steps returned, for the pipeline's own result
	meta map[string]any
}

func (p *Pipeline) run(ctx context.Context, args []any, meta map[string]any) (any, error) {
	ctx, frame := frames.Enter(ctx, p, step.Identifier(p))

	inv := &invocation{
		frame:      frame,
		base:       core.GetLogger(ctx, logging.Discard()),
		suppressed: p.suppressTiming || core.IsTimingSuppressed(ctx, false),
		positional: slices.Clone(returns.Tuple(args)),
		named:      maps.Clone(meta),
		meta:       map[string]any{},
	}
	if inv.named == nil {
		inv.named = map[string]any{}
	}

	logger := logging.New(inv.base, frame.Depth, frame.Identity)
	finished := logging.Time(logger, inv.suppressed)

	positional, named, err := p.execute(ctx, inv)
	if err != nil {
		return nil, p.fail(ctx, frame, err, args, meta)
	}
	finished()

	return p.shape(frame.Class, positional, named), nil
}

func (p *Pipeline) execute(ctx context.Context, inv *invocation) (returns.Tuple, map[string]any, error) {
	for _, s := range p.steps {
		if err := p.runStep(ctx, inv, s); err != nil {
			return nil, nil, err
		}
	}
	c := p.Returns()
	if c == nil {
		return inv.positional, inv.meta, nil
	}
	return c.Narrow(inv.positional, inv.meta)
}

func (p *Pipeline) runStep(ctx context.Context, inv *invocation, s step.Step) error {
	identity := step.Identifier(s)
	logger := logging.New(inv.base, inv.frame.Depth+1, identity)

	in, err := step.Bind(inv.positional, inv.named, s, logger)
	if err != nil {
		var missing *step.MissingArgumentError
		if errors.As(err, &missing) {
			return perr.New(err.Error(), err, missing.Context)
		}
		return perr.Wrap(err, perr.StepContext(identity, inv.positional, nil, inv.named))
	}

	_, nested := s.(*Pipeline)
	raw, err := dispatch(ctx, s, in, logger, inv.suppressed || nested)
	if err != nil {
		if pe, ok := perr.As(err); ok {
			return pe
		}
		return perr.Wrap(err, perr.StepContext(identity, in.Args(), in.Keyword(), inv.named))
	}

	positional, named := returns.Tuple{raw}, map[string]any{}
	if c := s.Returns(); c != nil {
		positional, named, err = c.Validate(raw)
		if err != nil {
			return err
		}
	}

	inv.positional = positional
	maps.Copy(inv.named, named)
	maps.Copy(inv.meta, named)
	return nil
}

// dispatch runs one step with the frame marked as dispatching it. A panic in
// the step becomes a *perr.PanicError carrying the panicking stack.
func dispatch(ctx context.Context, s step.Step, in step.Input,
	logger *slog.Logger, suppressed bool) (raw any, err error) {

	ctx = frames.Dispatch(ctx, s)
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, perr.NewPanicError(r)
		}
	}()

	finished := logging.Time(logger, suppressed)
	raw, err = s.Invoke(ctx, in)
	if err == nil {
		finished()
	}
	return raw, err
}

// fail adds this pipeline to the context chain of a step failure. Contract
// violations are programmer errors and pass through untouched.
func (p *Pipeline) fail(ctx context.Context, frame *frames.Frame, err error, args []any, meta map[string]any) error {
	pe, ok := perr.As(err)
	if !ok {
		return err
	}
	pe.AppendStack(perr.StepContext(frame.Identity, args, meta, nil))

	if frame.Depth == 0 {
		if w := core.GetFailureOutput(ctx, nil); w != nil {
			perr.Handle(w, pe)
		}
	}
	return pe
}

// shape builds the value a caller sees. Only a declared step of an enclosing
// pipeline gets the named values, laid out so that the enclosing pipeline's
// Validate of this pipeline's contract recovers them.
func (p *Pipeline) shape(class frames.Classification, positional returns.Tuple, named map[string]any) any {
	if class == frames.NestedStep {
		switch c := p.Returns().(type) {
		case *returns.NoReturnContract:
			return nil
		case *returns.MetaContract:
			return named
		case *returns.ValueContract:
			if c.Meta() != nil {
				return append(slices.Clone(positional), named)
			}
		}
	}

	switch len(positional) {
	case 0:
		return nil
	case 1:
		return positional[0]
	}
	return slices.Clone(positional)
}

package frames

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Classification int

const (
	None Classification = iota
	TopLevel
	NestedStep
	OrdinaryCallable
)

func (c Classification) String() string {
	switch c {
	case TopLevel:
		return "top-level"
	case NestedStep:
		return "nested-step"
	case OrdinaryCallable:
		return "ordinary-callable"
	}
	return "none"
}

// Frame is one active invocation. It is not modified once entered.
type Frame struct {
	ID        uuid.UUID
	Identity  string
	Depth     int
	Class     Classification
	EnteredAt time.Time

	owner any
}

// NewFrame creates a frame for owner, the value whose invocation it records.
// Owners are compared by ==, so they must be comparable (pointers are).
func NewFrame(owner any, identity string) *Frame {
	return &Frame{
		ID:        uuid.New(),
		Identity:  identity,
		EnteredAt: time.Now().UTC(),
		owner:     owner,
	}
}

func (f *Frame) Owner() any {
	return f.owner
}

// node links a frame to the frame enclosing it. Nodes are never mutated;
// dispatching a step derives a new node sharing frame and parent.
type node struct {
	frame      *Frame
	parent     *node
	target     any
	dispatched bool
}

type nodeKey struct{}

func nodeFrom(ctx context.Context) *node {
	n, _ := ctx.Value(nodeKey{}).(*node)
	return n
}

// Enter records an invocation of owner on the call chain of ctx and returns
// the context its steps run with. Contexts derived before Enter do not see
// the new frame, so goroutines sharing a parent context never share frames.
func Enter(ctx context.Context, owner any, identity string) (context.Context, *Frame) {
	parent := nodeFrom(ctx)
	f := NewFrame(owner, identity)
	if parent != nil {
		f.Depth = parent.frame.Depth + 1
	}
	f.Class = classify(parent, owner)
	return context.WithValue(ctx, nodeKey{}, &node{frame: f, parent: parent}), f
}

// Dispatch returns a context marking the innermost frame of ctx as running
// target as one of its steps. Without a frame ctx is returned as is.
func Dispatch(ctx context.Context, target any) context.Context {
	n := nodeFrom(ctx)
	if n == nil {
		return ctx
	}
	return context.WithValue(ctx, nodeKey{}, &node{
		frame:      n.frame,
		parent:     n.parent,
		target:     target,
		dispatched: true,
	})
}

// Dispatching returns the step the innermost frame of ctx is running, if any.
func Dispatching(ctx context.Context) (any, bool) {
	n := nodeFrom(ctx)
	if n == nil {
		return nil, false
	}
	return n.target, n.dispatched
}

// Classify decides how an invocation of owner made with ctx is reached. Only
// the innermost frame of ctx matters.
func Classify(ctx context.Context, owner any) Classification {
	return classify(nodeFrom(ctx), owner)
}

func classify(parent *node, owner any) Classification {
	if parent == nil {
		return TopLevel
	}
	if parent.dispatched && parent.target == owner {
		return NestedStep
	}
	return OrdinaryCallable
}

// Stack is a read-only view of the frames enclosing a context.
type Stack struct {
	top *node
}

// FromContext returns the frames carried by ctx, nil when there are none.
func FromContext(ctx context.Context) *Stack {
	n := nodeFrom(ctx)
	if n == nil {
		return nil
	}
	return &Stack{top: n}
}

func (s *Stack) Len() int {
	if s == nil || s.top == nil {
		return 0
	}
	return s.top.frame.Depth + 1
}

// Top is the innermost frame.
func (s *Stack) Top() *Frame {
	if s == nil || s.top == nil {
		return nil
	}
	return s.top.frame
}

// Frames lists the frames outermost first.
func (s *Stack) Frames() []*Frame {
	out := make([]*Frame, s.Len())
	if s == nil {
		return out
	}
	for n := s.top; n != nil; n = n.parent {
		out[n.frame.Depth] = n.frame
	}
	return out
}

// DepthAndClassification finds the frame with id and reports how many frames
// enclose it and how it was reached. It returns (-1, None) when id is not on
// the stack.
func (s *Stack) DepthAndClassification(id uuid.UUID) (int, Classification) {
	if s == nil {
		return -1, None
	}
	for n := s.top; n != nil; n = n.parent {
		if n.frame.ID == id {
			return n.frame.Depth, n.frame.Class
		}
	}
	return -1, None
}

// Package pakkr runs pipelines: ordered steps whose results flow from one
// step to the next.
//
// Each step receives the positional values returned by the step before it and
// may read any named value ("meta") returned by any earlier step of the same
// invocation. A step with a declared contract (package returns) has its result
// checked and split into positional and named values; a step without one
// passes its raw result on as a single positional value.
//
// A Pipeline is itself a step, so pipelines nest. When a pipeline runs as a
// declared step of another pipeline it hands its named values up to the
// enclosing one; called from inside a step body, or from plain code, it only
// returns its positional result:
//
//	p := pakkr.MustNew([]step.Step{load, parse, count}, pakkr.WithName("wordcount"))
//	n, err := p.Call(ctx, "input.txt")
//
// Failures come back as *perr.Error, carrying the original cause and one
// context line for the failing step and for every pipeline it crossed.
package pakkr

// Package step defines the unit of work a pipeline runs and how its call
// arguments are worked out.
//
// A Step declares its formal parameters up front. Bind takes the positional
// values produced by the previous step plus every named value produced so far
// and resolves one value per parameter:
// - positional values fill parameters in declaration order
// - remaining parameters come from named values, then their defaults
// - a CaptureMeta parameter receives the whole named mapping
// - a Variadic parameter takes any positional values left over
//
// Func is the wrapper built once by New around a plain function, with its
// optional output contract and command-line argument spec.
package step

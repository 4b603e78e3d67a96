// Package returns describes what a step or a pipeline gives back and checks
// actual results against that declaration.
//
// A Contract is one of three variants:
// - NoReturn: the step produces nothing, its result must be nil
// - Meta: the step produces named values only, as a map[string]any
// - Value: the step produces positional values (a Tuple when more than one),
// optionally followed by a map of named values
//
// Highlights:
// - Validate: split a raw step result into positional and named values
// - Narrow: project accumulated results down to a declared subset
// - IsSupersetOf: check that an override claims no more than it narrows
// - Fold: roll the contracts of a sequence of steps up into one
// - Declare: pick the variant from positional types and named fields
//
// Type descriptors are a closed set: Concrete types, unions (OneOf, Optional),
// containers that only check the outer kind (Slice, Map, ...) and Nested
// contracts used for the trailing meta slot of a Value.
package returns

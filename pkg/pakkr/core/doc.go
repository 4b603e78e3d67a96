// Package core carries run options through context: the base logger, timing
// suppression and where the outermost pipeline reports failures. Options set
// on the context passed to a pipeline apply to every pipeline nested in it.
package core

// Package perr holds the error that pipelines return when a step fails.
//
// An Error keeps the original cause and an ordered list of human-readable
// context lines. The first line names the failing step and the types it was
// called with; every enclosing pipeline appends one more line on the way out.
// The outermost pipeline hands the error to the installed Handler, which by
// default prints the cause's trace followed by the context lines.
package perr

// Package logging supplies the loggers pipelines hand to their steps.
//
// Every pipeline invocation and every step gets a *slog.Logger whose messages
// are indented by nesting depth and prefixed with the identity of the pipeline
// or step, so a run reads as a tree:
//
//	"outer"<Pipeline> - starting
//	    "load"<Step> - starting
//	    "load"<Step> - finished (took 0.002s)
//	"outer"<Pipeline> - finished (took 0.003s)
//
// Time brackets a unit of work with the starting / finished lines.
package logging

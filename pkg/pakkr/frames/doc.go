// Package frames tracks the pipeline invocations active on one call chain.
//
// Each invocation enters a Frame, which derives a child context linking the
// new frame to the one enclosing it. The chain is never mutated, so
// invocations that branch off the same context (goroutines started inside a
// step, for example) each see only their own frames, and unrelated root
// contexts share nothing.
//
// Running a step derives one more context that records which step the frame
// is dispatching. That is how a nested invocation tells whether it was reached
// as a declared step of the enclosing pipeline (NestedStep) or from code
// running inside some step body (OrdinaryCallable). An invocation with no
// enclosing frame is TopLevel.
package frames

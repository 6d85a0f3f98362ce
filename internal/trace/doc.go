// Package trace is the diagnostics channel of the compiler.
//
// Compile phases, echoed diagnostics and tree traversal steps are all
// emitted as Events through a Tracer. Verbosity is controlled by Level:
//
//   - LevelOff: nothing
//   - LevelError: echoed diagnostics only
//   - LevelPhase: driver and pass boundaries plus diagnostics
//   - LevelDetail: tree traversal (node scope)
//   - LevelDebug: everything including tokens
//
// Sinks:
//
//   - Nop: zero overhead when disabled
//   - StreamTracer: immediate text or NDJSON write to an io.Writer
//   - RingTracer: in-memory buffer, used as a host sink
//   - MultiTracer: fan-out
//
// Typical use:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace

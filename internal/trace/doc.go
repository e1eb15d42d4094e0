// Package trace records pipeline events of the druk compiler.
//
// A Tracer receives span begin/end and point events. Spans are opened per
// driver command, per compilation phase (lex, parse, sema, lower, emit) and,
// at the detail level, per compiled unit.
//
//	druk diag --trace=- --trace-level=phase main.druk
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "sema", 0)
//	defer span.End("")
package trace

// Package trace records what the docl pipeline is doing while it runs.
//
// It is the project's logging layer: instead of printf lines, each stage opens
// a span and closes it with an optional detail, and the configured tracer
// decides whether the events are written immediately, kept in a ring buffer
// for a post-mortem dump, or both.
//
// # Levels
//
//   - LevelOff: nothing is recorded
//   - LevelError: spans are dropped; only explicit dumps are produced
//   - LevelPhase: the compile call and builder stages
//   - LevelDetail: adds the passes of the semantic checker
//   - LevelDebug: adds per-module events
//
// # Scopes
//
//   - ScopeDriver: one compile request
//   - ScopePhase: a builder stage (add_modules, generate_scopes, resolve_names, validate)
//   - ScopePass: a pass inside a stage (declare_types, struct_cycles, ...)
//   - ScopeModule: a single module of the program
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "resolve_names")
//	defer span.End("")
package trace

// Package diag defines the diagnostic model shared by every analysis stage.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short human text.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans, e.g. "first declared here".
//
// # Reporting
//
// Stages never print. They emit through a Reporter, usually by way of a
// ReportBuilder, and the driver decides where diagnostics end up (a Bag, the
// terminal through internal/diagfmt, or both through MultiReporter).
//
// Analysis stops at the first error. That error is returned to the caller
// as *Error so it can be inspected with errors.As, and is also emitted to
// the Reporter so collected output stays complete.
//
// Package diag does no formatting beyond the single-line short form in
// short.go; colourful rendering lives in internal/diagfmt.
package diag

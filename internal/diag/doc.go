// Package diag defines the diagnostic model shared by the lexer, parser and
// semantic binder.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string ID (codes.go).
//   - Message – short, actionable text.
//   - Primary – the source.Span pointing at the issue.
//   - Notes – optional secondary spans ("previous declaration is here").
//
// # Emitting
//
// Phases emit through a Reporter so they never depend on concrete storage.
// BagReporter collects into a Bag; DedupReporter filters repeats.
//
// # Escalation
//
// Package diag does not decide whether a compile fails. The driver inspects
// Bag.HasErrors after each stage and turns error-severity diagnostics into a
// fatal ParseError or BindError; lower severities are only echoed to the
// trace channel.
package diag

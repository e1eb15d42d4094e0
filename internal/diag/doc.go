// Package diag defines the diagnostic model shared by every compiler phase.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string form
// (LEX1001, SYN2001, SEM3002, ...), a message, the primary source span, an
// optional hint and optional notes pointing at related spans.
//
// Phases never store diagnostics themselves. They receive a Reporter and
// either call Report directly or go through a ReportBuilder:
//
//	diag.ReportError(r, diag.SemaUnresolvedSymbol, span, msg).
//		WithHint("declare it with 'var'").
//		Emit()
//
// BagReporter collects into a Bag; DedupReporter filters repeated reports.
// Rendering lives in internal/diagfmt.
package diag

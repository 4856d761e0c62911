package diag

import "docl/internal/source"

// Reporter is the sink every stage emits diagnostics into.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReportBuilder assembles one diagnostic and emits it at most once.
type ReportBuilder struct {
	to   Reporter
	diag Diagnostic
	sent bool
}

// ReportError starts an error diagnostic for r. A nil r is allowed; the
// diagnostic is then only returned by Err.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		to:   r,
		diag: Diagnostic{Severity: SevError, Code: code, Message: msg, Primary: primary},
	}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	}
	return b
}

// Emit reports the diagnostic unless it was reported before.
func (b *ReportBuilder) Emit() {
	if b == nil || b.sent {
		return
	}
	b.sent = true
	if b.to != nil {
		d := b.diag
		b.to.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
}

// Err emits and returns the diagnostic as an *Error.
func (b *ReportBuilder) Err() error {
	if b == nil {
		return nil
	}
	b.Emit()
	return &Error{Diag: b.diag}
}

// BagReporter stores into Bag; a nil Bag drops everything.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag != nil {
		r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
	}
}

type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// MultiReporter forwards to each non-nil reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, primary, msg, notes)
		}
	}
}

package lsp

import (
	"github.com/leapstack-labs/leapscript/internal/check"
	"github.com/leapstack-labs/leapscript/pkg/parser"
)

const diagnosticSource = "leapscript"

// publishDiagnostics parses the document and publishes its diagnostics.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	result := parser.ParseSource(doc.Content)
	diags := documentDiagnostics(doc, result.Errors)
	version := doc.Version

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diags,
	})
}

// documentDiagnostics converts parser errors to LSP diagnostics. Each range
// covers the word at the reported position, or a single character.
func documentDiagnostics(doc *Document, errs []error) []Diagnostic {
	diags := make([]Diagnostic, 0, len(errs))
	for _, d := range check.Diagnostics(errs) {
		start := doc.SourcePosition(d.Line, d.Column)
		diags = append(diags, Diagnostic{
			Range:    Range{Start: start, End: diagnosticEnd(doc, start)},
			Severity: DiagnosticSeverityError,
			Code:     d.Kind,
			Source:   diagnosticSource,
			Message:  d.Message,
		})
	}
	return diags
}

func diagnosticEnd(doc *Document, start Position) Position {
	offset := doc.PositionToOffset(start)
	if offset < len(doc.Content) && isWordChar(doc.Content[offset]) {
		_, r := doc.GetWordAtPosition(start)
		return r.End
	}
	if offset < doc.lineEnd(int(start.Line)) {
		return doc.OffsetToPosition(offset + runeSizeAt(doc.Content, offset))
	}
	return start
}

func runeSizeAt(s string, offset int) int {
	for i := range s[offset:] {
		if i > 0 {
			return i
		}
	}
	return len(s) - offset
}

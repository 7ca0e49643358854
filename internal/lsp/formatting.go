package lsp

import (
	"encoding/json"
	"log/slog"

	"github.com/leapstack-labs/leapscript/pkg/format"
)

func (s *Server) handleFormatting(msg *JSONRPCMessage) error {
	var params DocumentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: "document not open: " + params.TextDocument.URI})
		return nil
	}

	edits, err := formatEdits(doc, s.formatOptions(params.Options))
	if err != nil {
		// Source with diagnostics is left alone.
		s.logger.Debug("not formatting document with diagnostics", slog.String("uri", doc.URI), slog.String("error", err.Error()))
		edits = []TextEdit{}
	}
	s.sendResponse(msg.ID, edits, nil)
	return nil
}

// formatOptions applies the client's tab size to the configured options.
func (s *Server) formatOptions(opts FormattingOptions) format.Options {
	out := s.format
	if opts.TabSize > 0 {
		out.IndentWidth = int(opts.TabSize)
	}
	return out
}

// formatEdits returns a single edit replacing the whole document, or no
// edits when it is already formatted.
func formatEdits(doc *Document, opts format.Options) ([]TextEdit, error) {
	formatted, err := format.Source(doc.Content, opts)
	if err != nil {
		return nil, err
	}
	if formatted == doc.Content {
		return []TextEdit{}, nil
	}
	return []TextEdit{{
		Range:   Range{Start: Position{}, End: doc.EndPosition()},
		NewText: formatted,
	}}, nil
}

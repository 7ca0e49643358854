package lsp

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/parser"
)

func (s *Server) handleDocumentSymbol(msg *JSONRPCMessage) error {
	var params DocumentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: "document not open: " + params.TextDocument.URI})
		return nil
	}

	s.sendResponse(msg.ID, documentSymbols(doc), nil)
	return nil
}

// documentSymbols lists the top-level declarations of a document. A
// symbol's range runs to the start of the next statement.
func documentSymbols(doc *Document) []DocumentSymbol {
	program := parser.ParseSource(doc.Content).Program
	symbols := []DocumentSymbol{}

	stmts := program.Statements
	for i, stmt := range stmts {
		end := doc.EndPosition()
		if i+1 < len(stmts) {
			end = nodeStart(doc, stmts[i+1])
		}
		if sym, ok := statementSymbol(doc, stmt, Range{Start: nodeStart(doc, stmt), End: end}); ok {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

func statementSymbol(doc *Document, stmt ast.Statement, rng Range) (DocumentSymbol, bool) {
	switch st := stmt.(type) {
	case *ast.FunctionStatement:
		return DocumentSymbol{
			Name:           st.Name.Value,
			Detail:         "(" + identList(st.Parameters) + ")",
			Kind:           SymbolKindFunction,
			Range:          rng,
			SelectionRange: identRange(doc, st.Name),
		}, true

	case *ast.ClassStatement:
		sym := DocumentSymbol{
			Name:           st.Name.Value,
			Kind:           SymbolKindClass,
			Range:          rng,
			SelectionRange: identRange(doc, st.Name),
		}
		if st.Parent != nil {
			sym.Detail = "extends " + st.Parent.Value
		}
		for i, m := range st.Methods {
			end := rng.End
			if i+1 < len(st.Methods) {
				end = nodeStart(doc, st.Methods[i+1])
			}
			sym.Children = append(sym.Children, DocumentSymbol{
				Name:           m.Name.Value,
				Detail:         "(" + identList(m.Parameters) + ")",
				Kind:           SymbolKindMethod,
				Range:          Range{Start: nodeStart(doc, m), End: end},
				SelectionRange: identRange(doc, m.Name),
			})
		}
		return sym, true

	case *ast.LetStatement:
		return DocumentSymbol{
			Name:           st.Name.Value,
			Kind:           SymbolKindVariable,
			Range:          rng,
			SelectionRange: identRange(doc, st.Name),
		}, true

	case *ast.ExpressionStatement:
		assign, ok := st.Expression.(*ast.AssignmentExpression)
		if !ok || assign.Operator != "=" {
			return DocumentSymbol{}, false
		}
		target, ok := assign.Target.(*ast.Identifier)
		if !ok {
			return DocumentSymbol{}, false
		}
		return DocumentSymbol{
			Name:           target.Value,
			Kind:           SymbolKindVariable,
			Range:          rng,
			SelectionRange: identRange(doc, target),
		}, true

	case *ast.ImportStatement:
		return DocumentSymbol{
			Name:           st.Module,
			Detail:         strings.TrimPrefix(st.String(), st.Token.Literal+" "),
			Kind:           SymbolKindModule,
			Range:          rng,
			SelectionRange: rng,
		}, true
	}
	return DocumentSymbol{}, false
}

func nodeStart(doc *Document, n ast.Node) Position {
	pos := n.Pos()
	return doc.SourcePosition(pos.Line, pos.Column)
}

func identRange(doc *Document, id *ast.Identifier) Range {
	pos := id.Token.Pos
	if !pos.IsValid() {
		return Range{}
	}
	return Range{
		Start: doc.SourcePosition(pos.Line, pos.Column),
		End:   doc.SourcePosition(pos.Line, pos.Column+utf8.RuneCountInString(id.Value)),
	}
}

func identList(ids []*ast.Identifier) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Value
	}
	return strings.Join(names, ", ")
}

package lsp

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapscript/pkg/ast"
	"github.com/leapstack-labs/leapscript/pkg/parser"
	"github.com/leapstack-labs/leapscript/pkg/token"
)

func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	items := []CompletionItem{}
	if doc := s.documents.Get(params.TextDocument.URI); doc != nil {
		items = completions(doc, params.Position)
	}
	s.sendResponse(msg.ID, &CompletionList{Items: items}, nil)
	return nil
}

// completions offers names declared in the document and keywords that
// start with the word before pos. After a dot only method names are
// offered.
func completions(doc *Document, pos Position) []CompletionItem {
	before := doc.GetTextBefore(pos)
	start := len(before)
	for start > 0 && isWordChar(before[start-1]) {
		start--
	}
	prefix := before[start:]
	afterDot := start > 0 && before[start-1] == '.'

	decls := declarations(parser.ParseSource(doc.Content).Program)

	seen := make(map[string]bool)
	var items []CompletionItem
	add := func(item CompletionItem) {
		if !strings.HasPrefix(item.Label, prefix) || item.Label == prefix || seen[item.Label] {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	for _, d := range decls {
		if afterDot == (d.Kind == CompletionItemKindMethod) {
			add(d)
		}
	}
	if !afterDot {
		for _, kw := range token.Keywords() {
			add(CompletionItem{Label: kw, Kind: CompletionItemKindKeyword, SortText: "2" + kw})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortText < items[j].SortText
	})
	if items == nil {
		items = []CompletionItem{}
	}
	return items
}

// declarations collects every name bound anywhere in the program.
func declarations(program *ast.Program) []CompletionItem {
	var items []CompletionItem
	decl := func(name string, kind CompletionItemKind, detail string) {
		items = append(items, CompletionItem{Label: name, Kind: kind, Detail: detail, SortText: "1" + name})
	}
	params := func(ids []*ast.Identifier) {
		for _, id := range ids {
			decl(id.Value, CompletionItemKindVariable, "parameter")
		}
	}

	ast.Inspect(program, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FunctionStatement:
			decl(node.Name.Value, CompletionItemKindFunction, "func("+identList(node.Parameters)+")")
			params(node.Parameters)
		case *ast.ClassStatement:
			decl(node.Name.Value, CompletionItemKindClass, "class")
		case *ast.MethodStatement:
			decl(node.Name.Value, CompletionItemKindMethod, node.Name.Value+"("+identList(node.Parameters)+")")
			params(node.Parameters)
		case *ast.FunctionLiteral:
			params(node.Parameters)
		case *ast.LambdaExpression:
			params(node.Parameters)
		case *ast.LetStatement:
			decl(node.Name.Value, CompletionItemKindVariable, "let")
		case *ast.ForStatement:
			if node.Iterator != nil {
				decl(node.Iterator.Value, CompletionItemKindVariable, "loop variable")
			}
		case *ast.AssignmentExpression:
			if id, ok := node.Target.(*ast.Identifier); ok && node.Operator == "=" {
				decl(id.Value, CompletionItemKindVariable, "")
			}
		case *ast.ImportStatement:
			switch {
			case node.IsFrom():
				for _, name := range node.Names {
					bound := name.Name
					if name.Alias != nil {
						bound = name.Alias
					}
					decl(bound.Value, CompletionItemKindModule, "from "+node.Module)
				}
			case node.Alias != nil:
				decl(node.Alias.Value, CompletionItemKindModule, node.Module)
			default:
				root, _, _ := strings.Cut(node.Module, ".")
				decl(root, CompletionItemKindModule, node.Module)
			}
		}
		return true
	})
	return items
}

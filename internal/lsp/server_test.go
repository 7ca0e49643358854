package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapscript/internal/testutil"
	"github.com/leapstack-labs/leapscript/pkg/format"
)

const testURI = "file:///project/main.ls"

type rpc map[string]any

func request(id int, method string, params any) rpc {
	return rpc{"jsonrpc": "2.0", "id": id, "method": method, "params": params}
}

func notification(method string, params any) rpc {
	return rpc{"jsonrpc": "2.0", "method": method, "params": params}
}

func initialize() rpc {
	return request(1, "initialize", rpc{"processId": 1, "rootUri": "file:///project"})
}

func didOpen(text string) rpc {
	return notification("textDocument/didOpen", rpc{
		"textDocument": rpc{"uri": testURI, "languageId": "leapscript", "version": 1, "text": text},
	})
}

func frame(t *testing.T, msgs ...rpc) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		body, err := json.Marshal(m)
		require.NoError(t, err)
		fmt.Fprintf(&buf, "Content-Length: %d\r\n\r\n%s", len(body), body)
	}
	return &buf
}

// runSession feeds msgs to a server and returns its result and output.
func runSession(t *testing.T, msgs ...rpc) (error, []JSONRPCMessage) {
	t.Helper()
	var out bytes.Buffer
	s := NewServer(frame(t, msgs...), &out, Options{
		Format:  format.Options{Style: format.StyleBrace, IndentWidth: 4},
		Version: "test",
		Logger:  testutil.NewTestLogger(t),
	})
	err := s.Run()
	return err, readMessages(t, out.String())
}

func readMessages(t *testing.T, data string) []JSONRPCMessage {
	t.Helper()
	var msgs []JSONRPCMessage
	for data != "" {
		header, rest, ok := strings.Cut(data, "\r\n\r\n")
		require.True(t, ok, "missing header terminator in %q", data)
		n, err := strconv.Atoi(strings.TrimPrefix(header, "Content-Length: "))
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(rest), n)

		var msg JSONRPCMessage
		require.NoError(t, json.Unmarshal([]byte(rest[:n]), &msg))
		msgs = append(msgs, msg)
		data = rest[n:]
	}
	return msgs
}

func responseFor(t *testing.T, msgs []JSONRPCMessage, id int) JSONRPCMessage {
	t.Helper()
	want := strconv.Itoa(id)
	for _, m := range msgs {
		if m.ID != nil && string(*m.ID) == want {
			return m
		}
	}
	t.Fatalf("no response for id %d", id)
	return JSONRPCMessage{}
}

func notificationsOf(msgs []JSONRPCMessage, method string) []JSONRPCMessage {
	var out []JSONRPCMessage
	for _, m := range msgs {
		if m.ID == nil && m.Method == method {
			out = append(out, m)
		}
	}
	return out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestServer_Lifecycle(t *testing.T) {
	err, msgs := runSession(t,
		initialize(),
		notification("initialized", rpc{}),
		request(2, "shutdown", nil),
		notification("exit", nil),
		request(3, "textDocument/documentSymbol", rpc{}), // never read
	)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	init := responseFor(t, msgs, 1)
	require.Nil(t, init.Error)
	result := decode[InitializeResult](t, init.Result)
	assert.True(t, result.Capabilities.DocumentFormattingProvider)
	assert.True(t, result.Capabilities.DocumentSymbolProvider)
	require.NotNil(t, result.Capabilities.TextDocumentSync)
	assert.Equal(t, TextDocumentSyncKindFull, result.Capabilities.TextDocumentSync.Change)
	assert.Equal(t, "leapscript", result.ServerInfo.Name)

	shutdown := responseFor(t, msgs, 2)
	assert.Nil(t, shutdown.Error)
	assert.JSONEq(t, "null", string(shutdown.Result))
}

func TestServer_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []rpc
		id      int
		code    int
		message string
	}{
		{
			name:    "request before initialize",
			msgs:    []rpc{request(7, "textDocument/documentSymbol", rpc{})},
			id:      7,
			code:    codeServerNotInitialized,
			message: "server not initialized",
		},
		{
			name:    "unknown method",
			msgs:    []rpc{initialize(), request(2, "workspace/unknown", nil)},
			id:      2,
			code:    codeMethodNotFound,
			message: "Method not found: workspace/unknown",
		},
		{
			name:    "request after shutdown",
			msgs:    []rpc{initialize(), request(2, "shutdown", nil), request(3, "textDocument/formatting", rpc{})},
			id:      3,
			code:    codeInvalidRequest,
			message: "server is shutting down",
		},
		{
			name:    "initialize twice",
			msgs:    []rpc{initialize(), request(2, "initialize", rpc{})},
			id:      2,
			code:    codeInvalidRequest,
			message: "server already initialized",
		},
		{
			name:    "formatting unopened document",
			msgs:    []rpc{initialize(), request(2, "textDocument/formatting", rpc{"textDocument": rpc{"uri": testURI}})},
			id:      2,
			code:    codeInvalidParams,
			message: "document not open: " + testURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, msgs := runSession(t, tt.msgs...)
			require.NoError(t, err)

			resp := responseFor(t, msgs, tt.id)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

func TestServer_ExitWithoutShutdown(t *testing.T) {
	err, _ := runSession(t, initialize(), notification("exit", nil))
	assert.ErrorIs(t, err, ErrExitWithoutShutdown)
}

func TestServer_Diagnostics(t *testing.T) {
	err, msgs := runSession(t,
		initialize(),
		didOpen("let x 5\n"),
		notification("textDocument/didChange", rpc{
			"textDocument":   rpc{"uri": testURI, "version": 2},
			"contentChanges": []rpc{{"text": "let x = 5\n"}},
		}),
		notification("textDocument/didClose", rpc{"textDocument": rpc{"uri": testURI}}),
	)
	require.NoError(t, err)

	published := notificationsOf(msgs, "textDocument/publishDiagnostics")
	require.Len(t, published, 3)

	opened := decode[PublishDiagnosticsParams](t, published[0].Params)
	assert.Equal(t, testURI, opened.URI)
	require.NotNil(t, opened.Version)
	assert.Equal(t, 1, *opened.Version)
	require.Len(t, opened.Diagnostics, 1)
	d := opened.Diagnostics[0]
	assert.Equal(t, Range{Start: Position{Line: 0, Character: 6}, End: Position{Line: 0, Character: 7}}, d.Range)
	assert.Equal(t, DiagnosticSeverityError, d.Severity)
	assert.Equal(t, "parse", d.Code)
	assert.Equal(t, "leapscript", d.Source)
	assert.Equal(t, "expected next token to be =, got INT instead", d.Message)

	changed := decode[PublishDiagnosticsParams](t, published[1].Params)
	assert.Equal(t, 2, *changed.Version)
	assert.Empty(t, changed.Diagnostics)

	closed := decode[PublishDiagnosticsParams](t, published[2].Params)
	assert.Empty(t, closed.Diagnostics)
	assert.Nil(t, closed.Version)
}

func TestServer_DocumentsFollowSync(t *testing.T) {
	other := "file:///project/other.ls"
	var out bytes.Buffer
	s := NewServer(frame(t,
		initialize(),
		didOpen("x = 1\n"),
		notification("textDocument/didOpen", rpc{
			"textDocument": rpc{"uri": other, "languageId": "leapscript", "version": 1, "text": "y = 1\n"},
		}),
		notification("textDocument/didChange", rpc{
			"textDocument":   rpc{"uri": testURI, "version": 3},
			"contentChanges": []rpc{{"text": "x = 2\n"}},
		}),
		notification("textDocument/didClose", rpc{"textDocument": rpc{"uri": other}}),
	), &out, Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, s.Run())

	docs := s.Documents()
	assert.Equal(t, []string{testURI}, docs.List())
	doc := docs.Get(testURI)
	require.NotNil(t, doc)
	assert.Equal(t, "x = 2\n", doc.Content)
	assert.Equal(t, 3, doc.Version)
	assert.Nil(t, docs.Get(other))
}

func TestServer_Formatting(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		tabSize int
		want    []TextEdit
	}{
		{
			name:    "reformats whole document",
			text:    "x=1+2\n",
			tabSize: 4,
			want: []TextEdit{{
				Range:   Range{End: Position{Line: 1, Character: 0}},
				NewText: "x = 1 + 2\n",
			}},
		},
		{
			name:    "tab size sets indent width",
			text:    "if x {\npass\n}",
			tabSize: 2,
			want: []TextEdit{{
				Range:   Range{End: Position{Line: 2, Character: 1}},
				NewText: "if x {\n  pass\n}\n",
			}},
		},
		{
			name:    "already formatted",
			text:    "x = 1\n",
			tabSize: 4,
			want:    []TextEdit{},
		},
		{
			name:    "source with diagnostics is left alone",
			text:    "let x 5\n",
			tabSize: 4,
			want:    []TextEdit{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, msgs := runSession(t,
				initialize(),
				didOpen(tt.text),
				request(2, "textDocument/formatting", rpc{
					"textDocument": rpc{"uri": testURI},
					"options":      rpc{"tabSize": tt.tabSize, "insertSpaces": true},
				}),
			)
			require.NoError(t, err)

			resp := responseFor(t, msgs, 2)
			require.Nil(t, resp.Error)
			assert.Equal(t, tt.want, decode[[]TextEdit](t, resp.Result))
		})
	}
}

func TestServer_DocumentSymbols(t *testing.T) {
	src := `import os.path as p
let limit = 10
func add(a, b) {
    return a + b
}
class Dog extends Animal {
    speak() {
        return 1
    }
}
count = 0
count += 1
`
	err, msgs := runSession(t,
		initialize(),
		didOpen(src),
		request(2, "textDocument/documentSymbol", rpc{"textDocument": rpc{"uri": testURI}}),
	)
	require.NoError(t, err)

	resp := responseFor(t, msgs, 2)
	require.Nil(t, resp.Error)
	symbols := decode[[]DocumentSymbol](t, resp.Result)

	names := make([]string, len(symbols))
	for i, s := range symbols {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"os.path", "limit", "add", "Dog", "count"}, names)

	imp := symbols[0]
	assert.Equal(t, SymbolKindModule, imp.Kind)
	assert.Equal(t, "os.path as p", imp.Detail)

	limit := symbols[1]
	assert.Equal(t, SymbolKindVariable, limit.Kind)
	assert.Equal(t, Range{Start: Position{Line: 1}, End: Position{Line: 2}}, limit.Range)

	add := symbols[2]
	assert.Equal(t, SymbolKindFunction, add.Kind)
	assert.Equal(t, "(a, b)", add.Detail)
	assert.Equal(t, Range{Start: Position{Line: 2, Character: 5}, End: Position{Line: 2, Character: 8}}, add.SelectionRange)

	dog := symbols[3]
	assert.Equal(t, SymbolKindClass, dog.Kind)
	assert.Equal(t, "extends Animal", dog.Detail)
	require.Len(t, dog.Children, 1)
	assert.Equal(t, "speak", dog.Children[0].Name)
	assert.Equal(t, SymbolKindMethod, dog.Children[0].Kind)
	assert.Equal(t, Position{Line: 6, Character: 4}, dog.Children[0].Range.Start)
}

func TestServer_Completion(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  Position
		want []string
	}{
		{
			name: "declarations then keywords",
			text: "let counter = 1\nfunc compute(x) {\n    return x\n}\nco",
			pos:  Position{Line: 4, Character: 2},
			want: []string{"compute", "counter", "continue"},
		},
		{
			name: "methods after a dot",
			text: "class A {\n    run() {\n        pass\n    }\n}\nlet a = A()\na.r",
			pos:  Position{Line: 6, Character: 3},
			want: []string{"run"},
		},
		{
			name: "imported names",
			text: "from math import sqrt as root, pi\nr",
			pos:  Position{Line: 1, Character: 1},
			want: []string{"root", "raise", "return"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err, msgs := runSession(t,
				initialize(),
				didOpen(tt.text),
				request(2, "textDocument/completion", rpc{
					"textDocument": rpc{"uri": testURI},
					"position":     tt.pos,
				}),
			)
			require.NoError(t, err)

			resp := responseFor(t, msgs, 2)
			require.Nil(t, resp.Error)
			list := decode[CompletionList](t, resp.Result)

			labels := make([]string, len(list.Items))
			for i, item := range list.Items {
				labels[i] = item.Label
			}
			assert.Equal(t, tt.want, labels)
		})
	}
}

func TestReadMessage_Framing(t *testing.T) {
	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	input := "\r\ncontent-length: " + strconv.Itoa(len(body)) + "\r\nContent-Type: application/vscode-jsonrpc\r\n\r\n" + body

	s := NewServer(strings.NewReader(input), &bytes.Buffer{}, Options{})
	msg, err := s.readMessage()
	require.NoError(t, err)
	assert.Equal(t, "initialize", msg.Method)
	assert.Equal(t, "1", string(*msg.ID))
}

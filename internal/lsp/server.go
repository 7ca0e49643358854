package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapscript/pkg/format"
)

// JSON-RPC error codes.
const (
	codeParseError           = -32700
	codeInvalidRequest       = -32600
	codeMethodNotFound       = -32601
	codeInvalidParams        = -32602
	codeServerNotInitialized = -32002
)

// ErrExitWithoutShutdown is returned by Run when the client sends exit
// before shutdown.
var ErrExitWithoutShutdown = errors.New("exit received before shutdown")

// Options configures a Server.
type Options struct {
	Format  format.Options // defaults for textDocument/formatting
	Version string
	Logger  *slog.Logger
}

// Server implements the Language Server Protocol for leapscript.
type Server struct {
	// Document management
	documents *DocumentStore

	format  format.Options
	version string

	projectRoot string
	initialized bool
	shutdown    bool
	exited      bool

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	// Logging
	logger *slog.Logger
}

// NewServer creates a new LSP server instance.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		documents: NewDocumentStore(),
		format:    opts.Format,
		version:   opts.Version,
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,
	}
}

// Documents returns the store of open documents.
func (s *Server) Documents() *DocumentStore {
	return s.documents
}

// Run processes JSON-RPC messages until the client sends exit or closes
// the input stream.
func (s *Server) Run() error {
	s.logger.Info("leapscript language server starting")

	for !s.exited {
		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("client disconnected")
				return nil
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				s.sendResponse(nil, nil, &JSONRPCError{Code: codeParseError, Message: err.Error()})
			}
			s.logger.Error("error reading message", slog.String("error", err.Error()))
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("error handling message", slog.String("method", msg.Method), slog.String("error", err.Error()))
		}
	}

	if !s.shutdown {
		return ErrExitWithoutShutdown
	}
	return nil
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	// Read headers
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			if contentLength < 0 {
				continue // tolerate blank lines between messages
			}
			break // End of headers
		}

		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	// Read body
	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, rpcErr *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}
	if msg.ID == nil {
		null := json.RawMessage("null")
		msg.ID = &null
	}

	if rpcErr != nil {
		msg.Error = rpcErr
	} else {
		resultBytes, err := json.Marshal(result)
		if err != nil {
			msg.Error = &JSONRPCError{Code: -32603, Message: err.Error()}
		} else {
			msg.Result = resultBytes
		}
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, _ := json.Marshal(params)
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("error marshaling message", slog.String("error", err.Error()))
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	_, _ = s.writer.Write([]byte(header))
	_, _ = s.writer.Write(body)
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("received", slog.String("method", msg.Method))

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "exit":
		s.exited = true
		s.logger.Info("server exit")
		return nil
	}

	// Requests other than initialize are refused until the handshake.
	if !s.initialized {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeServerNotInitialized, Message: "server not initialized"})
		}
		return nil
	}
	if s.shutdown && msg.ID != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server is shutting down"})
		return nil
	}

	switch msg.Method {
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	default:
		if msg.ID != nil {
			// Unknown method with ID - respond with method not found
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// invalidParams answers a request whose params do not decode.
func (s *Server) invalidParams(msg *JSONRPCMessage, err error) error {
	if msg.ID != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
	}
	return err
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	if s.initialized {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidRequest, Message: "server already initialized"})
		return nil
	}

	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.invalidParams(msg, err)
		}
	}

	s.projectRoot = URIToPath(params.RootURI)
	s.logger.Info("project root", slog.String("path", s.projectRoot))

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: true,
				},
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"."},
			},
			DocumentFormattingProvider: true,
			DocumentSymbolProvider:     true,
		},
		ServerInfo: &ServerInfo{Name: "leapscript", Version: s.version},
	}

	s.initialized = true
	s.sendResponse(msg.ID, result, nil)
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdown = true
	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("server shutdown")
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logger.Debug("opened", slog.String("uri", params.TextDocument.URI))

	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.logger.Debug("closed", slog.String("uri", params.TextDocument.URI))

	// Clear diagnostics
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// We use full sync, so take the last change
	if len(params.ContentChanges) == 0 {
		return nil
	}
	lastChange := params.ContentChanges[len(params.ContentChanges)-1]
	if !s.documents.Update(params.TextDocument.URI, lastChange.Text, params.TextDocument.Version) {
		return fmt.Errorf("change for unopened document %s", params.TextDocument.URI)
	}

	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	if params.Text != nil {
		doc := s.documents.Get(params.TextDocument.URI)
		if doc != nil && doc.Content != *params.Text {
			s.documents.Update(params.TextDocument.URI, *params.Text, doc.Version)
			s.publishDiagnostics(params.TextDocument.URI)
		}
	}

	s.logger.Debug("saved", slog.String("path", URIToPath(params.TextDocument.URI)))
	return nil
}

package lsp

import (
	"net/url"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

// Document represents an open text document in the editor.
type Document struct {
	URI     string // Document URI (file:///path/to/main.ls)
	Content string // Full document content
	Version int    // Version number, incremented on each change
	Lines   []int  // Byte offsets of line starts for fast position lookups
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = newDocument(uri, content, version)
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces the content of an open document. Documents are treated
// as immutable snapshots, so readers holding the old one are unaffected.
func (s *DocumentStore) Update(uri string, content string, version int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; !ok {
		return false
	}
	s.documents[uri] = newDocument(uri, content, version)
	return true
}

// List returns all open document URIs.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	return uris
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// lineEnd returns the byte offset of the end of line, excluding the newline.
func (d *Document) lineEnd(line int) int {
	if line+1 < len(d.Lines) {
		return d.Lines[line+1] - 1
	}
	return len(d.Content)
}

// PositionToOffset converts a Position to a byte offset in the document.
// Characters count UTF-16 code units and are clamped to the line.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset := d.Lines[line]
	end := d.lineEnd(line)
	units := 0
	for offset < end && units < int(pos.Character) {
		r, size := utf8.DecodeRuneInString(d.Content[offset:end])
		units += utf16Len(r)
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset to a Position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}

	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Content) {
		offset = len(d.Content)
	}

	line := 0
	for i, lineOffset := range d.Lines {
		if lineOffset > offset {
			break
		}
		line = i
	}

	return Position{
		Line:      uint32(line),
		Character: uint32(utf16StringLen(d.Content[d.Lines[line]:offset])),
	}
}

// SourcePosition converts a 1-based line and rune column, as reported by
// the lexer, to a Position.
func (d *Document) SourcePosition(line, column int) Position {
	if d == nil || len(d.Lines) == 0 || line < 1 {
		return Position{}
	}
	if line > len(d.Lines) {
		return d.EndPosition()
	}

	offset := d.Lines[line-1]
	end := d.lineEnd(line - 1)
	for i := 1; i < column && offset < end; i++ {
		_, size := utf8.DecodeRuneInString(d.Content[offset:end])
		offset += size
	}
	return d.OffsetToPosition(offset)
}

// EndPosition returns the position just past the last character.
func (d *Document) EndPosition() Position {
	return d.OffsetToPosition(len(d.Content))
}

// GetLine returns the content of a specific line.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}
	return d.Content[d.Lines[line]:d.lineEnd(line)]
}

// GetWordAtPosition returns the word at the given position and its range.
func (d *Document) GetWordAtPosition(pos Position) (string, Range) {
	offset := d.PositionToOffset(pos)

	start := offset
	for start > 0 && isWordChar(d.Content[start-1]) {
		start--
	}

	end := offset
	for end < len(d.Content) && isWordChar(d.Content[end]) {
		end++
	}

	if start == end {
		return "", Range{Start: pos, End: pos}
	}

	return d.Content[start:end], Range{
		Start: d.OffsetToPosition(start),
		End:   d.OffsetToPosition(end),
	}
}

// GetTextBefore returns the text before the given position.
func (d *Document) GetTextBefore(pos Position) string {
	offset := d.PositionToOffset(pos)
	if offset <= 0 {
		return ""
	}
	return d.Content[:offset]
}

// isWordChar reports whether c may be part of an identifier. Bytes of
// multi-byte runes count as word characters.
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' ||
		c >= utf8.RuneSelf
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func utf16StringLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Len(r)
	}
	return n
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	const prefix = "file://"
	if !strings.HasPrefix(uri, prefix) {
		return uri
	}
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return u.Path
	}
	return uri[len(prefix):]
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

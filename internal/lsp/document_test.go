package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_Lifecycle(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///test/main.ls"

	store.Open(uri, "x = 1", 1)
	before := store.Get(uri)
	require.NotNil(t, before)
	assert.Equal(t, uri, before.URI)
	assert.Equal(t, 1, before.Version)

	require.True(t, store.Update(uri, "x = 2\ny = 3", 2))
	doc := store.Get(uri)
	assert.Equal(t, "x = 2\ny = 3", doc.Content)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, []int{0, 6}, doc.Lines)
	assert.Equal(t, "x = 1", before.Content, "earlier snapshots are not modified")

	assert.False(t, store.Update("file:///test/other.ls", "z", 1))

	store.Close(uri)
	assert.Nil(t, store.Get(uri))
}

func TestDocumentStore_List(t *testing.T) {
	store := NewDocumentStore()
	store.Open("file:///a.ls", "a = 1", 1)
	store.Open("file:///b.ls", "b = 2", 1)
	store.Open("file:///a.ls", "a = 2", 2)

	assert.ElementsMatch(t, []string{"file:///a.ls", "file:///b.ls"}, store.List())
}

func TestComputeLineOffsets(t *testing.T) {
	tests := []struct {
		content string
		want    []int
	}{
		{"", []int{0}},
		{"pass", []int{0}},
		{"a\nb", []int{0, 2}},
		{"\n\n\n", []int{0, 1, 2, 3}},
		{"if x:\n    y\n", []int{0, 6, 12}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, computeLineOffsets(tt.content), "content %q", tt.content)
	}
}

func TestDocument_Positions(t *testing.T) {
	doc := newDocument("file:///p.ls", "line0\nline1\nline2", 1)

	tests := []struct {
		name   string
		pos    Position
		offset int
	}{
		{"start", Position{Line: 0, Character: 0}, 0},
		{"inside first line", Position{Line: 0, Character: 3}, 3},
		{"start of second line", Position{Line: 1, Character: 0}, 6},
		{"end of document", Position{Line: 2, Character: 5}, 17},
		{"line past the end", Position{Line: 100, Character: 0}, 17},
		{"character past the line", Position{Line: 0, Character: 100}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, doc.PositionToOffset(tt.pos))
		})
	}

	assert.Equal(t, Position{Line: 1, Character: 4}, doc.OffsetToPosition(10))
	assert.Equal(t, Position{}, doc.OffsetToPosition(-1))
	assert.Equal(t, Position{Line: 2, Character: 5}, doc.OffsetToPosition(100))
	assert.Equal(t, Position{Line: 2, Character: 5}, doc.EndPosition())
}

func TestDocument_UTF16Positions(t *testing.T) {
	// The emoji is one rune, four bytes and two UTF-16 code units.
	doc := newDocument("file:///u.ls", "let s = \"\U0001F600\" + x\nnext", 1)
	xOffset := 17
	x := Position{Line: 0, Character: 15}

	assert.Equal(t, x, doc.SourcePosition(1, 15))
	assert.Equal(t, xOffset, doc.PositionToOffset(x))
	assert.Equal(t, x, doc.OffsetToPosition(xOffset))
	assert.Equal(t, Position{Line: 1, Character: 0}, doc.SourcePosition(2, 1))
	assert.Equal(t, doc.EndPosition(), doc.SourcePosition(9, 1))
	assert.Equal(t, Position{}, doc.SourcePosition(0, 1))
	assert.Equal(t, Position{Line: 1, Character: 4}, doc.EndPosition())
}

func TestDocument_GetLine(t *testing.T) {
	doc := newDocument("file:///l.ls", "if x:\n    pass\n", 1)

	assert.Equal(t, "if x:", doc.GetLine(0))
	assert.Equal(t, "    pass", doc.GetLine(1))
	assert.Equal(t, "", doc.GetLine(2))
	assert.Equal(t, "", doc.GetLine(-1))
	assert.Equal(t, "", doc.GetLine(100))
}

func TestDocument_GetWordAtPosition(t *testing.T) {
	doc := newDocument("file:///w.ls", "for user in users: notify(user.name)", 1)

	tests := []struct {
		char uint32
		want string
	}{
		{0, "for"},
		{5, "user"},
		{12, "users"},
		{18, ""},
		{19, "notify"},
		{32, "name"},
	}

	for _, tt := range tests {
		word, _ := doc.GetWordAtPosition(Position{Line: 0, Character: tt.char})
		assert.Equal(t, tt.want, word, "character %d", tt.char)
	}

	_, rng := doc.GetWordAtPosition(Position{Line: 0, Character: 14})
	assert.Equal(t, Range{Start: Position{Line: 0, Character: 12}, End: Position{Line: 0, Character: 17}}, rng)
}

func TestDocument_GetTextBefore(t *testing.T) {
	doc := newDocument("file:///b.ls", "let total = a + b\nx", 1)

	assert.Equal(t, "", doc.GetTextBefore(Position{Line: 0, Character: 0}))
	assert.Equal(t, "let", doc.GetTextBefore(Position{Line: 0, Character: 3}))
	assert.Equal(t, "let total = a + b\n", doc.GetTextBefore(Position{Line: 1, Character: 0}))
}

func TestURIConversion(t *testing.T) {
	tests := []struct {
		name string
		path string
		uri  string
	}{
		{"plain", "/home/user/main.ls", "file:///home/user/main.ls"},
		{"space escaped", "/work/my project/a.ls", "file:///work/my%20project/a.ls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.uri, PathToURI(tt.path))
			assert.Equal(t, tt.path, URIToPath(tt.uri))
		})
	}

	assert.Equal(t, "/already/a/path.ls", URIToPath("/already/a/path.ls"))
	assert.Equal(t, "file:///already/uri.ls", PathToURI("file:///already/uri.ls"))
}

func TestIsWordChar(t *testing.T) {
	for _, c := range []byte("azAZ09_\xc3\xa9") {
		assert.True(t, isWordChar(c), "%q", c)
	}
	for _, c := range []byte(" \t\n!()+-=[]{}:;.,\"'") {
		assert.False(t, isWordChar(c), "%q", c)
	}
}

package token

// CommentKind distinguishes the two line comment spellings.
type CommentKind int

// Comment kinds.
const (
	HashComment  CommentKind = iota // # comment
	SlashComment                    // // comment
)

// String returns the comment marker.
func (k CommentKind) String() string {
	if k == SlashComment {
		return "//"
	}
	return "#"
}

// Comment represents a source comment with position.
type Comment struct {
	Kind CommentKind
	Text string // includes the leading marker
	Span Span
}

// Line returns the line the comment starts on.
func (c *Comment) Line() int {
	return c.Span.Start.Line
}

// IsHash returns true if this is a # comment.
func (c *Comment) IsHash() bool {
	return c.Kind == HashComment
}

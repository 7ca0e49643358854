package format

import "github.com/leapstack-labs/leapscript/pkg/token"

// commentQueue hands out comments in source order, each exactly once.
type commentQueue struct {
	comments []*token.Comment
	next     int
}

func (q *commentQueue) peek() *token.Comment {
	if q == nil || q.next >= len(q.comments) {
		return nil
	}
	return q.comments[q.next]
}

func (q *commentQueue) pop() *token.Comment {
	c := q.peek()
	if c != nil {
		q.next++
	}
	return c
}

// formatCommentsBefore prints, one per line, every pending comment that
// starts before pos.
func (p *Printer) formatCommentsBefore(pos token.Position) {
	if p.inline() || !pos.IsValid() {
		return
	}
	for c := p.comments.peek(); c != nil && c.Span.Start.Before(pos); c = p.comments.peek() {
		p.newline()
		p.write(p.comments.pop().Text)
		p.writeln()
	}
}

// formatTrailingComment appends the next comment when it sits on line.
func (p *Printer) formatTrailingComment(line int) {
	if p.inline() {
		return
	}
	if c := p.comments.peek(); c != nil && c.Line() == line {
		p.space()
		p.write(p.comments.pop().Text)
	}
}

// formatRemainingComments prints comments that follow the last statement.
func (p *Printer) formatRemainingComments() {
	for c := p.comments.pop(); c != nil; c = p.comments.pop() {
		p.newline()
		p.write(c.Text)
		p.writeln()
	}
}

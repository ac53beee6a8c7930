package inject

import "strings"

// Buffer is the target file as an ordered list of lines. Insertions shift
// every later index.
type Buffer struct {
	lines []string
}

// NewBuffer splits text on "\n". A trailing newline yields a final empty
// line so String reproduces the input exactly.
func NewBuffer(text string) *Buffer {
	return &Buffer{lines: strings.Split(text, "\n")}
}

// Len returns the number of lines.
func (b *Buffer) Len() int { return len(b.lines) }

// Lines returns a copy of the current lines.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// Index returns the first index i with from < i < to whose line satisfies
// match, or -1. A negative to means the end of the buffer.
func (b *Buffer) Index(from, to int, match func(string) bool) int {
	if to < 0 || to > len(b.lines) {
		to = len(b.lines)
	}
	for i := from + 1; i < to; i++ {
		if i < 0 {
			continue
		}
		if match(b.lines[i]) {
			return i
		}
	}
	return -1
}

// IndexContaining is Index with a substring match.
func (b *Buffer) IndexContaining(from, to int, substr string) int {
	return b.Index(from, to, func(line string) bool {
		return strings.Contains(line, substr)
	})
}

// Insert places lines immediately before index at.
func (b *Buffer) Insert(at int, lines ...string) {
	if at < 0 || at > len(b.lines) {
		return
	}
	out := make([]string, 0, len(b.lines)+len(lines))
	out = append(out, b.lines[:at]...)
	out = append(out, lines...)
	out = append(out, b.lines[at:]...)
	b.lines = out
}

// String joins the lines back with "\n".
func (b *Buffer) String() string {
	return strings.Join(b.lines, "\n")
}

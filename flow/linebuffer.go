package flow

import "bytes"

// LineBuffer accumulates streamed fragments and hands back complete lines.
//
// A line is complete once its terminating '\n' has arrived. Whatever follows
// the last newline stays in the tail until more text arrives or the stream
// ends and the caller takes the remainder.
type LineBuffer struct {
	tail []byte
}

// NewLineBuffer returns an empty buffer.
func NewLineBuffer() *LineBuffer {
	return &LineBuffer{tail: make([]byte, 0, 4096)}
}

// Append adds a fragment to the end of the tail. Empty fragments are no-ops.
func (b *LineBuffer) Append(fragment string) {
	if fragment == "" {
		return
	}
	b.tail = append(b.tail, fragment...)
}

// PopLine removes and returns the oldest complete line, including its
// newline. It reports false when the tail holds no newline.
func (b *LineBuffer) PopLine() (string, bool) {
	idx := bytes.IndexByte(b.tail, '\n')
	if idx < 0 {
		return "", false
	}

	line := string(b.tail[:idx+1])
	n := copy(b.tail, b.tail[idx+1:])
	b.tail = b.tail[:n]
	return line, true
}

// TakeRemainder returns and clears whatever is left in the tail. It reports
// false when the tail is empty.
func (b *LineBuffer) TakeRemainder() (string, bool) {
	if len(b.tail) == 0 {
		return "", false
	}
	rest := string(b.tail)
	b.tail = b.tail[:0] // keep capacity
	return rest, true
}

// Len returns the number of buffered bytes.
func (b *LineBuffer) Len() int {
	return len(b.tail)
}

// Package snail prints text one grapheme at a time.
//
// Escape sequences are written whole and without delay, so a styled
// character shows up already styled and an interrupted write never leaves a
// half-sent sequence behind.
package snail

import (
	"fmt"
	"io"
	"time"

	"github.com/rivo/uniseg"
)

// DefaultDelay is the pause before each grapheme when animations are on.
const DefaultDelay = 5 * time.Millisecond

type flusher interface {
	Flush() error
}

// Writer paces text onto an underlying writer. It is not safe for
// concurrent use.
type Writer struct {
	w       io.Writer
	delay   time.Duration
	sleep   func(time.Duration)
	written int64
}

// Option configures a Writer.
type Option func(*Writer)

// WithSleep replaces time.Sleep, mostly for tests.
func WithSleep(fn func(time.Duration)) Option {
	return func(w *Writer) {
		w.sleep = fn
	}
}

// NewWriter returns a Writer pausing delay before each grapheme. A delay of
// zero writes text straight through.
func NewWriter(w io.Writer, delay time.Duration, opts ...Option) *Writer {
	sw := &Writer{
		w:     w,
		delay: delay,
		sleep: time.Sleep,
	}
	for _, o := range opts {
		o(sw)
	}
	return sw
}

// Delay returns the per-grapheme delay.
func (w *Writer) Delay() time.Duration {
	return w.delay
}

// Written returns the number of bytes written so far.
func (w *Writer) Written() int64 {
	return w.written
}

// Emit writes text. With a delay it sleeps before every grapheme cluster
// and flushes after every unit; escape sequences are never delayed.
func (w *Writer) Emit(text string) error {
	if text == "" {
		return nil
	}
	if w.delay <= 0 {
		return w.unit(text)
	}

	state := -1
	for len(text) > 0 {
		if n := escapeLen(text); n > 0 {
			if err := w.unit(text[:n]); err != nil {
				return err
			}
			text = text[n:]
			state = -1
			continue
		}

		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		w.sleep(w.delay)
		if err := w.unit(cluster); err != nil {
			return err
		}
	}
	return nil
}

// Write implements io.Writer on top of Emit.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.Emit(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *Writer) unit(s string) error {
	n, err := io.WriteString(w.w, s)
	w.written += int64(n)
	if err != nil {
		return fmt.Errorf("write failed after %d bytes: %w", w.written, err)
	}
	if f, ok := w.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush failed after %d bytes: %w", w.written, err)
		}
	}
	return nil
}

// escapeLen returns the length of the escape sequence at the start of s, or
// zero when s doesn't start with ESC. A sequence cut off by the end of s
// runs to the end of s.
func escapeLen(s string) int {
	if len(s) == 0 || s[0] != '\x1b' {
		return 0
	}
	if len(s) == 1 {
		return 1
	}

	switch s[1] {
	case '[': // CSI: ESC [ params final
		for j := 2; j < len(s); j++ {
			if b := s[j]; b >= 0x40 && b <= 0x7e {
				return j + 1
			}
		}
		return len(s)
	case ']', '_', 'P', '^', 'X': // OSC, APC, DCS, PM, SOS: ended by BEL or ST
		for j := 2; j < len(s); j++ {
			if s[j] == '\x07' {
				return j + 1
			}
			if s[j] == '\x1b' && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2
			}
		}
		return len(s)
	default: // two-byte sequences such as ESC 7
		return 2
	}
}

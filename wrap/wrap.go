// Package wrap breaks styled lines to fit the terminal.
package wrap

import (
	"os"
	"strings"
	"unicode"

	"github.com/muesli/reflow/ansi"
	"golang.org/x/term"
)

// DefaultWidth is the wrap width used when none is configured.
const DefaultWidth = 100

// WidthFunc reports the current terminal width, or false when there is no
// terminal to ask.
type WidthFunc func() (int, bool)

// TerminalWidth asks the terminal behind f for its width.
func TerminalWidth(f *os.File) WidthFunc {
	return func() (int, bool) {
		if f == nil || !term.IsTerminal(int(f.Fd())) {
			return 0, false
		}
		w, _, err := term.GetSize(int(f.Fd()))
		if err != nil || w <= 0 {
			return 0, false
		}
		return w, true
	}
}

// Resolve picks the effective width: 0 (wrapping off) when configured is
// not positive, otherwise the narrower of configured and the terminal.
func Resolve(configured int, width WidthFunc) int {
	if configured <= 0 {
		return 0
	}
	if width != nil {
		if w, ok := width(); ok && w < configured {
			return w
		}
	}
	return configured
}

// String wraps line at word boundaries so no row is wider than width
// printable cells. Words may also break after a hyphen. Escape sequences
// take no room and are never split; a single piece wider than width is kept
// whole on its own row. Trailing whitespace is kept as far as it fits. A
// width of zero or less returns line unchanged.
func String(line string, width int) string {
	if width <= 0 || line == "" {
		return line
	}

	var (
		b       strings.Builder
		word    strings.Builder
		space   []rune
		cur     int
		content bool
		inEsc   bool
	)

	// pad writes as much pending whitespace as the row has room for.
	pad := func() {
		if n := min(len(space), width-cur); n > 0 {
			b.WriteString(string(space[:n]))
			cur += n
		}
		space = space[:0]
	}

	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := ansi.PrintableRuneWidth(word.String())
		switch {
		case w == 0:
			pad()
		case cur+len(space)+w <= width:
			b.WriteString(string(space))
			cur += len(space)
		case content:
			b.WriteByte('\n')
			cur = 0
		}
		space = space[:0]
		b.WriteString(word.String())
		word.Reset()
		cur += w
		if w > 0 {
			content = true
		}
	}

	for _, c := range line {
		switch {
		case c == ansi.Marker:
			inEsc = true
			word.WriteRune(c)
		case inEsc:
			word.WriteRune(c)
			inEsc = !ansi.IsTerminator(c)
		case c == '\n':
			flush()
			b.WriteByte('\n')
			cur, content = 0, false
			space = space[:0]
		case unicode.IsSpace(c):
			flush()
			space = append(space, c)
		case c == '-':
			word.WriteRune(c)
			flush()
		default:
			word.WriteRune(c)
		}
	}
	flush()
	pad()

	return b.String()
}

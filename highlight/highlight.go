// Package highlight styles Markdown one line at a time.
//
// A Highlighter is fed the lines of a single response in order. It keeps
// just enough state to know whether a line sits inside a fenced code block,
// and hands code to a chroma lexer for the block's language. Styled output
// is produced through a Theme, which is either tied to the terminal palette
// or carries explicit RGB colors.
package highlight

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Highlighter is a stateful line highlighter. It is not safe for concurrent
// use; create one per response.
type Highlighter struct {
	theme   *Theme
	profile termenv.Profile
	grammar grammar
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithProfile sets the color profile output is rendered for. Ascii
// disables escape sequences entirely.
func WithProfile(p termenv.Profile) Option {
	return func(h *Highlighter) {
		h.profile = p
	}
}

// New returns a highlighter using theme, or the default theme when nil.
func New(theme *Theme, opts ...Option) *Highlighter {
	if theme == nil {
		theme = ansiTheme
	}
	h := &Highlighter{
		theme:   theme,
		profile: termenv.TrueColor,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Theme returns the theme in use.
func (h *Highlighter) Theme() *Theme {
	return h.theme
}

// Reset forgets any open code block.
func (h *Highlighter) Reset() {
	h.grammar.reset()
}

// HighlightLine splits line into classified spans. The line terminator, if
// any, is not part of the result. It never fails: when the grammar or a
// lexer cannot cope, the whole line comes back as a single plain span.
func (h *Highlighter) HighlightLine(line string) (spans []Span) {
	text := trimNewline(line)

	defer func() {
		if r := recover(); r != nil {
			log.Debug("Highlight fallback", "err", fmt.Sprint(r))
			h.grammar.reset()
			spans = []Span{{Class: Plain, Text: text}}
		}
	}()

	spans, err := h.grammar.line(text)
	if err != nil {
		log.Debug("Highlight fallback", "err", err)
		return []Span{{Class: Plain, Text: text}}
	}
	if len(spans) == 0 {
		return []Span{{Class: Plain, Text: text}}
	}
	return spans
}

// Highlight returns line with escape codes applied, terminator stripped.
func (h *Highlighter) Highlight(line string) string {
	return h.Paint(h.HighlightLine(line))
}

// Paint renders spans through the theme.
func (h *Highlighter) Paint(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(h.theme.Paint(h.profile, s.Class, s.Text))
	}
	return b.String()
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Sample is a short document showing off most classes, printed when a
// theme is picked.
const Sample = "# Heading\n" +
	"Some *emphasis*, **strong** text and `inline code`.\n" +
	"> A quote with a [link](https://example.com)\n" +
	"- list item\n" +
	"```go\n" +
	"// greet says hello\n" +
	"func greet(name string) int {\n" +
	"\tfmt.Println(\"hello\", name, 42)\n" +
	"\treturn 0\n" +
	"}\n" +
	"```\n"

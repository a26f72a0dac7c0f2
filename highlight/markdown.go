package highlight

import (
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// maxFenceContext bounds how much of a code block is re-fed to the lexer
// for each new line.
const maxFenceContext = 32 * 1024

var (
	fenceOpenRe  = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t]*([^`\\s]*)")
	fenceCloseRe = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})[ \t]*$")
	headingRe    = regexp.MustCompile(`^ {0,3}#{1,6}(\s|$)`)
	ruleRe       = regexp.MustCompile(`^ {0,3}(?:(?:\*[ \t]*){3,}|(?:-[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	quoteRe      = regexp.MustCompile(`^ {0,3}>[ \t]?`)
	listRe       = regexp.MustCompile(`^([ \t]*)([-*+]|\d{1,9}[.)])([ \t]+)`)
)

// grammar is the Markdown line state machine. Only fenced code blocks
// carry state from one line to the next.
type grammar struct {
	fence string // opening marker, empty outside a code block
	lexer chroma.Lexer
	body  strings.Builder
}

func (g *grammar) reset() {
	g.fence = ""
	g.lexer = nil
	g.body.Reset()
}

func (g *grammar) line(text string) ([]Span, error) {
	if g.fence != "" {
		if m := fenceCloseRe.FindStringSubmatch(text); m != nil && closes(g.fence, m[1]) {
			g.reset()
			return []Span{{Class: Fence, Text: text}}, nil
		}
		return g.code(text)
	}

	if m := fenceOpenRe.FindStringSubmatch(text); m != nil && validOpener(text, m[1]) {
		g.fence = m[1]
		g.lexer = lexerFor(m[2])
		return []Span{{Class: Fence, Text: text}}, nil
	}

	switch {
	case headingRe.MatchString(text):
		return []Span{{Class: Heading, Text: text}}, nil
	case ruleRe.MatchString(text):
		return []Span{{Class: Rule, Text: text}}, nil
	}

	if loc := quoteRe.FindStringIndex(text); loc != nil {
		spans := []Span{{Class: Quote, Text: text[:loc[1]]}}
		return append(spans, inline(text[loc[1]:], Quote)...), nil
	}

	if m := listRe.FindStringSubmatchIndex(text); m != nil {
		var spans []Span
		if m[3] > m[2] {
			spans = append(spans, Span{Class: Plain, Text: text[m[2]:m[3]]})
		}
		spans = append(spans, Span{Class: ListMarker, Text: text[m[4]:m[5]]})
		spans = append(spans, Span{Class: Plain, Text: text[m[6]:m[7]]})
		return append(spans, inline(text[m[1]:], Plain)...), nil
	}

	return inline(text, Plain), nil
}

// closes reports whether marker ends a block opened with open: same
// character, at least as long.
func closes(open, marker string) bool {
	return marker[0] == open[0] && len(marker) >= len(open)
}

func lexerFor(lang string) chroma.Lexer {
	if lang == "" {
		return nil
	}
	l := lexers.Get(lang)
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}

// code tokenises one line of a fenced block. The lexer sees the block so
// far so multi-line tokens keep their state.
func (g *grammar) code(text string) ([]Span, error) {
	if g.lexer == nil {
		return []Span{{Class: Code, Text: text}}, nil
	}
	if g.body.Len() > maxFenceContext {
		g.body.Reset()
	}
	prefix := g.body.String()

	it, err := g.lexer.Tokenise(nil, prefix+text+"\n")
	if err != nil {
		return nil, err
	}

	var spans []Span
	offset := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		v := tok.Value
		start := offset
		offset += len(v)
		if offset <= len(prefix) {
			continue
		}
		if start < len(prefix) {
			v = v[len(prefix)-start:]
		}
		if v != "" {
			spans = append(spans, Span{Class: classForToken(tok.Type), Text: v})
		}
	}

	g.body.WriteString(text)
	g.body.WriteByte('\n')
	return trimTrailingNewline(spans), nil
}

// validOpener reports whether a line starting with marker opens a code
// block: after a backtick marker the info string may not hold backticks.
func validOpener(text, marker string) bool {
	if marker[0] != '`' {
		return true
	}
	rest := text[strings.Index(text, marker)+len(marker):]
	return !strings.Contains(rest, "`")
}

// trimTrailingNewline drops the newline appended for the lexer.
func trimTrailingNewline(spans []Span) []Span {
	if len(spans) == 0 {
		return spans
	}
	last := &spans[len(spans)-1]
	last.Text = strings.TrimSuffix(last.Text, "\n")
	if last.Text == "" {
		return spans[:len(spans)-1]
	}
	return spans
}

// inline splits a line into code spans, emphasis, links and plain runs.
// Unterminated delimiters are plain text.
func inline(text string, base Class) []Span {
	var (
		spans []Span
		plain strings.Builder
	)
	emit := func(c Class, s string) {
		if plain.Len() > 0 {
			spans = append(spans, Span{Class: base, Text: plain.String()})
			plain.Reset()
		}
		spans = append(spans, Span{Class: c, Text: s})
	}

	for i := 0; i < len(text); {
		rest := text[i:]
		switch rest[0] {
		case '`':
			n := runLen(rest, '`')
			delim := rest[:n]
			if end := findRun(rest[n:], delim); end >= 0 {
				stop := n + end + n
				emit(InlineCode, rest[:stop])
				i += stop
				continue
			}
			plain.WriteString(delim)
			i += n
			continue

		case '*', '_':
			ch := rest[0]
			if ch == '_' && i > 0 && isWordByte(text[i-1]) {
				break
			}
			if strings.HasPrefix(rest, string([]byte{ch, ch})) {
				delim := rest[:2]
				if end := strings.Index(rest[2:], delim); end > 0 {
					stop := 2 + end + 2
					emit(Strong, rest[:stop])
					i += stop
					continue
				}
			} else if len(rest) > 1 && rest[1] != ' ' {
				if end := strings.IndexByte(rest[1:], ch); end > 0 {
					stop := 1 + end + 1
					emit(Emphasis, rest[:stop])
					i += stop
					continue
				}
			}

		case '~':
			if strings.HasPrefix(rest, "~~") {
				if end := strings.Index(rest[2:], "~~"); end > 0 {
					stop := 2 + end + 2
					emit(Strikethrough, rest[:stop])
					i += stop
					continue
				}
			}

		case '[':
			if mid := strings.Index(rest, "]("); mid > 0 {
				if end := strings.IndexByte(rest[mid+2:], ')'); end >= 0 {
					emit(LinkText, rest[:mid+1])
					stop := mid + 2 + end + 1
					emit(LinkURL, rest[mid+1:stop])
					i += stop
					continue
				}
			}

		case '<':
			if isURL(rest[1:]) {
				if end := strings.IndexByte(rest, '>'); end > 0 {
					emit(LinkURL, rest[:end+1])
					i += end + 1
					continue
				}
			}

		case 'h':
			if isURL(rest) && (i == 0 || !isWordByte(text[i-1])) {
				end := strings.IndexAny(rest, " \t")
				if end < 0 {
					end = len(rest)
				}
				emit(LinkURL, rest[:end])
				i += end
				continue
			}
		}

		plain.WriteByte(rest[0])
		i++
	}

	if plain.Len() > 0 || len(spans) == 0 {
		spans = append(spans, Span{Class: base, Text: plain.String()})
	}
	return spans
}

func runLen(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}

// findRun finds delim in s as a run of exactly that length.
func findRun(s, delim string) int {
	for i := 0; i < len(s); {
		if s[i] != delim[0] {
			i++
			continue
		}
		n := runLen(s[i:], delim[0])
		if n == len(delim) {
			return i
		}
		i += n
	}
	return -1
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

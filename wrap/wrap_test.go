package wrap

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func TestStringDisabled(t *testing.T) {
	line := strings.Repeat("word ", 50)
	for _, w := range []int{0, -1} {
		if got := String(line, w); got != line {
			t.Errorf("String(width=%d) changed the line", w)
		}
	}
}

func TestStringFitsWidth(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
	}{
		{"plain", "the quick brown fox jumps over the lazy dog", 10},
		{"styled", "\x1b[34mthe quick\x1b[0m brown \x1b[1mfox jumps\x1b[0m over the lazy dog", 12},
		{"wide runes", "日本語 のテキスト を 折り返す テスト です", 12},
		{"exact", "abcd efgh", 4},
		{"hyphens", "aa-bb-cc-dd-ee-ff", 8},
		{"hyphenated words", "a state-of-the-art well-known end-to-end test", 10},
		{"bullet", "\x1b[33m-\x1b[0m word word word state-of-the-art end", 30},
		{"bullet narrow", "\x1b[33m-\x1b[0m word word word state-of-the-art end", 34},
		{"indented", "    return fmt.Errorf(\"wrap: %w\", err)", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := String(tt.line, tt.width)
			for _, row := range strings.Split(got, "\n") {
				if w := ansi.PrintableRuneWidth(row); w > tt.width {
					t.Errorf("row %q is %d cells wide, limit %d", row, w, tt.width)
				}
			}
			if strings.Join(strings.Fields(stripEscapes(got)), "") != strings.Join(strings.Fields(stripEscapes(tt.line)), "") {
				t.Errorf("words changed: %q -> %q", tt.line, got)
			}
		})
	}
}

func TestStringBreaksAfterHyphens(t *testing.T) {
	tests := []struct {
		line  string
		width int
		want  string
	}{
		{"aa-bb-cc-dd-ee-ff", 8, "aa-bb-\ncc-dd-\nee-ff"},
		{"- word word word state-of-the-art end", 30, "- word word word state-of-the-\nart end"},
		{"- item", 20, "- item"},
	}
	for _, tt := range tests {
		if got := String(tt.line, tt.width); got != tt.want {
			t.Errorf("String(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
		}
	}
}

func TestStringKeepsWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		width int
		want  string
	}{
		{"trailing", "trailing   ", 20, "trailing   "},
		{"whitespace only", "    ", 20, "    "},
		{"indent", "\tif err != nil {", 40, "\tif err != nil {"},
		{"trailing clipped to width", "abcd      ", 6, "abcd  "},
		{"styled trailing", "x  \x1b[0m", 10, "x  \x1b[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.line, tt.width); got != tt.want {
				t.Errorf("String(%q, %d) = %q, want %q", tt.line, tt.width, got, tt.want)
			}
		})
	}
}

func TestStringLongTokenKeptWhole(t *testing.T) {
	token := "https://example.com/a/very/long/path/that/cannot/break"
	got := String("see "+token+" ok", 10)
	found := false
	for _, row := range strings.Split(got, "\n") {
		if strings.TrimSpace(row) == token {
			found = true
		}
	}
	if !found {
		t.Errorf("long token was split: %q", got)
	}
}

func TestStringKeepsEscapesIntact(t *testing.T) {
	got := String("\x1b[38;2;255;0;0mred words here\x1b[0m and more words", 6)
	if !strings.Contains(got, "\x1b[38;2;255;0;0m") || !strings.Contains(got, "\x1b[0m") {
		t.Errorf("escape sequence damaged: %q", got)
	}
}

func TestResolve(t *testing.T) {
	term := func(w int, ok bool) WidthFunc {
		return func() (int, bool) { return w, ok }
	}
	tests := []struct {
		name       string
		configured int
		width      WidthFunc
		want       int
	}{
		{"disabled", 0, term(80, true), 0},
		{"negative disables", -5, term(80, true), 0},
		{"terminal narrower", 100, term(80, true), 80},
		{"terminal wider", 100, term(200, true), 100},
		{"no terminal", 100, term(0, false), 100},
		{"nil func", 60, nil, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.configured, tt.width); got != tt.want {
				t.Errorf("Resolve() = %d, want %d", got, tt.want)
			}
		})
	}
}

func stripEscapes(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

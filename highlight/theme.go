package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/muesli/termenv"
)

// Family tells how a theme's colors are interpreted.
type Family int

const (
	// Indexed themes name a slot of the terminal's own palette, so they
	// follow whatever colors the user configured for their terminal.
	Indexed Family = iota
	// TrueColor themes carry explicit RGB values.
	TrueColor
)

func (f Family) String() string {
	if f == TrueColor {
		return "truecolor"
	}
	return "ansi"
}

// Style is the look of one class.
type Style struct {
	// Index is the palette slot for indexed themes: 0 default, 1 red,
	// 2 green, 3 yellow, 4 blue, 5 magenta, 6 white, 7 black. Anything
	// else renders in the default foreground.
	Index int `toml:"index"`
	// Color is "#rrggbb" for true-color themes.
	Color string `toml:"color"`

	Bold      bool `toml:"bold"`
	Italic    bool `toml:"italic"`
	Underline bool `toml:"underline"`
	Faint     bool `toml:"faint"`
}

// Theme maps classes to styles. A Theme is immutable once built and may be
// shared between highlighters.
type Theme struct {
	name   string
	family Family
	styles map[Class]Style
}

// NewTheme builds a theme from a class table. The table is copied.
func NewTheme(name string, family Family, styles map[Class]Style) *Theme {
	t := &Theme{name: name, family: family, styles: make(map[Class]Style, len(styles))}
	for c, s := range styles {
		t.styles[c] = s
	}
	return t
}

func (t *Theme) Name() string { return t.name }
func (t *Theme) Family() Family { return t.family }

// Style returns the style for c, falling back to the plain style.
func (t *Theme) Style(c Class) Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	return t.styles[Plain]
}

// table returns a copy of the class table, used as a base by theme files.
func (t *Theme) table() map[Class]Style {
	m := make(map[Class]Style, len(t.styles))
	for c, s := range t.styles {
		m[c] = s
	}
	return m
}

// Paint renders text in the style of class c for the given color profile.
func (t *Theme) Paint(p termenv.Profile, c Class, text string) string {
	if text == "" {
		return ""
	}
	st := t.Style(c)
	out := p.String(text)

	var fg termenv.Color
	if t.family == Indexed {
		fg = paletteColor(st.Index)
	} else if st.Color != "" {
		fg = p.Color(st.Color)
	}
	if fg != nil {
		out = out.Foreground(fg)
	}
	if st.Bold {
		out = out.Bold()
	}
	if st.Italic {
		out = out.Italic()
	}
	if st.Underline {
		out = out.Underline()
	}
	if st.Faint {
		out = out.Faint()
	}
	return out.String()
}

func paletteColor(i int) termenv.Color {
	switch i {
	case 1:
		return termenv.ANSIRed
	case 2:
		return termenv.ANSIGreen
	case 3:
		return termenv.ANSIYellow
	case 4:
		return termenv.ANSIBlue
	case 5:
		return termenv.ANSIMagenta
	case 6:
		return termenv.ANSIWhite
	case 7:
		return termenv.ANSIBlack
	default:
		return nil
	}
}

// Built-in indexed themes.
var (
	ansiTheme = NewTheme("ansi", Indexed, map[Class]Style{
		Plain:         {},
		Heading:       {Index: 4, Bold: true},
		Emphasis:      {Italic: true},
		Strong:        {Bold: true},
		Strikethrough: {Faint: true},
		InlineCode:    {Index: 2},
		Fence:         {Index: 5, Faint: true},
		Code:          {},
		Quote:         {Index: 3, Italic: true},
		ListMarker:    {Index: 3},
		LinkText:      {Index: 4, Underline: true},
		LinkURL:       {Index: 5, Underline: true},
		Rule:          {Index: 5},
		Keyword:       {Index: 5},
		String:        {Index: 2},
		Number:        {Index: 3},
		Comment:       {Faint: true, Italic: true},
		Operator:      {Index: 1},
		Name:          {},
		Function:      {Index: 4},
		Type:          {Index: 3},
		Punctuation:   {},
	})

	base16Theme = NewTheme("base16", Indexed, map[Class]Style{
		Plain:         {},
		Heading:       {Index: 4, Bold: true},
		Emphasis:      {Index: 5, Italic: true},
		Strong:        {Index: 3, Bold: true},
		Strikethrough: {Faint: true},
		InlineCode:    {Index: 1},
		Fence:         {Faint: true},
		Code:          {},
		Quote:         {Faint: true, Italic: true},
		ListMarker:    {Index: 1},
		LinkText:      {Index: 4},
		LinkURL:       {Index: 2, Underline: true},
		Rule:          {Faint: true},
		Keyword:       {Index: 5},
		String:        {Index: 2},
		Number:        {Index: 1},
		Comment:       {Faint: true},
		Operator:      {},
		Name:          {Index: 1},
		Function:      {Index: 4},
		Type:          {Index: 3},
		Punctuation:   {},
	})

	base16256Theme = NewTheme("base16-256", Indexed, map[Class]Style{
		Plain:         {},
		Heading:       {Index: 4, Bold: true},
		Emphasis:      {Index: 5, Italic: true},
		Strong:        {Index: 3, Bold: true},
		Strikethrough: {Faint: true},
		InlineCode:    {Index: 2},
		Fence:         {Index: 6, Faint: true},
		Code:          {},
		Quote:         {Index: 6, Italic: true},
		ListMarker:    {Index: 1},
		LinkText:      {Index: 4},
		LinkURL:       {Index: 5, Underline: true},
		Rule:          {Index: 6},
		Keyword:       {Index: 5},
		String:        {Index: 2},
		Number:        {Index: 3},
		Comment:       {Faint: true, Italic: true},
		Operator:      {Index: 6},
		Name:          {Index: 1},
		Function:      {Index: 4},
		Type:          {Index: 3},
		Punctuation:   {},
	})
)

// fromChroma snapshots a chroma style into a true-color theme.
func fromChroma(name string, cs *chroma.Style) *Theme {
	styles := make(map[Class]Style, len(tokenForClass))
	for c, tt := range tokenForClass {
		e := cs.Get(tt)
		var st Style
		if e.Colour.IsSet() {
			st.Color = e.Colour.String()
		}
		st.Bold = e.Bold == chroma.Yes
		st.Italic = e.Italic == chroma.Yes
		st.Underline = e.Underline == chroma.Yes
		styles[c] = st
	}
	return NewTheme(name, TrueColor, styles)
}

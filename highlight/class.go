package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// Class is the semantic role of a span of text. Themes map classes to
// colors; the grammar only decides which class a span belongs to.
type Class int

// Markdown and code classes.
const (
	Plain Class = iota
	Heading
	Emphasis
	Strong
	Strikethrough
	InlineCode
	Fence
	Code
	Quote
	ListMarker
	LinkText
	LinkURL
	Rule
	Keyword
	String
	Number
	Comment
	Operator
	Name
	Function
	Type
	Punctuation
)

var classNames = map[Class]string{
	Plain:         "plain",
	Heading:       "heading",
	Emphasis:      "emphasis",
	Strong:        "strong",
	Strikethrough: "strikethrough",
	InlineCode:    "inline_code",
	Fence:         "fence",
	Code:          "code",
	Quote:         "quote",
	ListMarker:    "list_marker",
	LinkText:      "link_text",
	LinkURL:       "link_url",
	Rule:          "rule",
	Keyword:       "keyword",
	String:        "string",
	Number:        "number",
	Comment:       "comment",
	Operator:      "operator",
	Name:          "name",
	Function:      "function",
	Type:          "type",
	Punctuation:   "punctuation",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass returns the class with the given name as used in theme files.
func ParseClass(name string) (Class, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, s := range classNames {
		if s == name {
			return c, nil
		}
	}
	return Plain, fmt.Errorf("unknown class %q", name)
}

// Span is a run of text tagged with a single class.
type Span struct {
	Class Class
	Text  string
}

// classForToken folds chroma's token hierarchy onto our classes.
func classForToken(tt chroma.TokenType) Class {
	switch {
	case tt == chroma.NameFunction || tt == chroma.NameFunctionMagic:
		return Function
	case tt == chroma.KeywordType || tt == chroma.NameClass || tt == chroma.NameBuiltin:
		return Type
	case tt.InCategory(chroma.Keyword):
		return Keyword
	case tt.InSubCategory(chroma.LiteralString):
		return String
	case tt.InSubCategory(chroma.LiteralNumber):
		return Number
	case tt.InCategory(chroma.Comment):
		return Comment
	case tt.InCategory(chroma.Operator):
		return Operator
	case tt.InCategory(chroma.Punctuation):
		return Punctuation
	case tt.InCategory(chroma.Name):
		return Name
	default:
		return Code
	}
}

// tokenForClass picks the chroma token whose style a true-color theme uses
// for the class.
var tokenForClass = map[Class]chroma.TokenType{
	Plain:         chroma.Text,
	Heading:       chroma.GenericHeading,
	Emphasis:      chroma.GenericEmph,
	Strong:        chroma.GenericStrong,
	Strikethrough: chroma.GenericDeleted,
	InlineCode:    chroma.LiteralStringBacktick,
	Fence:         chroma.CommentPreproc,
	Code:          chroma.Text,
	Quote:         chroma.GenericSubheading,
	ListMarker:    chroma.Keyword,
	LinkText:      chroma.NameTag,
	LinkURL:       chroma.LiteralStringOther,
	Rule:          chroma.Comment,
	Keyword:       chroma.Keyword,
	String:        chroma.LiteralString,
	Number:        chroma.LiteralNumber,
	Comment:       chroma.Comment,
	Operator:      chroma.Operator,
	Name:          chroma.Name,
	Function:      chroma.NameFunction,
	Type:          chroma.KeywordType,
	Punctuation:   chroma.Punctuation,
}

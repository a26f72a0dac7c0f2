package utils

import (
	"os"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into something usable as a file name: accents are
// dropped, everything is lower case and runs of other characters become a
// single underscore.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, title)
	if err != nil {
		s = title
	}
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}

var magnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * time.Minute, Format: "a minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "an hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "yesterday", DivBy: 1},
	{D: humanize.Week, Format: "%d days %s", DivBy: humanize.Day},
}

// RelativeTime describes t relative to now, like "3 hours ago". Anything
// older than a week gets a date instead.
func RelativeTime(t, now time.Time) string {
	switch ago := now.Sub(t); {
	case ago < time.Minute:
		return "just now"
	case ago < humanize.Week:
		return humanize.CustomRelTime(t, now, "ago", "from now", magnitudes)
	default:
		return t.Format("02 Jan 2006 15:04")
	}
}

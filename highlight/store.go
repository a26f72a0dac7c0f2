package highlight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/log"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "ansi"

// ErrUnknownTheme is returned by Store.Get for names no source provides.
var ErrUnknownTheme = errors.New("unknown theme")

// Store resolves theme names. Built-in indexed themes come first, then
// themes loaded from files, then every chroma style.
type Store struct {
	mu     sync.Mutex
	themes map[string]*Theme
	user   map[string]bool
}

// NewStore returns a store holding the built-in themes.
func NewStore() *Store {
	s := &Store{
		themes: map[string]*Theme{},
		user:   map[string]bool{},
	}
	for _, t := range []*Theme{ansiTheme, base16Theme, base16256Theme} {
		s.themes[t.name] = t
	}
	return s
}

// Get returns the named theme. Themes are built once and shared.
func (s *Store) Get(name string) (*Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.themes[name]; ok {
		return t, nil
	}
	for _, n := range styles.Names() {
		if n == name {
			t := fromChroma(name, styles.Get(name))
			s.themes[name] = t
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
}

// Has reports whether name resolves to a theme.
func (s *Store) Has(name string) bool {
	_, err := s.Get(name)
	return err == nil
}

// Names lists every available theme, indexed ones first.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexed := []string{ansiTheme.name, base16Theme.name, base16256Theme.name}
	var user []string
	for n := range s.user {
		user = append(user, n)
	}
	sort.Strings(user)

	seen := map[string]bool{}
	var names []string
	for _, group := range [][]string{indexed, user, styles.Names()} {
		for _, n := range group {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// themeFile is the on-disk form of a user theme.
//
//	name = "dusk"
//	family = "ansi"
//	base = "base16"
//
//	[styles.heading]
//	index = 5
//	bold = true
type themeFile struct {
	Name   string           `toml:"name"`
	Family string           `toml:"family"`
	Base   string           `toml:"base"`
	Styles map[string]Style `toml:"styles"`
}

// LoadDir reads every *.toml theme in dir. A missing directory is not an
// error. Files that fail to parse are skipped and logged; the first such
// error is returned after the rest have been loaded.
func (s *Store) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read theme dir: %w", err)
	}

	var first error
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := s.LoadFile(path); err != nil {
			log.Warn("Skipping theme file", "path", path, "err", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// LoadFile parses a single theme file and registers it under its name, or
// the file's base name when the file doesn't set one.
func (s *Store) LoadFile(path string) error {
	var f themeFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("parse theme %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	t, err := s.build(f)
	if err != nil {
		return fmt.Errorf("theme %s: %w", path, err)
	}

	s.mu.Lock()
	s.themes[t.name] = t
	s.user[t.name] = true
	s.mu.Unlock()
	log.Debug("Loaded theme", "name", t.name, "family", t.family)
	return nil
}

func (s *Store) build(f themeFile) (*Theme, error) {
	family := Indexed
	switch strings.ToLower(f.Family) {
	case "", "ansi", "indexed":
	case "truecolor", "rgb":
		family = TrueColor
	default:
		return nil, fmt.Errorf("unknown family %q", f.Family)
	}

	base := f.Base
	if base == "" {
		base = DefaultTheme
		if family == TrueColor {
			base = "monokai"
		}
	}
	parent, err := s.Get(base)
	if err != nil {
		return nil, fmt.Errorf("base: %w", err)
	}
	if parent.family != family {
		return nil, fmt.Errorf("base theme %q is %s, not %s", base, parent.family, family)
	}

	table := parent.table()
	for name, st := range f.Styles {
		c, err := ParseClass(name)
		if err != nil {
			return nil, err
		}
		if family == TrueColor && st.Color != "" && !isHexColor(st.Color) {
			return nil, fmt.Errorf("%s: color %q is not #rrggbb", name, st.Color)
		}
		table[c] = st
	}
	return NewTheme(f.Name, family, table), nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

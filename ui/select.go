package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// errCancelled is returned by choose when the user picks nothing.
var errCancelled = errors.New("cancelled")

// choose asks the user to pick one of options. labels, if given, are shown
// next to each option. A query that matches one option exactly, or only
// one option at all, picks it without asking.
func (s *Session) choose(title string, options, labels []string, query string) (string, error) {
	if len(options) == 0 {
		return "", errors.New("nothing to choose from")
	}

	candidates := options
	if query != "" {
		for _, o := range options {
			if strings.EqualFold(o, query) {
				return o, nil
			}
		}
		matches := fuzzy.Find(query, options)
		switch len(matches) {
		case 0:
			return "", fmt.Errorf("no match for %q", query)
		case 1:
			return matches[0].Str, nil
		}
		candidates = make([]string, len(matches))
		picked := make([]string, len(matches))
		for i, m := range matches {
			candidates[i] = m.Str
			if labels != nil {
				picked[i] = labels[m.Index]
			}
		}
		if labels != nil {
			labels = picked
		}
	}

	fmt.Fprintln(s.out, title) //nolint:errcheck
	for i, c := range candidates {
		n := s.styles.keyword.Render(fmt.Sprintf("%3d.", i+1))
		if labels != nil && labels[i] != "" {
			fmt.Fprintf(s.out, "%s %s %s\n", n, c, s.styles.subtle.Render(labels[i])) //nolint:errcheck
			continue
		}
		fmt.Fprintf(s.out, "%s %s\n", n, c) //nolint:errcheck
	}

	answer, err := s.prompt.Prompt("Select a number (enter to cancel): ")
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", errCancelled
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(candidates) {
			return "", fmt.Errorf("%d is not between 1 and %d", n, len(candidates))
		}
		return candidates[n-1], nil
	}
	if m := fuzzy.Find(answer, candidates); len(m) > 0 {
		return m[0].Str, nil
	}
	return "", fmt.Errorf("no match for %q", answer)
}

// confirm asks a yes/no question; enter means yes.
func (s *Session) confirm(question string) (bool, error) {
	answer, err := s.prompt.Prompt(question + " [Y/n] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

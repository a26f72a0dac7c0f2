package ui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// savedConversation is a conversation file on disk.
type savedConversation struct {
	Name    string
	Path    string
	Modtime time.Time
}

// listConversations returns the .json files in dir, newest first.
func listConversations(dir string) ([]savedConversation, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []savedConversation
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, savedConversation{
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
			Modtime: info.ModTime(),
		})
	}
	slices.SortStableFunc(out, func(a, b savedConversation) int {
		// newest first
		return -compareTime(a.Modtime, b.Modtime)
	})
	return out, nil
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

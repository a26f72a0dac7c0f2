package utils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HEY_TEST_DIR", "/tmp/hey")
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := map[string]string{
		"~/conversations":          filepath.Join(home, "conversations"),
		"$HEY_TEST_DIR/chats":      "/tmp/hey/chats",
		"/absolute/path":           "/absolute/path",
		"relative/${HEY_TEST_DIR}": "relative//tmp/hey",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Go Generics Primer":        "go_generics_primer",
		"Café & Crème Brûlée!":      "cafe_creme_brulee",
		"  --Rust vs. Go?--  ":      "rust_vs_go",
		"Untitled Conversation":     "untitled_conversation",
		"日本語":                       "",
		"already_slugged_title_123": "already_slugged_title_123",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		then time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-90 * time.Second), "a minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-30 * time.Hour), "yesterday"},
		{now.Add(-72 * time.Hour), "3 days ago"},
		{now.Add(-30 * 24 * time.Hour), "10 Apr 2024 12:00"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.then, now); got != tt.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", now.Sub(tt.then), got, tt.want)
		}
	}
}

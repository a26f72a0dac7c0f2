package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCmd(t *testing.T) {
	filename := "message.md"
	for k, v := range map[string][]string{
		"nvim":         {"nvim", filename},
		"vim":          {"vim", filename},
		"vscode --foo": {"vscode", "--foo", filename},
		"nvim -a -b":   {"nvim", "-a", "-b", filename},
	} {
		t.Run(k, func(t *testing.T) {
			t.Setenv("EDITOR", k)
			cmd, err := Cmd(filename)
			if err != nil {
				t.Fatal(err)
			}
			got := cmd.Args
			if len(got) != len(v) {
				t.Fatalf("expected %v; got %v", v, got)
			}
			for i := range v {
				if got[i] != v[i] {
					t.Fatalf("expected %v; got %v", v, got)
				}
			}
		})
	}

	t.Run("inside snap", func(t *testing.T) {
		t.Setenv("SNAP_REVISION", "10")
		got, err := Cmd("foo")
		if err == nil {
			t.Fatalf("expected an error, got nil")
		}
		if got != nil {
			t.Fatalf("should have returned nil, got %v", got)
		}
	})
}

func TestCompose(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as editor")
	}

	script := filepath.Join(t.TempDir(), "fake-editor")
	body := "#!/bin/sh\nprintf ' and more\\n\\n' >> \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("EDITOR", script)

	got, err := Compose("draft")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if got != "draft and more" {
		t.Fatalf("expected %q; got %q", "draft and more", got)
	}
}

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "hey").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hey.log"), nil
}

// setupLog sends log output to the cache dir. Logging is disabled when the
// file can't be opened; the returned closer is then a no-op.
func setupLog() (func() error, error) {
	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	noop := func() error { return nil }
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		log.SetOutput(io.Discard)
		return noop, nil
	}
	f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return noop, nil
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	return f.Close, nil
}

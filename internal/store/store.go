// Package store holds local client state. Records live on the backend; the
// only durable things here are small UI state (restore the last screen) and
// the action event log (what this client changed, and when).
package store

import (
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	// Dir is the state directory, e.g. ~/.flowcrm.
	Dir string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	return os.MkdirAll(filepath.Clean(s.Dir), 0o755)
}

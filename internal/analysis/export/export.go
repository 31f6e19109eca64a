// internal/analysis/export/export.go
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"provider-visibility/internal/analysis/normalize"
)

// FileName returns the download name for a result, analysis-<storyId>.json.
// Path separators in the story id are replaced so the name stays a single
// path element.
func FileName(storyID string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(storyID)
	if safe == "" || safe == "." || safe == ".." {
		safe = "unknown"
	}
	return fmt.Sprintf("analysis-%s.json", safe)
}

// Write encodes r as two-space indented JSON.
func Write(w io.Writer, r *normalize.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// ToFile writes r into dir under FileName and returns the path written.
func ToFile(dir string, r *normalize.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(r.StoryID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Write(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

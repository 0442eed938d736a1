// internal/buffer/file.go
package buffer

import (
	"errors"
	"fmt"
	"os"

	"github.com/bethropolis/tidemark/internal/logger"
)

// Load reads filePath and hands its text to store.SetText.
// A missing file yields an empty buffer, like opening a new file.
func Load(store LineStore, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debugf("Load: '%s' does not exist, starting empty", filePath)
			store.SetText("")
			return nil
		}
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	store.SetText(string(data))
	return nil
}

// Save writes the store's text to filePath and clears its modified flag.
func Save(store LineStore, filePath string) error {
	if filePath == "" {
		return ErrNoFilePath
	}
	if err := os.WriteFile(filePath, []byte(store.Text()), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", filePath, err)
	}
	store.MarkSaved()
	logger.Infof("Save: wrote %d lines to '%s'", store.LineCount(), filePath)
	return nil
}

// Ensure SliceStore satisfies the LineStore interface
var _ LineStore = (*SliceStore)(nil)

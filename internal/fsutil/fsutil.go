// Package fsutil holds the file plumbing shared by the formatters: reads,
// all-or-nothing writes and change notification.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/creachadair/atomicfile"
)

// DefaultFileMode is used when writing a file that does not exist yet.
const DefaultFileMode fs.FileMode = 0644

// ReadFile reads the whole file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// WriteFile replaces path with data. The content is staged in a temporary
// file next to the target and renamed over it, so a failed write never leaves
// a truncated target behind. An existing file keeps its permission bits.
func WriteFile(path string, data []byte) error {
	mode := DefaultFileMode
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return fmt.Errorf("write %s: not a regular file", path)
		}
		mode = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := atomicfile.WriteData(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

package jsonfmt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"futils/internal/fsutil"
)

// Watch formats cfg.Filename in place now and again after every change until
// ctx is done. Writes are skipped when the file is already formatted, so the
// watcher does not react to its own output. Invalid JSON is reported through
// onResult and watching continues, since the file is usually mid-edit. The
// same holds for a file that briefly disappears while an editor replaces it.
func Watch(ctx context.Context, cfg FileConfig, logger *zap.Logger, onResult func(changed bool, err error)) error {
	if !cfg.InPlace {
		return fmt.Errorf("watch requires in-place formatting")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if onResult == nil {
		onResult = func(bool, error) {}
	}

	run := func() error {
		_, changed, err := formatFile(cfg)
		if err != nil && !errors.Is(err, ErrInvalidJSON) && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		onResult(changed, err)
		return nil
	}

	if err := run(); err != nil {
		return err
	}
	return fsutil.Watch(ctx, cfg.Filename, fsutil.WatchOptions{Logger: logger}, run)
}

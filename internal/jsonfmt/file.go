package jsonfmt

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"futils/internal/diff"
	"futils/internal/fsutil"
)

// FileConfig describes one file formatting job.
type FileConfig struct {
	Filename string
	// OutputFilename, when set, receives the formatted document.
	OutputFilename string
	// InPlace rewrites Filename with the formatted document.
	InPlace bool
	Options Options
}

// Prints reports whether the caller is expected to print the result, i.e.
// the job writes nowhere else.
func (c FileConfig) Prints() bool {
	return c.OutputFilename == "" && !c.InPlace
}

// FormatFile reads, formats and writes the file described by cfg and returns
// the formatted text.
func FormatFile(cfg FileConfig) (string, error) {
	out, _, err := formatFile(cfg)
	return out, err
}

// formatFile also reports whether the formatted text differs from the input.
func formatFile(cfg FileConfig) (string, bool, error) {
	data, err := fsutil.ReadFile(cfg.Filename)
	if err != nil {
		return "", false, fmt.Errorf("failed to read the file: %w", err)
	}

	formatted, err := Format(data, cfg.Options)
	if err != nil {
		return "", false, fmt.Errorf("failed to parse JSON in %s: %w", cfg.Filename, err)
	}
	changed := !bytes.Equal(formatted, data)

	if cfg.InPlace && changed {
		if err := fsutil.WriteFile(cfg.Filename, formatted); err != nil {
			return "", false, fmt.Errorf("failed to write back to the file: %w", err)
		}
	}
	if cfg.OutputFilename != "" {
		if err := fsutil.WriteFile(cfg.OutputFilename, formatted); err != nil {
			return "", false, fmt.Errorf("failed to write the output file: %w", err)
		}
	}

	return string(formatted), changed, nil
}

// Check returns ErrNotFormatted when filename is not already formatted with
// opts. A single trailing newline is tolerated.
func Check(filename string, opts Options) error {
	data, err := fsutil.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read the file: %w", err)
	}

	formatted, err := Format(data, opts)
	if err != nil {
		return fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	if !bytes.Equal(bytes.TrimSuffix(data, []byte("\n")), formatted) {
		return fmt.Errorf("%s: %w", filename, ErrNotFormatted)
	}
	return nil
}

// Diff returns a unified diff from filename to its formatted form, or "" when
// the file is already formatted. Trailing newlines are ignored as in Check.
func Diff(filename string, opts Options) (string, error) {
	data, err := fsutil.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read the file: %w", err)
	}

	formatted, err := Format(data, opts)
	if err != nil {
		return "", fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	old := string(bytes.TrimSuffix(data, []byte("\n"))) + "\n"
	return diff.Unified(filename, filename+" (formatted)", old, string(formatted)+"\n"), nil
}

// FormatFiles runs every job with at most limit running at once. It returns
// the first error; jobs that have not started yet are skipped after a
// failure.
func FormatFiles(ctx context.Context, cfgs []FileConfig, limit int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, cfg := range cfgs {
		cfg := cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, changed, err := formatFile(cfg)
			if err != nil {
				return err
			}
			logger.Debug("Formatted file",
				zap.String("file", cfg.Filename),
				zap.Bool("changed", changed))
			return nil
		})
	}
	return g.Wait()
}

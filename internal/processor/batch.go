package processor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Summary counts the outcome of a directory run.
type Summary struct {
	Processed  int // output written
	Unverified int // subset of Processed with a hash mismatch
	Failed     int
	Skipped    int // wrong size, pattern mismatch, own output files
}

// ProcessDir runs mode over every regular file in dir matching pattern,
// with at most workers files in flight. Per-file failures are logged and
// counted; only a directory read error, a bad pattern or ctx cancellation
// fail the run.
func (p *Processor) ProcessDir(ctx context.Context, mode Mode, dir, pattern string, workers int) (Summary, error) {
	var sum Summary

	if _, err := filepath.Match(pattern, ""); err != nil {
		return sum, fmt.Errorf("batch pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return sum, fmt.Errorf("reading dir %s: %w", dir, err)
	}

	var processed, unverified, failed atomic.Int64
	want := int64(p.InputSize(mode))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || p.isOutput(name) {
			sum.Skipped++
			continue
		}
		if ok, _ := filepath.Match(pattern, name); !ok {
			sum.Skipped++
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() != want {
			sum.Skipped++
			continue
		}

		path := filepath.Join(dir, name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.ProcessFile(gctx, mode, path)
			if err != nil {
				failed.Add(1)
				slog.Error("processing file", "path", path, "mode", mode, "err", err)
				return nil
			}
			processed.Add(1)
			if !res.Verified {
				unverified.Add(1)
			}
			slog.Info("processed file", "path", path, "mode", mode, "output", res.Output, "verified", res.Verified)
			return nil
		})
	}

	err = g.Wait()
	sum.Processed = int(processed.Load())
	sum.Unverified = int(unverified.Load())
	sum.Failed = int(failed.Load())
	if err != nil {
		return sum, fmt.Errorf("batch %s: %w", dir, err)
	}
	return sum, nil
}

func (p *Processor) isOutput(name string) bool {
	return strings.HasSuffix(name, p.decSuffix) || strings.HasSuffix(name, p.encSuffix)
}

// Package walker implements the portable filesystem-walker fallback
// (SPEC_FULL.md §4.4): a recursive directory enumeration that honors
// substring and glob exclusion patterns and yields FileRecords in batches.
package walker

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ale-01cu/oxisearch/internal/fsutil"
	"github.com/ale-01cu/oxisearch/internal/record"
)

// ErrWalkEntry marks a per-entry metadata error, which demotes to a skip
// rather than aborting the walk (SPEC_FULL.md §7).
var ErrWalkEntry = errors.New("walker: entry metadata error")

const batchSize = 5000

// FlushFunc persists one batch; supplied by the indexing controller, which
// owns the shared batch-flush-with-retry policy (SPEC_FULL.md §4.5).
type FlushFunc func([]record.FileRecord) error

// ProgressFunc reports one progress event.
type ProgressFunc func(record.IndexingProgress)

// WarnFunc receives a demoted per-entry error for logging.
type WarnFunc func(path string, err error)

// Options controls exclusion behavior.
type Options struct {
	// ExcludeSubstrings: an entry whose full path contains the substring is
	// pruned (directory) or skipped (file) — SPEC_FULL.md §4.4, unchanged.
	ExcludeSubstrings []string
	// ExcludeGlobs: doublestar-style glob patterns matched against the
	// root-relative, slash-normalized path. Purely additive (SPEC_FULL.md
	// §4.4 supplement); an entry matching either mechanism is pruned.
	ExcludeGlobs []string
}

// Walk recursively enumerates root, honoring opts' exclusion rules, and
// flushes FileRecord batches of up to 5,000 entries (SPEC_FULL.md §4.4).
// It returns the count of records emitted.
func Walk(root string, opts Options, flush FlushFunc, onProgress ProgressFunc, warn WarnFunc, stop func() bool) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, nil
	}

	var batch []record.FileRecord
	count := 0

	flushIfFull := func() error {
		if len(batch) >= batchSize {
			if err := flush(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	}

	emit := func(r record.FileRecord) error {
		batch = append(batch, r)
		count++
		if onProgress != nil {
			onProgress(record.IndexingProgress{
				CurrentPath:    r.Path,
				FilesProcessed: count,
				Status:         record.StatusIndexing,
			})
		}
		return flushIfFull()
	}

	var walkFn func(dir string) error
	walkFn = func(dir string) error {
		if stop != nil && stop() {
			return nil
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			if warn != nil {
				warn(dir, err)
			}
			return nil
		}
		for _, entry := range entries {
			if stop != nil && stop() {
				return nil
			}
			name := entry.Name()
			if fsutil.IsHidden(name) {
				continue
			}
			full := filepath.Join(dir, name)
			rel, relErr := filepath.Rel(root, full)
			if relErr != nil {
				rel = full
			}

			if entry.IsDir() {
				if fsutil.MatchesSubstring(full, opts.ExcludeSubstrings) || fsutil.MatchesAny(rel, opts.ExcludeGlobs) {
					continue
				}
				now := time.Now().UTC().Format(time.RFC3339)
				if err := emit(record.FileRecord{
					Path: full, Name: name, IsDir: true,
					ModifiedTime: now, LastIndexed: now,
				}); err != nil {
					return err
				}
				if err := walkFn(full); err != nil {
					return err
				}
				continue
			}

			if fsutil.MatchesSubstring(full, opts.ExcludeSubstrings) || fsutil.MatchesAny(rel, opts.ExcludeGlobs) {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				if warn != nil {
					warn(full, ErrWalkEntry)
				}
				continue
			}

			now := time.Now().UTC().Format(time.RFC3339)
			modTime := now
			if !info.ModTime().IsZero() {
				modTime = info.ModTime().UTC().Format(time.RFC3339)
			}
			size := info.Size()
			r := record.FileRecord{
				Path: full, Name: name, IsDir: false,
				FileSize: &size, ModifiedTime: modTime, LastIndexed: now,
			}
			if ext := filepath.Ext(name); ext != "" {
				r.Extension = &ext
			}
			if err := emit(r); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walkFn(root); err != nil {
		return count, err
	}
	if len(batch) > 0 {
		if err := flush(batch); err != nil {
			return count, err
		}
	}
	return count, nil
}

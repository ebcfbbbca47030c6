// Package indexctl is the indexing controller (SPEC_FULL.md §4.5): it picks
// between the MFT fast path and the walker fallback per root, owns the
// shared batch-flush-with-retry policy, and drives a run asynchronously.
package indexctl

import (
	"os"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/ale-01cu/oxisearch/internal/logger"
	"github.com/ale-01cu/oxisearch/internal/mft"
	"github.com/ale-01cu/oxisearch/internal/record"
	"github.com/ale-01cu/oxisearch/internal/store"
	"github.com/ale-01cu/oxisearch/internal/walker"
)

// DefaultExclusions mirrors spec.md §4.5, unchanged.
var DefaultExclusions = []string{".git", "node_modules", "target", ".DS_Store", "__pycache__", ".venv", "venv"}

// Events reports indexing lifecycle; the CLI's index command supplies a
// small implementation that prints each event (SPEC_FULL.md §6).
type Events interface {
	Progress(record.IndexingProgress)
	Completed(count int)
	Error(err error)
}

// Controller chooses a strategy per root, orchestrates multi-root runs, and
// persists results through st.
type Controller struct {
	st             *store.Store
	excludePattern []string
	excludeGlobs   []string
	stopped        atomic.Bool
}

// New builds a Controller bound to st, with the given exclusion lists in
// addition to DefaultExclusions.
func New(st *store.Store, excludePatterns, excludeGlobs []string) *Controller {
	return &Controller{
		st:             st,
		excludePattern: append(append([]string{}, DefaultExclusions...), excludePatterns...),
		excludeGlobs:   excludeGlobs,
	}
}

// Stop requests that the current and any subsequent root scan end early. A
// stopped run still reports Completed with the partial count rather than an
// error (SPEC_FULL.md §4.5).
func (c *Controller) Stop() {
	c.stopped.Store(true)
}

func (c *Controller) shouldStop() bool {
	return c.stopped.Load()
}

// StartIndexing spawns exactly one goroutine to run roots and returns
// immediately, mirroring the original source's tokio::spawn in
// reindex_path (SPEC_FULL.md §4.5).
func (c *Controller) StartIndexing(roots []string, events Events) {
	go c.RunSync(roots, events)
}

// RunSync drives a full indexing run to completion on the calling
// goroutine, so tests can assert a deterministic outcome.
func (c *Controller) RunSync(roots []string, events Events) {
	if len(roots) == 0 {
		roots = DefaultRoots()
	}

	total := 0
	for _, root := range roots {
		if c.shouldStop() {
			break
		}
		n, err := c.indexRoot(root, events)
		if err != nil {
			events.Error(err)
			return
		}
		total += n
	}
	events.Completed(total)
}

// indexRoot implements the per-root strategy selection of spec.md §4.5.
func (c *Controller) indexRoot(root string, events Events) (int, error) {
	if letter, ok := driveLetterOf(root); ok {
		n, err := c.scanMFT(letter, events)
		if err == nil {
			return n, nil
		}
		logger.Info("mft scan of %s failed, falling back to walker: %v", letter, err)
	}
	return c.walkRoot(root, events)
}

// driveLetterOf recognizes the {letter}:\ pattern, length 3, uppercased.
func driveLetterOf(root string) (string, bool) {
	if len(root) != 3 || root[1] != ':' || root[2] != '\\' {
		return "", false
	}
	letter := strings.ToUpper(root[0:1])
	c := letter[0]
	if c < 'A' || c > 'Z' {
		return "", false
	}
	return letter, true
}

func (c *Controller) scanMFT(letter string, events Events) (int, error) {
	flush := c.flushWithRetry
	progress := func(p record.IndexingProgress) {
		if events != nil {
			events.Progress(p)
		}
	}
	return mft.Scan(letter, flush, progress, c.shouldStop)
}

func (c *Controller) walkRoot(root string, events Events) (int, error) {
	opts := walker.Options{
		ExcludeSubstrings: c.excludePattern,
		ExcludeGlobs:      c.excludeGlobs,
	}
	flush := c.flushWithRetry
	progress := func(p record.IndexingProgress) {
		if events != nil {
			events.Progress(p)
		}
	}
	warn := func(path string, err error) {
		logger.Info("skipping %s: %v", path, err)
	}
	return walker.Walk(root, opts, flush, progress, warn, c.shouldStop)
}

// flushWithRetry is the batch flush policy shared between C4 and C5
// (spec.md §4.5): attempt a bulk upsert, and on failure retry each record
// individually, counting successes; the batch is always emptied and a
// partial failure is never fatal.
func (c *Controller) flushWithRetry(batch []record.FileRecord) error {
	if len(batch) == 0 {
		return nil
	}
	if err := c.st.UpsertBatch(batch); err != nil {
		logger.Error("batch upsert failed, retrying item by item: %v", err)
		saved := 0
		for _, r := range batch {
			if err := c.st.Upsert(r); err != nil {
				logger.Error("retry upsert failed for %s: %v", r.Path, err)
				continue
			}
			saved++
		}
		logger.Info("item-by-item retry saved %d of %d records", saved, len(batch))
	}
	return nil
}

// DefaultRoots resolves the root set the controller uses when none is
// supplied, per spec.md §4.5.
func DefaultRoots() []string {
	if runtime.GOOS == "windows" {
		return defaultRootsWindows()
	}
	return defaultRootsUnix()
}

func defaultRootsUnix() []string {
	var roots []string
	if home := os.Getenv("HOME"); home != "" {
		roots = append(roots, home)
	}
	roots = append(roots, mountPointsFromProc("/proc/mounts")...)
	if len(roots) == 0 {
		if home := os.Getenv("HOME"); home != "" {
			roots = append(roots, home)
		}
	}
	return roots
}

var excludedMountPrefixes = []string{"/boot", "/dev", "/proc", "/sys", "/run", "/tmp", "/var/lib"}

func mountPointsFromProc(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		mount := fields[1]
		if mount == "/" {
			continue
		}
		if strings.Contains(mount, "/snap") {
			continue
		}
		excluded := false
		for _, p := range excludedMountPrefixes {
			if strings.HasPrefix(mount, p) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		out = append(out, mount)
	}
	return out
}

func defaultRootsWindows() []string {
	var roots []string
	for c := byte('A'); c <= 'Z'; c++ {
		letter := string(c)
		if _, err := os.Stat(letter + `:\`); err == nil {
			roots = append(roots, letter+`:\`)
		}
	}
	if profile := os.Getenv("USERPROFILE"); profile != "" {
		roots = append(roots, profile)
	}
	if len(roots) == 0 {
		if profile := os.Getenv("USERPROFILE"); profile != "" {
			roots = append(roots, profile)
		}
	}
	return roots
}

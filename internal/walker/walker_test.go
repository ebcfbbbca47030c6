package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ale-01cu/oxisearch/internal/record"
)

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func collect(root string, opts Options) ([]record.FileRecord, error) {
	var all []record.FileRecord
	_, err := Walk(root, opts, func(batch []record.FileRecord) error {
		all = append(all, batch...)
		return nil
	}, nil, nil, nil)
	return all, err
}

func TestWalkFindsFilesAndDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello")
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "world")

	records, err := collect(root, Options{})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	want := map[string]bool{"a.txt": true, "sub": true, "b.txt": true}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d (%v)", len(want), len(records), names)
	}
	for _, r := range records {
		if !want[r.Name] {
			t.Fatalf("unexpected record %q", r.Name)
		}
		if r.Name == "sub" {
			if !r.IsDir || r.FileSize != nil || r.Extension != nil {
				t.Fatalf("directory record malformed: %+v", r)
			}
		}
	}
}

func TestWalkSkipsHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".hidden"), "x")
	writeFile(t, filepath.Join(root, "visible.txt"), "x")

	records, err := collect(root, Options{})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(records) != 1 || records[0].Name != "visible.txt" {
		t.Fatalf("expected only visible.txt, got %+v", records)
	}
}

func TestWalkPrunesSubstringExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "x")
	writeFile(t, filepath.Join(root, "keep.txt"), "x")

	records, err := collect(root, Options{ExcludeSubstrings: []string{"node_modules"}})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(records) != 1 || records[0].Name != "keep.txt" {
		t.Fatalf("expected node_modules pruned entirely, got %+v", records)
	}
}

func TestWalkPrunesGlobExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "out.o"), "x")
	writeFile(t, filepath.Join(root, "main.go"), "x")

	records, err := collect(root, Options{ExcludeGlobs: []string{"**/*.o"}})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	for _, n := range names {
		if n == "out.o" {
			t.Fatalf("expected out.o excluded by glob, got %v", names)
		}
	}
}

func TestWalkFileRecordsHaveExtensionAndSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report.pdf"), "contents-of-some-length")

	records, err := collect(root, Options{})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Extension == nil || *r.Extension != ".pdf" {
		t.Fatalf("expected extension .pdf, got %v", r.Extension)
	}
	if r.FileSize == nil || *r.FileSize != int64(len("contents-of-some-length")) {
		t.Fatalf("expected correct size, got %v", r.FileSize)
	}
}

func TestWalkRespectsStop(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, filepath.Join(root, "f"+string(rune('a'+i))+".txt"), "x")
	}

	calls := 0
	stop := func() bool {
		calls++
		return calls > 2
	}
	var seen []record.FileRecord
	_, err := Walk(root, Options{}, func(batch []record.FileRecord) error {
		seen = append(seen, batch...)
		return nil
	}, nil, nil, stop)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(seen) >= 10 {
		t.Fatalf("expected stop to cut the walk short, got %d records", len(seen))
	}
}

package search

import (
	"path/filepath"
	"testing"

	"github.com/ale-01cu/oxisearch/internal/record"
	"github.com/ale-01cu/oxisearch/internal/store"
)

func mustOpenStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestEmptyQueryShortCircuitsWithoutTouchingStore(t *testing.T) {
	st := mustOpenStore(t)
	f := New(st)

	results, err := f.Search("", record.SearchFilters{}, 1, 50)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results.Total != 0 || len(results.Results) != 0 {
		t.Fatalf("expected empty result set, got %+v", results)
	}
}

func TestSearchShapesRowsWithPlaceholderScore(t *testing.T) {
	st := mustOpenStore(t)
	size := int64(42)
	if err := st.Upsert(record.FileRecord{
		Path: "/home/report.pdf", Name: "report.pdf", FileSize: &size,
		ModifiedTime: "2024-01-01T00:00:00Z", LastIndexed: "2024-01-01T00:00:00Z",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	f := New(st)
	results, err := f.Search("report", record.SearchFilters{}, 1, 50)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results.Total != 1 {
		t.Fatalf("expected 1 result, got %d", results.Total)
	}
	if results.Results[0].Score != 1.0 {
		t.Fatalf("expected placeholder score 1.0, got %v", results.Results[0].Score)
	}
	if results.Query != "report" {
		t.Fatalf("expected query echoed back, got %q", results.Query)
	}
}

func TestSearchAppliesExtensionFilter(t *testing.T) {
	st := mustOpenStore(t)
	mustUpsertFile(t, st, "/a/doc.txt", "doc.txt", ".txt")
	mustUpsertFile(t, st, "/a/doc.md", "doc.md", ".md")

	f := New(st)
	results, err := f.Search("doc", record.SearchFilters{Extensions: []string{".md"}}, 1, 50)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if results.Total != 1 || results.Results[0].Name != "doc.md" {
		t.Fatalf("expected only doc.md, got %+v", results.Results)
	}
}

func mustUpsertFile(t *testing.T, st *store.Store, path, name, ext string) {
	t.Helper()
	size := int64(10)
	extCopy := ext
	if err := st.Upsert(record.FileRecord{
		Path: path, Name: name, Extension: &extCopy, FileSize: &size,
		ModifiedTime: "2024-01-01T00:00:00Z", LastIndexed: "2024-01-01T00:00:00Z",
	}); err != nil {
		t.Fatalf("upsert %s: %v", path, err)
	}
}

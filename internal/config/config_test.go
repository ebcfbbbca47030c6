package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ale-01cu/oxisearch/internal/record"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.jsonc"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := record.DefaultSearchConfig()
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestLoadToleratesCommentsAndTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	content := `{
		// user overrides
		"maxResults": 50,
		"theme": "light",
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxResults != 50 || cfg.Theme != "light" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.jsonc")
	cfg := record.DefaultSearchConfig()
	cfg.IndexingPaths = []string{"/home/user"}
	cfg.ExcludeGlobs = []string{"**/*.tmp"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.IndexingPaths[0] != "/home/user" || got.ExcludeGlobs[0] != "**/*.tmp" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSaveRejectsSchemaViolatingNegativeMaxResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	cfg := record.DefaultSearchConfig()
	cfg.MaxResults = -1

	if err := Save(path, cfg); err == nil {
		t.Fatalf("expected schema validation error for negative maxResults")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written on validation failure")
	}
}

func TestMergeExcludeGlobsDeduplicatesAndNormalizes(t *testing.T) {
	merged := MergeExcludeGlobs(
		[]string{".git/**", "node_modules/**"},
		[]string{"  custom\\**  ", "node_modules/**", "zzz/**"},
	)
	want := []string{".git/**", "node_modules/**", "custom/**", "zzz/**"}
	if len(merged) != len(want) {
		t.Fatalf("expected %v, got %v", want, merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, merged)
		}
	}
}

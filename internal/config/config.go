// Package config owns SearchConfig persistence (SPEC_FULL.md §4.7): JSONC
// loading with a zero-value default, and schema-validated saves, following
// the teacher's own LoadPalaceConfig/WriteJSON/guardrail-merge pattern.
package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/ale-01cu/oxisearch/internal/record"
)

//go:embed search_config.schema.json
var schemaFS embed.FS

const schemaURL = "mem://schemas/search_config.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		data, err := schemaFS.ReadFile("search_config.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read search config schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("decode search config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("register search config schema: %w", err)
			return
		}
		s, err := c.Compile(schemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile search config schema: %w", err)
			return
		}
		compiled = s
	})
	return compiled, compileErr
}

// DefaultExcludePatterns mirrors spec.md §4.5's default exclusions.
func DefaultExcludePatterns() []string {
	return []string{".git", "node_modules", "target", ".DS_Store", "__pycache__", ".venv", "venv"}
}

// Load reads a JSONC config file at path (comments and trailing commas
// tolerated). A missing file returns record.DefaultSearchConfig() without
// error, exactly as get_config in spec.md §6 has no failure mode.
func Load(path string) (record.SearchConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return record.DefaultSearchConfig(), nil
		}
		return record.SearchConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	clean := jsonc.ToJSON(b)
	var cfg record.SearchConfig
	if err := json.Unmarshal(clean, &cfg); err != nil {
		return record.SearchConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save validates cfg against the embedded schema and, if it passes, writes
// it as indented JSON. On a schema violation nothing is written, giving
// update_config (spec.md §6) a real failure mode.
func Save(path string, cfg record.SearchConfig) error {
	// The schema types the list fields as arrays, so nil slices are written
	// as empty arrays rather than null.
	if cfg.IndexingPaths == nil {
		cfg.IndexingPaths = []string{}
	}
	if cfg.ExcludePatterns == nil {
		cfg.ExcludePatterns = []string{}
	}
	if cfg.ExcludeGlobs == nil {
		cfg.ExcludeGlobs = []string{}
	}
	encoded, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	s, err := schema()
	if err != nil {
		return err
	}
	var asAny any
	if err := json.Unmarshal(encoded, &asAny); err != nil {
		return fmt.Errorf("decode config for validation: %w", err)
	}
	if err := s.Validate(asAny); err != nil {
		return fmt.Errorf("config failed schema validation: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// MergeExcludeGlobs folds a config's user-supplied exclude_globs on top of
// the default exclude patterns, deduplicating and normalizing separators
// the way the teacher's guardrail merge does, so a user glob list is
// additive rather than a full replacement.
func MergeExcludeGlobs(defaults, user []string) []string {
	seen := make(map[string]struct{})
	var merged []string
	appendIfMissing := func(globs []string) {
		for _, g := range globs {
			norm := normalizeGlob(g)
			if norm == "" {
				continue
			}
			if _, ok := seen[norm]; ok {
				continue
			}
			seen[norm] = struct{}{}
			merged = append(merged, norm)
		}
	}
	appendIfMissing(defaults)
	appendIfMissing(user)
	return merged
}

func normalizeGlob(g string) string {
	trimmed := strings.TrimSpace(g)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.ReplaceAll(trimmed, "\\", "/")
	for strings.Contains(trimmed, "//") {
		trimmed = strings.ReplaceAll(trimmed, "//", "/")
	}
	return filepath.ToSlash(trimmed)
}

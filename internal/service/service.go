// Package service is the Go analogue of the original source's Tauri
// commands (SPEC_FULL.md §6): a Service composes the store, the indexing
// controller, the search facade, and config persistence behind the exact
// four-operation surface (search_files, reindex_path, get_indexing_status,
// get_config/update_config).
package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ale-01cu/oxisearch/internal/config"
	"github.com/ale-01cu/oxisearch/internal/indexctl"
	"github.com/ale-01cu/oxisearch/internal/record"
	"github.com/ale-01cu/oxisearch/internal/search"
	"github.com/ale-01cu/oxisearch/internal/store"
)

const dbFileName = "oxi-search.db"

// DefaultPath resolves the persistent store location the same way the
// original source's get_db_path does: a user-data-directory path in debug
// builds, a current-working-directory path in release builds.
func DefaultPath(appName string, debug bool) string {
	if debug {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		return filepath.Join(dir, appName, dbFileName)
	}
	return dbFileName
}

// Service ties the store, controller, search facade, and config path
// together for one process lifetime.
type Service struct {
	st         *store.Store
	ctrl       *indexctl.Controller
	facade     *search.Facade
	configPath string
}

// Open opens the store at dbPath and builds a Service around it. configPath
// is where SearchConfig is loaded from and saved to.
func Open(dbPath, configPath string) (*Service, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		st.Close()
		return nil, err
	}
	ctrl := indexctl.New(st, cfg.ExcludePatterns, cfg.ExcludeGlobs)
	return &Service{
		st:         st,
		ctrl:       ctrl,
		facade:     search.New(st),
		configPath: configPath,
	}, nil
}

// Close releases the underlying store handle.
func (s *Service) Close() error {
	return s.st.Close()
}

// SearchFiles is the search_files command.
func (s *Service) SearchFiles(query string, filters record.SearchFilters, page, limit uint) (record.SearchResults, error) {
	return s.facade.Search(query, filters, page, limit)
}

// ReindexPath is the reindex_path command: it starts a controller run over
// roots (or the controller's defaults, if empty) and reports through
// events. It returns immediately, matching the original's tokio::spawn.
func (s *Service) ReindexPath(roots []string, events indexctl.Events) {
	s.ctrl.StartIndexing(roots, events)
}

// ReindexPathWithExcludes is ReindexPath, but folds extraExcludePatterns on
// top of the persisted config's patterns for this run only, without
// touching the saved config (the CLI's `index --exclude` flag).
func (s *Service) ReindexPathWithExcludes(roots []string, extraExcludePatterns []string, events indexctl.Events) error {
	if len(extraExcludePatterns) == 0 {
		s.ReindexPath(roots, events)
		return nil
	}
	cfg, err := s.GetConfig()
	if err != nil {
		return err
	}
	ctrl := indexctl.New(s.st, append(append([]string{}, cfg.ExcludePatterns...), extraExcludePatterns...), cfg.ExcludeGlobs)
	ctrl.StartIndexing(roots, events)
	return nil
}

// Stop requests the current run to end early (SPEC_FULL.md §4.5 extension).
func (s *Service) Stop() {
	s.ctrl.Stop()
}

// GetIndexingStatus is the get_indexing_status command. is_indexing is not
// tracked by the core in this revision and is always false, exactly as
// spec.md §6 specifies; a future revision would wire it to a controller flag.
func (s *Service) GetIndexingStatus() (record.IndexingStatus, error) {
	total, err := s.st.Count()
	if err != nil {
		return record.IndexingStatus{}, err
	}
	size, err := s.st.DatabaseSize()
	if err != nil {
		return record.IndexingStatus{}, err
	}
	lastIndexed, err := s.st.LastIndexedTime()
	if err != nil {
		return record.IndexingStatus{}, err
	}
	return record.IndexingStatus{
		IsIndexing:   false,
		LastIndexed:  lastIndexed,
		TotalFiles:   total,
		DatabaseSize: size,
	}, nil
}

// GetConfig is the get_config command.
func (s *Service) GetConfig() (record.SearchConfig, error) {
	return config.Load(s.configPath)
}

// UpdateConfig is the update_config command: it validates cfg against the
// embedded schema before persisting, so an invalid config is rejected
// instead of silently accepted.
func (s *Service) UpdateConfig(cfg record.SearchConfig) error {
	if err := config.Save(s.configPath, cfg); err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	s.ctrl = indexctl.New(s.st, cfg.ExcludePatterns, cfg.ExcludeGlobs)
	return nil
}

// CollectGarbage runs the CLI-only maintenance sweep (SPEC_FULL.md §4.1);
// the indexing controller never calls this on its own.
func (s *Service) CollectGarbage(olderThanHours int64) (int64, error) {
	return s.st.DeleteStaleEntries(olderThanHours)
}

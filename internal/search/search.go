// Package search implements the search facade (SPEC_FULL.md §4.6): query
// shaping, the empty-query short-circuit, and result assembly around the
// index store.
package search

import (
	"github.com/ale-01cu/oxisearch/internal/record"
	"github.com/ale-01cu/oxisearch/internal/store"
)

// Facade answers search queries against an index store.
type Facade struct {
	st *store.Store
}

// New builds a Facade bound to st.
func New(st *store.Store) *Facade {
	return &Facade{st: st}
}

// Search implements spec.md §4.6: an empty query returns an empty result set
// without touching the store; otherwise the store's rows are shaped into
// SearchResults with a placeholder score of 1.0.
func (f *Facade) Search(query string, filters record.SearchFilters, page, limit uint) (record.SearchResults, error) {
	if query == "" {
		return record.SearchResults{Query: query, Page: page, Limit: limit}, nil
	}
	if limit == 0 {
		limit = 100
	}

	rows, err := f.st.Search(query, filters.Extensions, filters.MinSize, filters.MaxSize, limit)
	if err != nil {
		return record.SearchResults{}, err
	}

	results := make([]record.SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, record.SearchResult{
			Path:         row.Path,
			Name:         row.Name,
			Extension:    row.Extension,
			FileSize:     row.FileSize,
			IsDir:        row.IsDir,
			ModifiedTime: row.ModifiedTime,
			Score:        1.0,
		})
	}

	return record.SearchResults{
		Query:   query,
		Results: results,
		Total:   len(results),
		Page:    page,
		Limit:   limit,
	}, nil
}

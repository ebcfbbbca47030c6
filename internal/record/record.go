// Package record defines the canonical shapes passed between the indexing
// producers (mft, walker), the store, and the search facade.
package record

// FileRecord is the unit of persistence for one indexed file or directory.
type FileRecord struct {
	Path         string
	Name         string
	Extension    *string
	FileSize     *int64
	IsDir        bool
	ModifiedTime string // RFC-3339 UTC
	LastIndexed  string // RFC-3339 UTC
}

// IndexingStatusKind is the status field of IndexingProgress.
type IndexingStatusKind string

const (
	StatusIndexing IndexingStatusKind = "indexing"
	StatusComplete IndexingStatusKind = "completed"
	StatusError    IndexingStatusKind = "error"
)

// IndexingProgress is emitted to the caller-supplied callback during a run.
type IndexingProgress struct {
	CurrentPath    string
	FilesProcessed int
	TotalFiles     *int // always nil in this core; see SPEC_FULL.md §9
	Status         IndexingStatusKind
}

// SearchFilters narrows a search query. Date filters are accepted for
// forward compatibility but are not applied by the store (SPEC_FULL.md §4.6).
type SearchFilters struct {
	Extensions []string
	MinSize    *int64
	MaxSize    *int64
	MinDate    *string
	MaxDate    *string
}

// SearchResult is one row of a search response.
type SearchResult struct {
	Path         string
	Name         string
	Extension    *string
	FileSize     *int64
	IsDir        bool
	ModifiedTime string
	Score        float64
}

// SearchResults is the shaped response of the search facade.
type SearchResults struct {
	Query   string
	Results []SearchResult
	Total   int
	Page    uint
	Limit   uint
}

// IndexingStatus answers get_indexing_status.
type IndexingStatus struct {
	IsIndexing   bool
	LastIndexed  *string
	TotalFiles   int
	DatabaseSize int64
}

// SearchConfig is the persisted, user-editable configuration surface.
type SearchConfig struct {
	IndexingPaths   []string `json:"indexingPaths"`
	ExcludePatterns []string `json:"excludePatterns"`
	ExcludeGlobs    []string `json:"excludeGlobs"`
	MaxResults      int      `json:"maxResults"`
	FuzzyThreshold  float64  `json:"fuzzyThreshold"`
	CacheEnabled    bool     `json:"cacheEnabled"`
	CacheTTLHours   int      `json:"cacheTtlHours"`
	Theme           string   `json:"theme"`
}

// DefaultSearchConfig mirrors the original source's SearchConfig::default().
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		IndexingPaths:   nil,
		ExcludePatterns: nil,
		ExcludeGlobs:    nil,
		MaxResults:      1000,
		FuzzyThreshold:  0.7,
		CacheEnabled:    true,
		CacheTTLHours:   1,
		Theme:           "dark",
	}
}

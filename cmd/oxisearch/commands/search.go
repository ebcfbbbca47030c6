package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/ale-01cu/oxisearch/internal/logger"
	"github.com/ale-01cu/oxisearch/internal/record"
)

func init() {
	Register(&Command{
		Name:        "search",
		Aliases:     []string{"s"},
		Description: "Search the index by name substring",
		Run:         RunSearch,
	})
}

// RunSearch implements:
// `oxisearch search <query> [--ext .go,.md] [--min-size N] [--max-size N] [--page N] [--limit N]`
func RunSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	ext := fs.String("ext", "", "comma-separated extension filter, e.g. .go,.md")
	minSize := fs.Int64("min-size", 0, "minimum file size in bytes")
	maxSize := fs.Int64("max-size", 0, "maximum file size in bytes")
	page := fs.Uint("page", 1, "result page")
	limit := fs.Uint("limit", 50, "result page size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: oxisearch search <query> [flags]")
	}
	query := strings.Join(fs.Args(), " ")

	filters := record.SearchFilters{}
	if *ext != "" {
		filters.Extensions = strings.Split(*ext, ",")
	}
	if *minSize > 0 {
		filters.MinSize = minSize
	}
	if *maxSize > 0 {
		filters.MaxSize = maxSize
	}

	svc, err := openService()
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	results, err := svc.SearchFiles(query, filters, *page, *limit)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	printResultsTable(results)
	return nil
}

func printResultsTable(results record.SearchResults) {
	if results.Total == 0 {
		fmt.Println("no results")
		return
	}
	for _, r := range results.Results {
		kind := "file"
		size := ""
		if r.IsDir {
			kind = "dir"
		} else if r.FileSize != nil {
			size = logger.Bytes(*r.FileSize)
		}
		fmt.Printf("%-4s %-40s %10s  %s\n", kind, r.Name, size, r.Path)
	}
	fmt.Printf("%d result(s)\n", results.Total)
}

package commands

import (
	"flag"
	"fmt"
	"strings"
	"sync"

	"github.com/ale-01cu/oxisearch/internal/record"
)

func init() {
	Register(&Command{
		Name:        "index",
		Aliases:     []string{"reindex"},
		Description: "Index one or more paths (or the default roots if none are given)",
		Run:         RunIndex,
	})
}

type printEvents struct {
	mu   sync.Mutex
	done chan struct{}
}

func newPrintEvents() *printEvents {
	return &printEvents{done: make(chan struct{})}
}

func (e *printEvents) Progress(p record.IndexingProgress) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Printf("\rindexing... %d files (%s)", p.FilesProcessed, p.CurrentPath)
}

func (e *printEvents) Completed(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Printf("\nIndexing completed: %d entries indexed\n", count)
	close(e.done)
}

func (e *printEvents) Error(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Printf("\nIndexing failed: %v\n", err)
	close(e.done)
}

// RunIndex implements `oxisearch index [path...] [--exclude p,p,...] [--wait]`.
func RunIndex(args []string) error {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	exclude := fs.String("exclude", "", "comma-separated substring exclusion patterns, additive to the defaults")
	wait := fs.Bool("wait", false, "block until indexing finishes and print a final summary")
	if err := fs.Parse(args); err != nil {
		return err
	}
	roots := fs.Args()

	svc, err := openService()
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	var patterns []string
	if *exclude != "" {
		patterns = strings.Split(*exclude, ",")
	}

	ev := newPrintEvents()
	if err := svc.ReindexPathWithExcludes(roots, patterns, ev); err != nil {
		return fmt.Errorf("start indexing: %w", err)
	}

	if *wait {
		<-ev.done
		return nil
	}
	fmt.Println("Indexing started")
	return nil
}

package commands

import (
	"flag"
	"fmt"
)

func init() {
	Register(&Command{
		Name:        "gc",
		Description: "Delete index rows not refreshed within --older-than-hours",
		Run:         RunGC,
	})
}

// RunGC implements `oxisearch gc --older-than-hours N`. Maintenance-only;
// never invoked by the indexing controller itself (SPEC_FULL.md §4.1).
func RunGC(args []string) error {
	fs := flag.NewFlagSet("gc", flag.ContinueOnError)
	olderThanHours := fs.Int64("older-than-hours", 24*30, "delete rows whose last_indexed predates now minus this many hours")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := openService()
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	n, err := svc.CollectGarbage(*olderThanHours)
	if err != nil {
		return fmt.Errorf("gc: %w", err)
	}
	fmt.Printf("deleted %d stale entries\n", n)
	return nil
}

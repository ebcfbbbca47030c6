package commands

import (
	"fmt"

	"github.com/ale-01cu/oxisearch/internal/logger"
)

func init() {
	Register(&Command{
		Name:        "status",
		Aliases:     []string{"st"},
		Description: "Show indexing status and database size",
		Run:         RunStatus,
	})
}

// RunStatus implements `oxisearch status`.
func RunStatus(args []string) error {
	svc, err := openService()
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	status, err := svc.GetIndexingStatus()
	if err != nil {
		return fmt.Errorf("get indexing status: %w", err)
	}

	lastIndexed := "never"
	if status.LastIndexed != nil {
		lastIndexed = *status.LastIndexed
	}
	fmt.Printf("is_indexing:   %v\n", status.IsIndexing)
	fmt.Printf("last_indexed:  %s\n", lastIndexed)
	fmt.Printf("total_files:   %d\n", status.TotalFiles)
	fmt.Printf("database_size: %s\n", logger.Bytes(status.DatabaseSize))
	return nil
}

package commands

import (
	"os"
	"path/filepath"

	"github.com/ale-01cu/oxisearch/internal/service"
)

const appName = "OxI Search"

// openService opens the Service against the default database and config
// paths, resolved the same way as the original source's get_db_path
// (SPEC_FULL.md §6): a user-config-directory path in debug builds, the
// current working directory in release builds.
func openService() (*service.Service, error) {
	debug := os.Getenv("OXISEARCH_DEBUG") != ""
	dbPath := service.DefaultPath(appName, debug)
	configPath := configPathFor(dbPath)
	return service.Open(dbPath, configPath)
}

func configPathFor(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "config.jsonc")
}

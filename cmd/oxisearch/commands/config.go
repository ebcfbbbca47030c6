package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ale-01cu/oxisearch/internal/record"
)

func init() {
	Register(&Command{
		Name:        "config",
		Description: "Get or set search configuration (config get | config set key=value)",
		Run:         RunConfig,
	})
}

// RunConfig implements `oxisearch config get` and `oxisearch config set key=value`.
func RunConfig(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: oxisearch config get|set key=value")
	}

	svc, err := openService()
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	switch args[0] {
	case "get":
		cfg, err := svc.GetConfig()
		if err != nil {
			return fmt.Errorf("get config: %w", err)
		}
		encoded, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil

	case "set":
		if len(args) < 2 {
			return fmt.Errorf("usage: oxisearch config set key=value")
		}
		cfg, err := svc.GetConfig()
		if err != nil {
			return fmt.Errorf("get config: %w", err)
		}
		for _, kv := range args[1:] {
			if err := applyConfigAssignment(&cfg, kv); err != nil {
				return err
			}
		}
		if err := svc.UpdateConfig(cfg); err != nil {
			return fmt.Errorf("update config: %w", err)
		}
		fmt.Println("config updated")
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q (want get or set)", args[0])
	}
}

func applyConfigAssignment(cfg *record.SearchConfig, kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("invalid assignment %q, expected key=value", kv)
	}
	switch key {
	case "maxResults":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxResults must be an integer: %w", err)
		}
		cfg.MaxResults = n
	case "fuzzyThreshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("fuzzyThreshold must be a number: %w", err)
		}
		cfg.FuzzyThreshold = f
	case "cacheEnabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cacheEnabled must be a bool: %w", err)
		}
		cfg.CacheEnabled = b
	case "cacheTtlHours":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cacheTtlHours must be an integer: %w", err)
		}
		cfg.CacheTTLHours = n
	case "theme":
		cfg.Theme = value
	case "indexingPaths":
		cfg.IndexingPaths = strings.Split(value, ",")
	case "excludePatterns":
		cfg.ExcludePatterns = strings.Split(value, ",")
	case "excludeGlobs":
		cfg.ExcludeGlobs = strings.Split(value, ",")
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

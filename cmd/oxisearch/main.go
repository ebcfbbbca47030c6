package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ale-01cu/oxisearch/cmd/oxisearch/commands"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "oxisearch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return usage()
	}

	cmd, ok := commands.Get(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "oxisearch: unknown command %q\n\n", args[0])
		return usage()
	}
	return cmd.Run(args[1:])
}

func usage() error {
	fmt.Println("oxisearch — file indexing and search")
	fmt.Println()
	fmt.Println("usage: oxisearch <command> [flags]")
	fmt.Println()
	fmt.Println("commands:")

	cmds := commands.List()
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	for _, cmd := range cmds {
		name := cmd.Name
		if len(cmd.Aliases) > 0 {
			name = fmt.Sprintf("%s (%s)", cmd.Name, cmd.Aliases[0])
		}
		fmt.Printf("  %-20s %s\n", name, cmd.Description)
	}
	return nil
}

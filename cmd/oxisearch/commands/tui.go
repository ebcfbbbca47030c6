package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ale-01cu/oxisearch/internal/tui"
)

func init() {
	Register(&Command{
		Name:        "tui",
		Description: "Launch the interactive search view",
		Run:         RunTUI,
	})
}

// RunTUI implements `oxisearch tui`.
func RunTUI(args []string) error {
	svc, err := openService()
	if err != nil {
		return fmt.Errorf("open service: %w", err)
	}
	defer svc.Close()

	p := tea.NewProgram(tui.New(svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/serene/internal/cli"
	"github.com/julianstephens/serene/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Services()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx.Context(), svc), tea.WithAltScreen())
	tui.Watch(svc, p.Send)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}

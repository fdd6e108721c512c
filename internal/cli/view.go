package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// viewCommand opens the interactive terminal timeline.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "view [catalog | layout.json]",
		Short: "Browse a timeline interactively in the terminal",
		Long: `Browse a timeline in the terminal.

Keys: + or = zoom in, - zoom out, 0 reset, ←/→ or h/l scroll, q quit.
Mouse: ctrl+wheel zooms, the plain wheel scrolls.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, noCache bool) error {
	layout, idx, err := c.loadTimeline(ctx, input, noCache)
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewTimelineModel(layout, idx),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return context.Canceled
		}
		return fmt.Errorf("run timeline view: %w", err)
	}
	return nil
}

// loadTimeline returns the layout for input: read directly from a layout
// file, or computed (with caching) from a catalog.
func (c *CLI) loadTimeline(ctx context.Context, input string, noCache bool) (timeline.Result, catalog.Index, error) {
	if isLayoutFile(input) {
		layout, err := readLayout(input)
		return layout, nil, err
	}

	books, err := pipeline.ReadCatalog(ctx, input)
	if err != nil {
		return timeline.Result{}, nil, fmt.Errorf("load catalog %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return timeline.Result{}, nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	items, skipped := catalog.Items(books)
	layout, err := runner.Layout(ctx, items, c.baseOptions())
	if err != nil {
		return timeline.Result{}, nil, err
	}
	layout.Skipped = skipped
	return layout, catalog.NewIndex(books), nil
}

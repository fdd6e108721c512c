package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

type layoutFlags struct {
	output  string
	width   float64
	epoch   timeline.Epoch
	noCache bool
	refresh bool
}

// layoutCommand creates the layout command for computing timeline layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [catalog]",
		Short: "Compute a timeline layout from a catalog file",
		Long: `Compute a timeline layout from a catalog file (JSON, YAML or CSV).

The layout is written in base units (zoom 1.0) to <input>.layout.json and can
be rendered at any zoom with 'render'. Books without a known year are left
out and counted.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			if cmd.Flags().Changed("width") {
				opts.Width = flags.width
			}
			if !flags.epoch.IsZero() {
				opts.Epoch = flags.epoch
			}
			opts.Refresh = flags.refresh
			return c.runLayout(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().Float64Var(&flags.width, "width", pipeline.DefaultWidth, "container width in base units")
	cmd.Flags().Var(epochFlag{&flags.epoch}, "epoch", "axis suffixes, e.g. BBY/ABY")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runLayout loads the catalog, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags) error {
	books, err := pipeline.ReadCatalog(ctx, input)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", input, err)
	}
	loggerFromContext(ctx).Debug("loaded catalog", "path", input, "books", len(books))

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	items, skipped := catalog.Items(books)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	layout, cacheHit, err := runner.LayoutWithCacheInfo(ctx, items, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	layout.Skipped = skipped

	outputPath := flags.output
	if outputPath == "" {
		outputPath = basePath("", input) + layoutSuffix
	}
	if err := writeLayout(outputPath, layout); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(pipeline.Stats{
		Books:   len(books),
		Nodes:   len(layout.Nodes),
		Skipped: skipped,
		Shelves: layout.Shelves(),
	}, cacheHit)
	if len(layout.Nodes) > 0 {
		fmt.Fprintln(stdout, shelfTable(shelfCounts(layout)))
	}
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// shelfCounts returns the number of nodes on each shelf, bottom first.
func shelfCounts(r timeline.Result) []int {
	counts := make([]int, r.Shelves())
	for _, n := range r.Nodes {
		counts[n.Stack]++
	}
	return counts
}

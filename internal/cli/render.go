package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
	"github.com/matzehuels/chronoshelf/pkg/timeline/zoom"
)

type renderFlags struct {
	output  string
	formats string
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags renderFlags
		width float64
		epoch timeline.Epoch
	)
	opts := pipeline.Options{Zoom: zoom.Default}

	cmd := &cobra.Command{
		Use:   "render [catalog | layout.json]",
		Short: "Render a catalog or a computed layout",
		Long: `Render a timeline to one or more formats.

The input is either a catalog file (JSON, YAML or CSV), which is laid out
first, or a *.layout.json file written by 'layout'. Rendering from a layout
skips the catalog, so nodes are drawn without canon or reading-status styling.

Formats: svg (default), json, txt, png, pdf. PNG and PDF need rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := c.baseOptions()
			opts.Logger = base.Logger
			opts.Width = base.Width
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			opts.Epoch = base.Epoch
			if !epoch.IsZero() {
				opts.Epoch = epoch
			}
			opts.Formats = parseFormats(flags.formats)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, txt, png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", opts.Zoom, "zoom factor in [0.5, 5]")
	cmd.Flags().Float64Var(&width, "width", pipeline.DefaultWidth, "container width in base units (catalog input only)")
	cmd.Flags().Var(epochFlag{&epoch}, "epoch", "axis suffixes, e.g. BBY/ABY")
	cmd.Flags().StringVar(&opts.Hover, "hover", "", "hover mode: title_year (default), title_author, image_hover, image_always")
	cmd.Flags().StringVar(&opts.LinkPrefix, "link-prefix", "", "prefix for /books/{id} links in SVG output")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return renderFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var (
		artifacts map[string][]byte
		stats     pipeline.Stats
		cached    bool
	)
	if isLayoutFile(input) {
		layout, err := readLayout(input)
		if err != nil {
			return err
		}
		artifacts, cached, err = runner.RenderWithCacheInfo(ctx, layout, nil, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		stats = pipeline.Stats{Nodes: len(layout.Nodes), Shelves: layout.Shelves(), Skipped: layout.Skipped}
	} else {
		books, err := pipeline.ReadCatalog(ctx, input)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", input, err)
		}
		res, err := runner.Execute(ctx, books, opts)
		if err != nil {
			return err
		}
		artifacts, stats = res.Artifacts, res.Stats
		cached = res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifacts, opts.Formats, flags.output, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d file(s) at %d%% zoom", len(paths), int(opts.Zoom*100+0.5)))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(stats, cached)
	return nil
}

// writeArtifacts writes one file per format. A single format with an explicit
// output path is written there verbatim; otherwise files are named
// <base>.<format>.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	sorted := append([]string(nil), formats...)
	sort.Strings(sorted)

	var paths []string
	seen := make(map[string]bool, len(sorted))
	for _, format := range sorted {
		if seen[format] {
			continue
		}
		seen[format] = true
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// renderFormats lists the formats accepted by --format, for completion.
func renderFormats() []string {
	out := make([]string, 0, len(sink.ValidFormats))
	for f := range sink.ValidFormats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

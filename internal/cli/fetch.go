package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chronoshelf/pkg/cache"
	"github.com/matzehuels/chronoshelf/pkg/catalog"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
)

type fetchFlags struct {
	url     string
	output  string
	canon   string
	status  string
	minYear int
	maxYear int
	noCache bool
	refresh bool
}

// fetchCommand creates the fetch command, which downloads books from the
// catalog backend into a JSON catalog file.
func (c *CLI) fetchCommand() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download books from the catalog backend",
		Long: `Download every book matching the filters from the catalog backend and
write them to a JSON catalog file for 'layout', 'render' and 'view'.

Pages are cached for an hour; use --refresh to bypass the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter(cmd)
			if err != nil {
				return err
			}
			return c.runFetch(cmd.Context(), f, flags)
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", "", "catalog API base URL (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "catalog.json", `output file, or "-" for stdout`)
	cmd.Flags().StringVar(&flags.canon, "canon", "", "only canon or legends books")
	cmd.Flags().StringVar(&flags.status, "status", "", "only books with this reading status: unread, reading, read")
	cmd.Flags().IntVar(&flags.minYear, "min-year", 0, "earliest in-universe year")
	cmd.Flags().IntVar(&flags.maxYear, "max-year", 0, "latest in-universe year")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass cached pages")

	return cmd
}

// filter builds a catalog filter from the flags that were set.
func (f *fetchFlags) filter(cmd *cobra.Command) (catalog.Filter, error) {
	out := catalog.Filter{Canon: f.canon, ReadingStatus: f.status}
	switch f.canon {
	case "", catalog.Canon, catalog.Legends:
	default:
		return out, cerrors.New(cerrors.ErrCodeInvalidInput, "--canon must be %s or %s, got %q", catalog.Canon, catalog.Legends, f.canon)
	}
	switch f.status {
	case "", catalog.StatusUnread, catalog.StatusReading, catalog.StatusRead:
	default:
		return out, cerrors.New(cerrors.ErrCodeInvalidInput, "invalid --status %q", f.status)
	}
	for _, name := range []string{"min-year", "max-year"} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		y, _ := cmd.Flags().GetInt(name)
		if err := cerrors.ValidateYear(y); err != nil {
			return out, cerrors.New(cerrors.ErrCodeInvalidInput, "--%s: %s", name, cerrors.UserMessage(err))
		}
	}
	if cmd.Flags().Changed("min-year") {
		out.MinYear = catalog.YearOf(f.minYear)
	}
	if cmd.Flags().Changed("max-year") {
		out.MaxYear = catalog.YearOf(f.maxYear)
	}
	if out.MinYear != nil && out.MaxYear != nil && *out.MinYear > *out.MaxYear {
		return out, cerrors.New(cerrors.ErrCodeInvalidInput, "--min-year %d is after --max-year %d", *out.MinYear, *out.MaxYear)
	}
	return out, nil
}

func (c *CLI) runFetch(ctx context.Context, f catalog.Filter, flags fetchFlags) error {
	cfg := c.settings()
	baseURL := flags.url
	if baseURL == "" {
		baseURL = cfg.Catalog.BaseURL
	}

	cc, err := c.newCache(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer cc.Close()

	client, err := catalog.NewClient(baseURL,
		catalog.WithCache(cc, cache.NewDefaultKeyer()),
		catalog.WithPageSize(cfg.Catalog.PageSize),
		catalog.WithRefresh(flags.refresh),
	)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Fetching books from "+baseURL+"...")
	spinner.Start()
	books, err := pipeline.FetchCatalog(ctx, client, f)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Fetched %d books", len(books)))

	if err := writeCatalog(flags.output, books); err != nil {
		return err
	}
	if flags.output == "-" {
		return nil
	}

	_, skipped := catalog.Items(books)
	printSuccess("Fetched %d books", len(books))
	printFile(flags.output)
	if skipped > 0 {
		printWarning("%s", sink.SkippedMessage(skipped))
	}
	printNewline()
	printNextStep("Lay out", appName+" layout "+flags.output)
	return nil
}

func writeCatalog(path string, books []catalog.Book) error {
	var w io.Writer = stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := catalog.WriteJSON(w, books); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/observability"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// ComputeLayout runs the layout engine and emits pipeline hooks. It never
// touches the cache; see [Runner.LayoutWithCacheInfo].
func ComputeLayout(ctx context.Context, items []timeline.Item, opts Options) timeline.Result {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(items))
	start := time.Now()

	res := timeline.Layout(items, opts.Width, timeline.WithEpoch(opts.Epoch))

	hooks.OnLayoutComplete(ctx, len(res.Nodes), res.MaxStack(), time.Since(start))
	return res
}

// ValidateItems checks items received from outside the process, such as API
// request bodies.
func ValidateItems(items []timeline.Item) error {
	if len(items) > cerrors.MaxItems {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "too many items: %d (max %d)", len(items), cerrors.MaxItems)
	}
	for _, it := range items {
		if err := cerrors.ValidateItemID(it.ID); err != nil {
			return err
		}
		if err := cerrors.ValidateYear(it.Year); err != nil {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "item %s: %s", it.ID, cerrors.UserMessage(err))
		}
	}
	return nil
}

// ReadCatalog loads a catalog file and reports it through the fetch hooks.
func ReadCatalog(ctx context.Context, path string) ([]catalog.Book, error) {
	return observeFetch(ctx, path, func() ([]catalog.Book, error) {
		return catalog.ReadFile(path)
	})
}

// FetchCatalog pulls every matching book from the catalog backend and
// reports it through the fetch hooks.
func FetchCatalog(ctx context.Context, c *catalog.Client, f catalog.Filter) ([]catalog.Book, error) {
	return observeFetch(ctx, "catalog api", func() ([]catalog.Book, error) {
		return c.FetchAll(ctx, f)
	})
}

func observeFetch(ctx context.Context, source string, fetch func() ([]catalog.Book, error)) ([]catalog.Book, error) {
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, source)
	start := time.Now()

	books, err := fetch()
	skipped := 0
	for _, b := range books {
		if b.Year == nil {
			skipped++
		}
	}
	hooks.OnFetchComplete(ctx, source, len(books), skipped, time.Since(start), err)
	return books, err
}

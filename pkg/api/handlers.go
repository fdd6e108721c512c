package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chronoshelf/pkg/catalog"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/store"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
	"github.com/matzehuels/chronoshelf/pkg/timeline/zoom"
)

// timelineRequest is the body shared by the layout, render and snapshot
// endpoints. Exactly one of Books and Items may be set; books without a year
// are skipped and counted.
type timelineRequest struct {
	Books []catalog.Book  `json:"books,omitempty"`
	Items []timeline.Item `json:"items,omitempty"`

	Width      float64        `json:"width,omitempty"`
	Epoch      timeline.Epoch `json:"epoch,omitempty"`
	Zoom       float64        `json:"zoom,omitempty"`
	Hover      string         `json:"hover,omitempty"`
	LinkPrefix string         `json:"link_prefix,omitempty"`

	// Name is only used when saving a snapshot.
	Name string `json:"name,omitempty"`
}

// input is a decoded request reduced to what the pipeline needs.
type input struct {
	items   []timeline.Item
	index   catalog.Index
	skipped int
}

func (req *timelineRequest) input() (input, error) {
	if len(req.Books) > 0 && len(req.Items) > 0 {
		return input{}, cerrors.New(cerrors.ErrCodeInvalidInput, "set either books or items, not both")
	}
	if len(req.Books) > cerrors.MaxItems {
		return input{}, cerrors.New(cerrors.ErrCodeInvalidInput, "too many books: %d (max %d)", len(req.Books), cerrors.MaxItems)
	}
	if len(req.Books) > 0 {
		if err := catalog.Validate(req.Books); err != nil {
			return input{}, err
		}
		items, skipped := catalog.Items(req.Books)
		return input{items: items, index: catalog.NewIndex(req.Books), skipped: skipped}, nil
	}
	if err := pipeline.ValidateItems(req.Items); err != nil {
		return input{}, err
	}
	items := req.Items
	if items == nil {
		items = []timeline.Item{}
	}
	return input{items: items}, nil
}

func (s *Server) options(req *timelineRequest) pipeline.Options {
	opts := pipeline.Options{
		Width:      req.Width,
		Epoch:      req.Epoch,
		Zoom:       req.Zoom,
		Hover:      req.Hover,
		LinkPrefix: req.LinkPrefix,
		Logger:     s.logger,
	}
	if opts.Width == 0 {
		opts.Width = s.width
	}
	if opts.Epoch.IsZero() {
		opts.Epoch = s.epoch
	}
	return opts
}

// applyQuery overrides render options from the query string.
func applyQuery(r *http.Request, opts *pipeline.Options) error {
	q := r.URL.Query()
	if v := q.Get("zoom"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cerrors.New(cerrors.ErrCodeInvalidZoom, "invalid zoom: %q", v)
		}
		opts.Zoom = z
	}
	if v := q.Get("hover"); v != "" {
		opts.Hover = v
	}
	return nil
}

func cacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "hit")
		return
	}
	w.Header().Set("X-Cache", "miss")
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	layout, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), in.items, s.options(&req))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	layout.Skipped = in.skipped

	cacheHeader(w, hit)
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = sink.FormatSVG
	}
	opts := s.options(&req)
	opts.Formats = []string{format}
	if err := applyQuery(r, &opts); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	ctx := r.Context()
	layout, err := s.runner.Layout(ctx, in.items, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	layout.Skipped = in.skipped

	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, layout, in.index, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	cacheHeader(w, hit)
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if req.Zoom == 0 {
		req.Zoom = zoom.Default
	}
	if err := cerrors.ValidateZoom(req.Zoom); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	opts := s.options(&req)
	layout, err := s.runner.Layout(r.Context(), in.items, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	layout.Skipped = in.skipped

	snap := &store.Snapshot{
		Name:   req.Name,
		Width:  opts.Width,
		Zoom:   req.Zoom,
		Epoch:  opts.Epoch,
		Layout: layout,
	}
	if err := s.store.Save(r.Context(), snap); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	w.Header().Set("Location", "/v1/snapshots/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, s.logger, cerrors.New(cerrors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}

	snaps, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if snaps == nil {
		snaps = []*store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})
}

// snapshot loads the snapshot named by the {id} URL parameter. Malformed IDs
// are reported as missing without a store round trip.
func (s *Server) snapshot(r *http.Request) (*store.Snapshot, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, store.ErrNotFound
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSnapshotSVG(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	opts := pipeline.Options{
		Width:   snap.Width,
		Epoch:   snap.Epoch,
		Zoom:    snap.Zoom,
		Formats: []string{sink.FormatSVG},
		Logger:  s.logger,
	}
	if err := applyQuery(r, &opts); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), snap.Layout, nil, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	cacheHeader(w, hit)
	w.Header().Set("Content-Type", sink.ContentType(sink.FormatSVG))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[sink.FormatSVG])
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, r, s.logger, store.ErrNotFound)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

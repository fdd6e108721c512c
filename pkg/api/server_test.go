package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chronoshelf/pkg/cache"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/pipeline"
	"github.com/matzehuels/chronoshelf/pkg/store"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

const scenarioItems = `{"items": [
	{"id": "a", "year": -19},
	{"id": "b", "year": 0},
	{"id": "c", "year": 5},
	{"id": "d", "year": 5}
]}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	logger := log.New(io.Discard)
	srv := New(pipeline.NewRunner(fc, nil, logger), store.NewMemoryStore(), logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func expectError(t *testing.T, resp *http.Response, status int, code cerrors.Code) {
	t.Helper()
	if resp.StatusCode != status {
		t.Errorf("status = %d, want %d", resp.StatusCode, status)
	}
	body := decode[errorBody](t, resp)
	if body.Error.Code != code {
		t.Errorf("code = %q, want %q (message %q)", body.Error.Code, code, body.Error.Message)
	}
	if body.Error.Message == "" {
		t.Error("error message is empty")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/v1/layout", scenarioItems)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	res := decode[timeline.Result](t, resp)
	if len(res.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(res.Nodes))
	}
	if res.Nodes[0].X != 60 {
		t.Errorf("first node x = %v, want 60", res.Nodes[0].X)
	}
	if res.Nodes[3].Stack != 1 {
		t.Errorf("last node stack = %d, want 1", res.Nodes[3].Stack)
	}
	if !res.HasZero() {
		t.Error("zero marker missing")
	}
	if res.ContentWidth != 1200 {
		t.Errorf("content width = %v, want 1200", res.ContentWidth)
	}

	again := do(t, http.MethodPost, ts.URL+"/v1/layout", scenarioItems)
	if got := again.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second request X-Cache = %q, want hit", got)
	}
}

func TestLayoutBooksSkipsUnknownYears(t *testing.T) {
	ts := newTestServer(t)
	body := `{"books": [
		{"id": 1, "title": "A New Hope", "timeline_year": 0},
		{"id": 2, "title": "Tarkin", "timeline_year": -14},
		{"id": 3, "title": "Undated"}
	], "width": 800, "epoch": {"before": "BBY", "after": "ABY"}}`

	resp := do(t, http.MethodPost, ts.URL+"/v1/layout", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	res := decode[timeline.Result](t, resp)
	if len(res.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(res.Nodes))
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	for _, m := range res.Marks {
		if m.Year == 0 && m.Label != "0 BBY/ABY" {
			t.Errorf("zero label = %q, want %q", m.Label, "0 BBY/ABY")
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/v1/layout", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	res := decode[timeline.Result](t, resp)
	if len(res.Nodes) != 0 || len(res.Marks) != 0 {
		t.Errorf("got %d nodes and %d marks, want none", len(res.Nodes), len(res.Marks))
	}
	if res.HasZero() {
		t.Error("empty layout has a zero marker")
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   cerrors.Code
	}{
		{"empty body", "", http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"malformed", `{"items": [`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"unknown field", `{"itemz": []}`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"trailing data", `{} {}`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"books and items", `{"books": [{"id": 1, "timeline_year": 1}], "items": [{"id": "a", "year": 1}]}`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"negative width", `{"width": -5}`, http.StatusBadRequest, cerrors.ErrCodeInvalidWidth},
		{"markup id", `{"items": [{"id": "<b>", "year": 1}]}`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"item year at max int", `{"items": [{"id": "a", "year": 9223372036854775805}, {"id": "b", "year": 9223372036854775807}]}`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
		{"book year out of range", `{"books": [{"id": 1, "timeline_year": -2000000}]}`, http.StatusBadRequest, cerrors.ErrCodeInvalidInput},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/layout", tt.body)
			expectError(t, resp, tt.status, tt.code)
		})
	}
}

func TestLayoutBodyTooLarge(t *testing.T) {
	ts := newTestServer(t)
	body := `{"name": "` + strings.Repeat("x", MaxBodyBytes) + `"}`
	resp := do(t, http.MethodPost, ts.URL+"/v1/layout", body)
	expectError(t, resp, http.StatusBadRequest, cerrors.ErrCodeInvalidInput)
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodPost, ts.URL+"/v1/render?zoom=1.3", scenarioItems)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("body does not start with <svg: %.40q", data)
	}
	if !strings.Contains(string(data), `width="1560"`) {
		t.Errorf("zoomed svg should be 1560 wide")
	}
}

func TestRenderFormats(t *testing.T) {
	ts := newTestServer(t)
	body := `{"books": [{"id": 7, "title": "Bloodline", "timeline_year": 28, "reading_status": "read"}]}`

	resp := do(t, http.MethodPost, ts.URL+"/v1/render?format=json", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("json status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "Bloodline") {
		t.Errorf("json output does not carry the catalog title: %s", data)
	}

	resp = do(t, http.MethodPost, ts.URL+"/v1/render?format=txt", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("txt status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", got)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  cerrors.Code
	}{
		{"unknown format", "?format=gif", cerrors.ErrCodeInvalidFormat},
		{"unparsable zoom", "?zoom=big", cerrors.ErrCodeInvalidZoom},
		{"zoom above max", "?zoom=9", cerrors.ErrCodeInvalidZoom},
		{"zoom below min", "?zoom=0.1", cerrors.ErrCodeInvalidZoom},
		{"unknown hover", "?hover=tooltip", cerrors.ErrCodeInvalidInput},
	}

	ts := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/v1/render"+tt.query, scenarioItems)
			expectError(t, resp, http.StatusBadRequest, tt.code)
		})
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	ts := newTestServer(t)

	body := strings.Replace(scenarioItems, `{"items"`, `{"name": "  era overview ", "zoom": 2, "items"`, 1)
	resp := do(t, http.MethodPost, ts.URL+"/v1/snapshots", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	created := decode[store.Snapshot](t, resp)
	if !store.ValidID(created.ID) {
		t.Fatalf("created id %q is not a UUID", created.ID)
	}
	if created.Name != "era overview" {
		t.Errorf("name = %q, want trimmed %q", created.Name, "era overview")
	}
	if got, want := resp.Header.Get("Location"), "/v1/snapshots/"+created.ID; got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
	if created.Width != pipeline.DefaultWidth || created.Zoom != 2 {
		t.Errorf("width/zoom = %v/%v, want %v/2", created.Width, created.Zoom, pipeline.DefaultWidth)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/snapshots/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	got := decode[store.Snapshot](t, resp)
	if len(got.Layout.Nodes) != 4 {
		t.Errorf("stored nodes = %d, want 4", len(got.Layout.Nodes))
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/snapshots", "")
	list := decode[struct {
		Snapshots []store.Snapshot `json:"snapshots"`
	}](t, resp)
	if len(list.Snapshots) != 1 || list.Snapshots[0].ID != created.ID {
		t.Errorf("list = %+v, want the created snapshot", list.Snapshots)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/snapshots/"+created.ID+"/svg", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("svg status = %d, want 200", resp.StatusCode)
	}
	svg, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), `width="2400"`) {
		t.Errorf("snapshot svg should render at the saved zoom of 2")
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/snapshots/"+created.ID+"/svg?zoom=1", "")
	svg, _ = io.ReadAll(resp.Body)
	if !strings.Contains(string(svg), `width="1200"`) {
		t.Errorf("zoom query should override the saved zoom")
	}

	resp = do(t, http.MethodDelete, ts.URL+"/v1/snapshots/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/v1/snapshots/"+created.ID, "")
	expectError(t, resp, http.StatusNotFound, cerrors.ErrCodeNotFound)

	resp = do(t, http.MethodDelete, ts.URL+"/v1/snapshots/"+created.ID, "")
	expectError(t, resp, http.StatusNotFound, cerrors.ErrCodeNotFound)
}

func TestSnapshotErrors(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/v1/snapshots/not-a-uuid", "")
	expectError(t, resp, http.StatusNotFound, cerrors.ErrCodeNotFound)

	resp = do(t, http.MethodPost, ts.URL+"/v1/snapshots", `{"zoom": 7}`)
	expectError(t, resp, http.StatusBadRequest, cerrors.ErrCodeInvalidZoom)

	resp = do(t, http.MethodPost, ts.URL+"/v1/snapshots", `{"name": "`+strings.Repeat("n", store.MaxNameLen+1)+`"}`)
	expectError(t, resp, http.StatusBadRequest, cerrors.ErrCodeInvalidInput)

	resp = do(t, http.MethodGet, ts.URL+"/v1/snapshots?limit=-1", "")
	expectError(t, resp, http.StatusBadRequest, cerrors.ErrCodeInvalidInput)
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/v2/layout", "")
	expectError(t, resp, http.StatusNotFound, cerrors.ErrCodeNotFound)

	resp = do(t, http.MethodGet, ts.URL+"/v1/layout", "")
	expectError(t, resp, http.StatusMethodNotAllowed, cerrors.ErrCodeInvalidInput)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want cerrors.Code
	}{
		{cerrors.New(cerrors.ErrCodeInvalidWidth, "bad"), cerrors.ErrCodeInvalidWidth},
		{store.ErrNotFound, cerrors.ErrCodeNotFound},
		{&cerrors.RateLimitedError{RetryAfter: 3}, cerrors.ErrCodeRateLimited},
		{io.ErrUnexpectedEOF, cerrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		if got := codeOf(tt.err); got != tt.want {
			t.Errorf("codeOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

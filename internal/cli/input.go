package cli

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
	"github.com/matzehuels/chronoshelf/pkg/timeline/sink"
)

// layoutSuffix marks files written by `chronoshelf layout`.
const layoutSuffix = ".layout.json"

func isLayoutFile(path string) bool {
	return strings.HasSuffix(path, layoutSuffix)
}

// readLayout loads a layout written by `chronoshelf layout`.
func readLayout(path string) (timeline.Result, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return timeline.Result{}, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "layout %s", path)
	}
	if err != nil {
		return timeline.Result{}, err
	}
	var res timeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return timeline.Result{}, cerrors.Wrap(cerrors.ErrCodeInvalidSource, err, "read %s", filepath.Base(path))
	}
	return res, nil
}

func writeLayout(path string, res timeline.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// basePath derives the output path without extension. An empty output strips
// the input's extension (or the .layout.json suffix); an output ending in a
// known format extension has it stripped.
func basePath(output, input string) string {
	if output == "" {
		if isLayoutFile(input) {
			return strings.TrimSuffix(input, layoutSuffix)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if sink.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// epochFlag parses --epoch values of the form "BEFORE/AFTER", e.g. "BBY/ABY".
type epochFlag struct {
	epoch *timeline.Epoch
}

var _ pflag.Value = epochFlag{}

func (f epochFlag) String() string {
	if f.epoch == nil || f.epoch.IsZero() {
		return ""
	}
	return f.epoch.Before + "/" + f.epoch.After
}

func (f epochFlag) Set(s string) error {
	before, after, ok := strings.Cut(s, "/")
	before, after = strings.TrimSpace(before), strings.TrimSpace(after)
	if !ok || before == "" || after == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "epoch must look like BEFORE/AFTER, got %q", s)
	}
	*f.epoch = timeline.Epoch{Before: before, After: after}
	return nil
}

func (f epochFlag) Type() string { return "before/after" }

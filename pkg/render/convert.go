package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
)

// rsvgBinary is the converter executable; tests point it elsewhere.
var rsvgBinary = "rsvg-convert"

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2 doubles the resolution.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, cerrors.New(cerrors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, err, "rsvg-convert %s: %s", format, bytes.TrimSpace(errBuf.Bytes()))
	}
	return out.Bytes(), nil
}

// Check returns an UNSUPPORTED error when format cannot be produced because
// rsvg-convert is missing. Callers use it to fail before rendering anything.
func Check(format string) error {
	if Available() {
		return nil
	}
	return cerrors.New(cerrors.ErrCodeUnsupported, "%s export requires rsvg-convert on PATH", format)
}

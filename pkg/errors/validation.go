package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/matzehuels/chronoshelf/pkg/timeline/zoom"
)

// Limits enforced on API and CLI input.
const (
	MaxWidth     = 100000.0 // largest accepted container width in base units
	MaxItemIDLen = 128
	MaxItems     = 10000

	// MaxAbsYear bounds in-universe years. It keeps year arithmetic and the
	// number of axis marks small no matter what a catalog contains.
	MaxAbsYear = 1_000_000
)

// Bounds of the zoom factor accepted from callers; they are the zoom
// controller's own bounds.
const (
	MinZoom = zoom.Min
	MaxZoom = zoom.Max
)

// ValidateWidth checks a container width. The layout itself accepts any
// non-negative width, but callers are expected to pass a positive viewport.
func ValidateWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return New(ErrCodeInvalidWidth, "width must be a finite number")
	}
	if w <= 0 {
		return New(ErrCodeInvalidWidth, "width must be positive, got %v", w)
	}
	if w > MaxWidth {
		return New(ErrCodeInvalidWidth, "width too large (max %v)", MaxWidth)
	}
	return nil
}

// ValidateYear checks that year lies in [-MaxAbsYear, MaxAbsYear].
func ValidateYear(year int) error {
	if year < -MaxAbsYear || year > MaxAbsYear {
		return New(ErrCodeInvalidInput, "year %d out of range [%d, %d]", year, -MaxAbsYear, MaxAbsYear)
	}
	return nil
}

// ValidateZoom checks an explicitly requested zoom factor.
func ValidateZoom(z float64) error {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return New(ErrCodeInvalidZoom, "zoom must be a finite number")
	}
	if z < MinZoom || z > MaxZoom {
		return New(ErrCodeInvalidZoom, "zoom %v out of range [%v, %v]", z, MinZoom, MaxZoom)
	}
	return nil
}

// ValidateFormat checks that format is one of valid.
func ValidateFormat(format string, valid map[string]bool) error {
	if !valid[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q", format)
	}
	return nil
}

// ValidateItemID validates an item identifier. IDs end up in SVG attributes,
// link targets and cache keys, so control characters, markup delimiters and
// overly long values are rejected.
func ValidateItemID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}
	if len(id) > MaxItemIDLen {
		return New(ErrCodeInvalidInput, "item id too long (max %d characters)", MaxItemIDLen)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "item id contains invalid control characters")
		}
	}
	if strings.ContainsAny(id, `<>"'&`) {
		return New(ErrCodeInvalidInput, "item id contains markup characters: %q", id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

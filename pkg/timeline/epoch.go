package timeline

import (
	"fmt"
	"strings"
)

// Epoch names the two sides of year zero for axis labels.
type Epoch struct {
	Before string `json:"before" toml:"before" bson:"before"`
	After  string `json:"after" toml:"after" bson:"after"`
}

var (
	// DefaultEpoch labels years neutrally: "19 BEFORE", "5 AFTER".
	DefaultEpoch = Epoch{Before: "BEFORE", After: "AFTER"}

	// GalacticEpoch uses the catalog's own convention, counting years before
	// and after the Battle of Yavin.
	GalacticEpoch = Epoch{Before: "BBY", After: "ABY"}
)

// Format renders year as an axis label. Year 0 gets the dual label that names
// both sides of the boundary, e.g. "0 BEFORE/AFTER".
func (e Epoch) Format(year int) string {
	e = e.withDefaults()
	switch {
	case year > 0:
		return fmt.Sprintf("%d %s", year, e.After)
	case year < 0:
		// -(year+1)+1 keeps math.MinInt from overflowing.
		return fmt.Sprintf("%d %s", uint64(-(year+1))+1, e.Before)
	default:
		return fmt.Sprintf("0 %s/%s", e.Before, e.After)
	}
}

// IsZero reports whether neither suffix is set.
func (e Epoch) IsZero() bool { return e.Before == "" && e.After == "" }

func (e Epoch) withDefaults() Epoch {
	if strings.TrimSpace(e.Before) == "" {
		e.Before = DefaultEpoch.Before
	}
	if strings.TrimSpace(e.After) == "" {
		e.After = DefaultEpoch.After
	}
	return e
}

// FormatYear formats year with [DefaultEpoch].
func FormatYear(year int) string { return DefaultEpoch.Format(year) }

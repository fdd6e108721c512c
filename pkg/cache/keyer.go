package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// LayoutKeyOpts holds every input besides the items that changes a layout.
type LayoutKeyOpts struct {
	Width  float64 `json:"width"`
	Before string  `json:"before,omitempty"`
	After  string  `json:"after,omitempty"`
}

// ArtifactKeyOpts holds every input besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Zoom       float64 `json:"zoom"`
	Linked     bool    `json:"linked,omitempty"` // rendered with catalog metadata
	Hover      string  `json:"hover,omitempty"`
	LinkPrefix string  `json:"link_prefix,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	HTTPKey(namespace, key string) string
	LayoutKey(itemsHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey generates a key for a cached HTTP response.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LayoutKey generates a key for a computed layout.
func (DefaultKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", itemsHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

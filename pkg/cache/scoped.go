package cache

// ScopedKeyer prefixes every key built by an inner [Keyer].
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes the keys of inner, or of the default keyer when
// inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NewCatalogKeyer scopes keys to the catalog backend at baseURL, e.g.
// "catalog:3f2a9c1e04b7:layout:...". `chronoshelf serve` uses it with the
// Redis backend, where one instance may serve several catalogs.
func NewCatalogKeyer(baseURL string) Keyer {
	return NewScopedKeyer(nil, "catalog:"+Hash([]byte(baseURL))[:12]+":")
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) LayoutKey(itemsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(itemsHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

package cache

// ScopedKeyer prefixes every key from an inner Keyer. The API server scopes
// keys per record source so two sources with identical content still get
// separate entries in a shared Redis.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "src:"+Hash([]byte(uri))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) RasterKey(recordsHash string, root int, opts RasterKeyOpts) string {
	return k.prefix + k.inner.RasterKey(recordsHash, root, opts)
}

func (k *ScopedKeyer) ArtifactKey(rasterKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(rasterKey, opts)
}

func (k *ScopedKeyer) ReportKey(recordsHash string, root int, kind string) string {
	return k.prefix + k.inner.ReportKey(recordsHash, root, kind)
}

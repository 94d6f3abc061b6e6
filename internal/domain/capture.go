package domain

// ImageAsset is one acquired food image plus a locally renderable preview.
// It is owned by a single submission and discarded after persistence or
// when a new capture replaces it.
type ImageAsset struct {
	Data        []byte // raw image bytes as acquired
	ContentType string // e.g. image/jpeg
	FileName    string // original file name, best effort
	Preview     []byte // small JPEG preview, rendered before any network call
}

package buffer

// Tab size limits.
const (
	DefaultTabSize = 4
	MinTabSize     = 1
	MaxTabSize     = 8
)

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithTabSize sets the document's tab size. Values are clamped to 1..8.
func WithTabSize(size int) Option {
	return func(d *Document) {
		d.tabSize = ClampTabSize(size)
	}
}

// WithListener registers the listener that receives structural changes.
func WithListener(l Listener) Option {
	return func(d *Document) {
		d.listener = l
	}
}

// ClampTabSize clamps size into the supported tab size range.
func ClampTabSize(size int) int {
	if size < MinTabSize {
		return MinTabSize
	}
	if size > MaxTabSize {
		return MaxTabSize
	}
	return size
}

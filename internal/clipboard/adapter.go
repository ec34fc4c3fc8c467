// Package clipboard implements the capture engine: the platform adapter
// abstraction, content classification, deduplication and the monitor state
// machine that ties them to the history store.
package clipboard

// Adapter normalizes OS clipboard access. The monitor is written once
// against this interface; the poll implementation signals Watch from its
// own ticker, a native push implementation would signal from the OS
// callback, and tests script a fake.
type Adapter interface {
	// Read returns the current normalized clipboard state. File lists take
	// priority over images, images over text: copying a file also places a
	// preview image on some pasteboards.
	Read() (Content, error)

	// Watch returns a channel that receives one signal per observed
	// clipboard change. The channel is never closed.
	Watch() <-chan struct{}

	// Write places a stored item's content back on the OS clipboard.
	Write(Content) error

	// SourceAppInfo reports the application that owns the current
	// clipboard content, best-effort. Either value may be empty.
	SourceAppInfo() (name string, icon []byte)

	// Close releases the adapter's resources and stops change delivery.
	Close()
}

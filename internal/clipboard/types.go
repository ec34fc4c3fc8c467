package clipboard

import (
	"strings"

	"github.com/HugoSbl/clipster/internal/storage"
)

// RawKind is the shape of a clipboard read before classification.
type RawKind int

const (
	RawEmpty RawKind = iota
	RawText
	RawImage
	RawFiles
)

// ImageData is an image capture, normalized to PNG by the adapter.
type ImageData struct {
	Data   []byte
	Width  int
	Height int
}

// Content is the normalized clipboard state delivered by an Adapter.
type Content struct {
	Kind  RawKind
	Text  string
	Image *ImageData
	Files []string
}

// Empty reports whether the content carries nothing worth capturing.
// A whitespace-only text clipboard counts as empty.
func (c Content) Empty() bool {
	switch c.Kind {
	case RawText:
		return strings.TrimSpace(c.Text) == ""
	case RawImage:
		return c.Image == nil || len(c.Image.Data) == 0
	case RawFiles:
		return len(c.Files) == 0
	}
	return true
}

// Size returns the payload size in bytes, for the capture size cap.
func (c Content) Size() int {
	switch c.Kind {
	case RawText:
		return len(c.Text)
	case RawImage:
		if c.Image != nil {
			return len(c.Image.Data)
		}
	case RawFiles:
		n := 0
		for _, p := range c.Files {
			n += len(p)
		}
		return n
	}
	return 0
}

// Event is emitted after a capture has been durably inserted.
type Event struct {
	Item *storage.ClipboardItem `json:"item"`

	// ReplacedID is set when move-to-top deleted an older copy of the
	// same payload.
	ReplacedID string `json:"replaced_item_id,omitempty"`
}

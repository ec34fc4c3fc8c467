package storage

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ContentType classifies what a clipboard item holds. Link, Audio and
// Documents are refinements of Text and Files chosen at capture time.
type ContentType string

const (
	TypeText      ContentType = "text"
	TypeLink      ContentType = "link"
	TypeImage     ContentType = "image"
	TypeFiles     ContentType = "files"
	TypeAudio     ContentType = "audio"
	TypeDocuments ContentType = "documents"
)

func (t ContentType) Valid() bool {
	switch t {
	case TypeText, TypeLink, TypeImage, TypeFiles, TypeAudio, TypeDocuments:
		return true
	}
	return false
}

// IsFileList reports whether the payload is a serialized path list.
func (t ContentType) IsFileList() bool {
	return t == TypeFiles || t == TypeAudio || t == TypeDocuments
}

type ClipboardItem struct {
	bun.BaseModel `bun:"table:clipboard_items"`

	ID   string      `bun:"id,pk" json:"id"`
	Kind ContentType `bun:"content_type,notnull" json:"kind"`

	// Payload holds the raw text for Text/Link items and a JSON-encoded
	// path list for Files/Audio/Documents. Empty for images.
	Payload string `bun:"payload" json:"payload,omitempty"`

	Thumbnail []byte `bun:"thumbnail" json:"thumbnail,omitempty"`

	// ImagePath points at the full-resolution image on disk, owned by the
	// item until deletion.
	ImagePath string `bun:"image_path" json:"image_path,omitempty"`

	SourceApp     string `bun:"source_app" json:"source_app,omitempty"`
	SourceAppIcon []byte `bun:"source_app_icon" json:"source_app_icon,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`

	PinboardID string `bun:"pinboard_id,nullzero" json:"pinboard_id,omitempty"`
	IsFavorite bool   `bun:"is_favorite,notnull,default:false" json:"is_favorite"`
}

// Pinned reports whether the item belongs to a pinboard and is therefore
// exempt from pruning and move-to-top replacement.
func (i *ClipboardItem) Pinned() bool {
	return i.PinboardID != ""
}

// FilePaths decodes the payload of a file-list item. Returns nil for other
// kinds or on malformed payloads.
func (i *ClipboardItem) FilePaths() []string {
	if !i.Kind.IsFileList() {
		return nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(i.Payload), &paths); err != nil {
		return nil
	}
	return paths
}

// EncodeFilePaths serializes a path list for storage in Payload.
func EncodeFilePaths(paths []string) string {
	data, err := json.Marshal(paths)
	if err != nil {
		return "[]"
	}
	return string(data)
}

type Pinboard struct {
	bun.BaseModel `bun:"table:pinboards"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Icon      string    `bun:"icon" json:"icon,omitempty"`
	Position  int       `bun:"position,notnull" json:"position"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type Setting struct {
	bun.BaseModel `bun:"table:settings"`

	Key   string `bun:"key,pk" json:"key"`
	Value string `bun:"value,notnull" json:"value"`
}

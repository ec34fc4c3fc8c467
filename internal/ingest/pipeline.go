// Package ingest materializes image captures: decode, thumbnail, persist.
// A capture that fails to decode is persisted verbatim rather than dropped;
// the only way an image capture is lost is a disk write failure.
package ingest

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/HugoSbl/clipster/internal/logger"
	"github.com/HugoSbl/clipster/internal/storage"
)

// Result is what a successful ingestion produced. Thumbnail may be nil
// when decoding failed but the raw bytes were persisted.
type Result struct {
	Thumbnail []byte
	ImagePath string
	Width     int
	Height    int
}

type Pipeline struct {
	files    *storage.FileStore
	maxThumb int
	log      logger.Logger
}

func New(files *storage.FileStore, maxThumb int, log logger.Logger) *Pipeline {
	return &Pipeline{files: files, maxThumb: maxThumb, log: log}
}

// Ingest decodes raw image bytes, renders a bounded thumbnail and persists
// the full image under the item id. When decoding fails the raw bytes are
// written verbatim at the same path; thumbnail absence is acceptable, data
// loss is not. A returned error means the capture could not be persisted
// at all and no history row should be created.
func (p *Pipeline) Ingest(id string, raw []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		p.log.Warn("image decode failed, persisting raw bytes",
			logger.String("id", id), logger.Error(err))

		path, werr := p.files.Write(id, raw)
		if werr != nil {
			return nil, fmt.Errorf("failed to persist undecodable image: %w", werr)
		}
		return &Result{ImagePath: path}, nil
	}

	bounds := img.Bounds()
	result := &Result{Width: bounds.Dx(), Height: bounds.Dy()}

	if thumb, terr := Thumbnail(img, p.maxThumb); terr != nil {
		p.log.Warn("thumbnail generation failed",
			logger.String("id", id), logger.Error(terr))
	} else {
		result.Thumbnail = thumb
	}

	var full bytes.Buffer
	if err := imaging.Encode(&full, img, imaging.PNG); err != nil {
		// Decoded fine but re-encoding failed: fall back to the original
		// bytes so the capture survives.
		p.log.Warn("image re-encode failed, persisting raw bytes",
			logger.String("id", id), logger.Error(err))
		full.Reset()
		full.Write(raw)
	}

	path, err := p.files.Write(id, full.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to persist image: %w", err)
	}
	result.ImagePath = path

	return result, nil
}

// Thumbnail renders a PNG preview bounded to max pixels on the long edge,
// preserving aspect ratio. Images already inside the bound are encoded
// as-is.
func Thumbnail(img image.Image, max int) ([]byte, error) {
	bounds := img.Bounds()
	if bounds.Dx() > max || bounds.Dy() > max {
		img = imaging.Fit(img, max, max, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

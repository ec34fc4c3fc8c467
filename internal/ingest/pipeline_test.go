package ingest

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/HugoSbl/clipster/internal/logger"
	"github.com/HugoSbl/clipster/internal/storage"
)

func newTestPipeline(t *testing.T, maxThumb int) (*Pipeline, *storage.FileStore) {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(files, maxThumb, logger.Nop()), files
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestIngestValidImage(t *testing.T) {
	pipeline, files := newTestPipeline(t, 400)

	raw := encodePNG(t, 800, 600)
	result, err := pipeline.Ingest("img-1", raw)
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if result.Width != 800 || result.Height != 600 {
		t.Errorf("unexpected dimensions: %dx%d", result.Width, result.Height)
	}
	if result.Thumbnail == nil {
		t.Fatal("expected a thumbnail")
	}
	if result.ImagePath != files.Path("img-1") {
		t.Errorf("unexpected path: %s", result.ImagePath)
	}
	if !files.Exists("img-1") {
		t.Error("full image should be on disk")
	}

	// Thumbnail must respect the 400px bound with aspect ratio preserved.
	thumb, err := png.Decode(bytes.NewReader(result.Thumbnail))
	if err != nil {
		t.Fatalf("thumbnail is not valid png: %v", err)
	}
	tb := thumb.Bounds()
	if tb.Dx() != 400 || tb.Dy() != 300 {
		t.Errorf("expected 400x300 thumbnail, got %dx%d", tb.Dx(), tb.Dy())
	}
}

func TestIngestUndecodableBytesPersistedVerbatim(t *testing.T) {
	pipeline, files := newTestPipeline(t, 400)

	raw := []byte("this is not an image at all")
	result, err := pipeline.Ingest("img-2", raw)
	if err != nil {
		t.Fatalf("undecodable bytes must not fail ingestion: %v", err)
	}

	if result.Thumbnail != nil {
		t.Error("no thumbnail expected for undecodable bytes")
	}
	if result.Width != 0 || result.Height != 0 {
		t.Error("dimensions unavailable for undecodable bytes")
	}

	stored, err := os.ReadFile(result.ImagePath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stored, raw) {
		t.Error("raw bytes should be stored verbatim")
	}
	if !files.Exists("img-2") {
		t.Error("file should exist under the item id")
	}
}

func TestIngestSmallImageKeepsSize(t *testing.T) {
	pipeline, _ := newTestPipeline(t, 400)

	raw := encodePNG(t, 120, 80)
	result, err := pipeline.Ingest("img-3", raw)
	if err != nil {
		t.Fatal(err)
	}

	thumb, err := png.Decode(bytes.NewReader(result.Thumbnail))
	if err != nil {
		t.Fatal(err)
	}
	tb := thumb.Bounds()
	if tb.Dx() != 120 || tb.Dy() != 80 {
		t.Errorf("images inside the bound must not be scaled, got %dx%d", tb.Dx(), tb.Dy())
	}
}

func TestThumbnailTallImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 1000))
	data, err := Thumbnail(img, 400)
	if err != nil {
		t.Fatal(err)
	}
	thumb, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	tb := thumb.Bounds()
	if tb.Dx() != 80 || tb.Dy() != 400 {
		t.Errorf("expected 80x400, got %dx%d", tb.Dx(), tb.Dy())
	}
}

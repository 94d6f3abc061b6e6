package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annvu/foodvision/internal/imaging"
)

func writeTestImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 220, G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}

	path := filepath.Join(t.TempDir(), "dinner.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func TestFileProviderAcquire(t *testing.T) {
	path := writeTestImage(t, 800, 600)
	p := &FileProvider{Path: path, PreviewMaxPx: 320}

	asset, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if asset.FileName != "dinner.jpg" {
		t.Errorf("file name: got %q", asset.FileName)
	}
	if !strings.HasPrefix(asset.ContentType, "image/jpeg") {
		t.Errorf("content type: got %q", asset.ContentType)
	}
	if len(asset.Data) == 0 {
		t.Error("asset data is empty")
	}

	// The preview is rendered locally, within the configured bounds.
	w, h, err := imaging.Dimensions(asset.Preview)
	if err != nil {
		t.Fatalf("preview is not decodable: %v", err)
	}
	if w > 320 || h > 320 {
		t.Errorf("preview exceeds bounds: %dx%d", w, h)
	}
}

func TestFileProviderEmptyPathIsCancel(t *testing.T) {
	p := &FileProvider{PreviewMaxPx: 320}

	_, err := p.Acquire(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestFileProviderMissingFile(t *testing.T) {
	p := &FileProvider{Path: filepath.Join(t.TempDir(), "nope.jpg"), PreviewMaxPx: 320}

	_, err := p.Acquire(context.Background())
	if err == nil || errors.Is(err, ErrCancelled) {
		t.Fatalf("expected a read error, got %v", err)
	}
}

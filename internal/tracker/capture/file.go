package capture

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/imaging"
)

// FileProvider acquires an image from a path on disk.
type FileProvider struct {
	Path         string
	PreviewMaxPx int
}

// Acquire reads the file and renders a preview. An empty path means the
// user closed the picker without choosing anything and maps to ErrCancelled.
func (p *FileProvider) Acquire(ctx context.Context) (*domain.ImageAsset, error) {
	if p.Path == "" {
		return nil, ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return newAsset(data, filepath.Base(p.Path), p.PreviewMaxPx)
}

// newAsset builds the ImageAsset shared by all providers. The preview is
// rendered locally, before any network call.
func newAsset(data []byte, fileName string, previewMaxPx int) (*domain.ImageAsset, error) {
	preview, err := imaging.Thumbnail(data, previewMaxPx)
	if err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}

	return &domain.ImageAsset{
		Data:        data,
		ContentType: http.DetectContentType(data),
		FileName:    fileName,
		Preview:     preview,
	}, nil
}

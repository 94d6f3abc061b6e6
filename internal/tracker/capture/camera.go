package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/google/uuid"
)

// CameraProvider acquires an image by running a configured capture command
// (e.g. fswebcam or rpicam-still). The command receives the output path as
// its final argument and is expected to write one frame there.
type CameraProvider struct {
	Command      string
	PreviewMaxPx int
}

// Acquire runs the capture command and reads the produced frame. A command
// that exits cleanly without writing a frame means the user dismissed the
// capture, which maps to ErrCancelled.
func (p *CameraProvider) Acquire(ctx context.Context) (*domain.ImageAsset, error) {
	if p.Command == "" {
		return nil, errors.New("camera capture command is not configured")
	}

	outPath := filepath.Join(os.TempDir(), "foodvision-capture-"+uuid.New().String()+".jpg")
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, "sh", "-c", p.Command+" "+outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("capture command failed: %w (%s)", err, out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("failed to read captured frame: %w", err)
	}

	return newAsset(data, filepath.Base(outPath), p.PreviewMaxPx)
}

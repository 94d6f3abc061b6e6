// Package capture acquires one food image from a local source. File
// selection and camera capture are interchangeable; both yield the same
// ImageAsset shape with a locally renderable preview.
package capture

import (
	"context"
	"errors"

	"github.com/annvu/foodvision/internal/domain"
)

// ErrCancelled reports that the user abandoned the acquisition. It is
// benign: callers treat it as a no-op, never as a failure.
var ErrCancelled = errors.New("capture cancelled")

// Provider yields exactly one image asset per call.
type Provider interface {
	Acquire(ctx context.Context) (*domain.ImageAsset, error)
}

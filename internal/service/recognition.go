package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/imaging"
	"github.com/annvu/foodvision/internal/logger"
)

// RecognitionService turns an uploaded food image into a prediction:
// a food label, a canonical thumbnail encoding, and a capture timestamp.
type RecognitionService struct {
	classifier Classifier
	logger     *logger.Logger
	now        func() time.Time
}

// NewRecognitionService creates a new recognition service.
func NewRecognitionService(classifier Classifier, log *logger.Logger) *RecognitionService {
	return &RecognitionService{
		classifier: classifier,
		logger:     log,
		now:        time.Now,
	}
}

// Predict classifies the image and builds the canonical prediction result.
// The stored image is a downscaled JPEG thumbnail, not the original upload.
func (s *RecognitionService) Predict(ctx context.Context, imageData []byte, contentType string) (*domain.Prediction, error) {
	start := s.now()

	label, err := s.classifier.Classify(ctx, imageData, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to classify image: %w", err)
	}

	thumb, err := imaging.Thumbnail(imageData, imaging.DefaultThumbnailPx)
	if err != nil {
		return nil, fmt.Errorf("failed to build canonical image: %w", err)
	}

	prediction := &domain.Prediction{
		FoodLabel:   label,
		ImageBase64: base64.StdEncoding.EncodeToString(thumb),
		CapturedAt:  s.now(),
	}

	logger.With(logger.Fields{
		logger.FieldStatus:     "ok",
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Predicted food label %q", label)

	return prediction, nil
}

// Package pipeline orchestrates one food image submission: recognition,
// nutrient resolution, and persistence, in that strict order.
package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/logger"
	"github.com/annvu/foodvision/internal/tracker/nutrition"
	"github.com/google/uuid"
)

// ErrSubmissionInFlight reports a Submit call while a prior one is still
// outstanding. The call is rejected, not queued; this is what prevents a
// double-click from creating duplicate meal records.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// Status is the terminal state of one submission.
type Status string

const (
	// StatusPredictionFailed: recognition failed; nothing downstream ran
	// and no partial state exists.
	StatusPredictionFailed Status = "prediction_failed"

	// StatusNutrientUnknown: the label was recognized but no nutrient
	// profile could be obtained. The label is surfaced; nothing is
	// persisted.
	StatusNutrientUnknown Status = "nutrient_unknown"

	// StatusNotPersisted: label and profile were obtained but the save
	// failed. Both are still surfaced; the failure is logged only.
	StatusNotPersisted Status = "not_persisted"

	// StatusPersisted: the full pipeline succeeded.
	StatusPersisted Status = "persisted"
)

// Outcome is the result of one submission. Prediction is non-nil for every
// status except StatusPredictionFailed. A nil Profile is the Unknown
// sentinel and must be displayed as "Unknown", never as zeros.
type Outcome struct {
	Status     Status
	Prediction *domain.Prediction
	Profile    *domain.NutrientProfile
	MealID     string
	Err        error // underlying cause, for diagnostics
}

// Recognizer predicts a food label from an image asset.
type Recognizer interface {
	Predict(ctx context.Context, asset *domain.ImageAsset) (*domain.Prediction, error)
}

// Resolver resolves a food label to a nutrient profile.
// nutrition.ErrNoMatch means the Unknown sentinel.
type Resolver interface {
	Resolve(ctx context.Context, label string) (*domain.NutrientProfile, error)
}

// Store persists one meal record and returns its assigned identifier.
type Store interface {
	Save(ctx context.Context, pred *domain.Prediction, profile *domain.NutrientProfile) (string, error)
}

// Submitter runs submissions. At most one submission is in flight at a
// time; concurrent Submit calls are rejected with ErrSubmissionInFlight.
type Submitter struct {
	recognizer Recognizer
	resolver   Resolver
	store      Store
	logger     *logger.Logger
	inFlight   atomic.Bool
}

// NewSubmitter creates a submission pipeline.
func NewSubmitter(recognizer Recognizer, resolver Resolver, store Store, log *logger.Logger) *Submitter {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Submitter{
		recognizer: recognizer,
		resolver:   resolver,
		store:      store,
		logger:     log,
	}
}

// IsSubmitting reports whether a submission is currently outstanding.
// The capture surface disables its submit control while this is true.
func (s *Submitter) IsSubmitting() bool {
	return s.inFlight.Load()
}

// Submit runs the three pipeline steps for one acquired image. Only a
// recognition failure aborts; nutrient and persistence failures degrade
// so the user still sees what was recognized.
func (s *Submitter) Submit(ctx context.Context, asset *domain.ImageAsset) (*Outcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	submissionID := uuid.New().String()
	ctx = s.logger.WithContext(ctx)
	ctx = logger.SetSubmissionID(ctx, submissionID)
	log := logger.FromContext(ctx)
	start := time.Now()

	// Step 1: recognition. The only abort condition; without a label
	// nothing downstream is meaningful.
	pred, err := s.recognizer.Predict(ctx, asset)
	if err != nil {
		log.WithError(err).Error("Prediction failed")
		return &Outcome{Status: StatusPredictionFailed, Err: err}, nil
	}

	// Step 2: nutrient resolution. Both "no such ingredient" and a
	// resolver failure degrade to Unknown; the recognized label still
	// reaches the user.
	profile, err := s.resolver.Resolve(ctx, pred.FoodLabel)
	if err != nil {
		if errors.Is(err, nutrition.ErrNoMatch) {
			log.WithField("label", pred.FoodLabel).Info("No ingredient match, macros unknown")
		} else {
			log.WithError(err).WithField("label", pred.FoodLabel).Warn("Nutrient resolution failed, macros unknown")
		}
		return &Outcome{Status: StatusNutrientUnknown, Prediction: pred, Err: err}, nil
	}

	// Step 3: persistence. A failure here is logged, not surfaced as an
	// error; the values remain on screen and no retry is attempted.
	mealID, err := s.store.Save(ctx, pred, profile)
	if err != nil {
		log.WithError(err).WithField("label", pred.FoodLabel).Error("Meal not saved")
		return &Outcome{Status: StatusNotPersisted, Prediction: pred, Profile: profile, Err: err}, nil
	}

	logger.With(logger.Fields{
		logger.FieldMealID:     mealID,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Submission persisted: label=%s", pred.FoodLabel)

	return &Outcome{
		Status:     StatusPersisted,
		Prediction: pred,
		Profile:    profile,
		MealID:     mealID,
	}, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/annvu/foodvision/internal/logger"
	"github.com/annvu/foodvision/internal/repository"
	"github.com/annvu/foodvision/internal/storage"
	"github.com/google/uuid"
)

// MealService persists meal records and serves per-day history and
// aggregated daily summaries.
type MealService struct {
	mealRepo *repository.MealRepository
	storage  storage.ObjectStorage // optional archive for meal images; may be nil
	logger   *logger.Logger
	now      func() time.Time
}

// NewMealService creates a new meal service. objectStorage may be nil when
// image archiving is disabled.
func NewMealService(mealRepo *repository.MealRepository, objectStorage storage.ObjectStorage, log *logger.Logger) *MealService {
	return &MealService{
		mealRepo: mealRepo,
		storage:  objectStorage,
		logger:   log,
		now:      time.Now,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (s *MealService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// SaveMealRequest is the payload for recording one meal.
type SaveMealRequest struct {
	FoodName  string    `json:"food_name" binding:"required"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Image     string    `json:"image"` // base64 JPEG thumbnail
	Timestamp time.Time `json:"timestamp"`
}

// Save assigns an identifier, derives the calendar date from the capture
// timestamp, and persists the meal. When object storage is configured the
// image is archived there as well; archive failures are logged and do not
// fail the save.
func (s *MealService) Save(ctx context.Context, req *SaveMealRequest) (*domain.Meal, error) {
	ts := req.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	meal := &domain.Meal{
		ID:        uuid.New().String(),
		FoodName:  req.FoodName,
		Calories:  req.Calories,
		Protein:   req.Protein,
		Carbs:     req.Carbs,
		Fat:       req.Fat,
		Image:     req.Image,
		Timestamp: ts,
		Date:      domain.MealDate(ts),
	}

	if s.storage != nil && req.Image != "" {
		meal.StorageKey = s.archiveImage(ctx, meal.ID, meal.Date, req.Image)
	}

	if err := s.mealRepo.Create(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to save meal: %w", err)
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldMealID: meal.ID,
		logger.FieldDate:   meal.Date,
	}).Info("Meal saved")

	return meal, nil
}

// archiveImage uploads the decoded image to object storage, best effort.
// Returns the storage key, or "" when the upload was skipped or failed.
func (s *MealService) archiveImage(ctx context.Context, id, date, imageBase64 string) string {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		s.log(ctx).WithError(err).Warn("Skipping image archive: invalid base64 payload")
		return ""
	}

	key := fmt.Sprintf("meals/%s/%s.jpg", date, id)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "image/jpeg"); err != nil {
		s.log(ctx).WithError(err).WithField(logger.FieldMealID, id).Warn("Failed to archive meal image")
		return ""
	}
	return key
}

// HistoryByDate lists all meals for a calendar date in insertion order.
func (s *MealService) HistoryByDate(ctx context.Context, date string) ([]domain.Meal, error) {
	meals, err := s.mealRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

// SummaryByDate returns the daily aggregate for a calendar date, computed
// from the persisted records at call time.
func (s *MealService) SummaryByDate(ctx context.Context, date string) (*domain.DailySummary, error) {
	summary, err := s.mealRepo.SummaryByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily summary: %w", err)
	}
	return summary, nil
}

// Delete removes a meal by ID. The stored record is deleted first; a
// missing record surfaces repository.ErrMealNotFound. The archived image,
// if any, is cleaned up best effort.
func (s *MealService) Delete(ctx context.Context, id string) error {
	meal, err := s.mealRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.mealRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.storage != nil && meal.StorageKey != "" {
		if err := s.storage.Delete(ctx, meal.StorageKey); err != nil {
			s.log(ctx).WithError(err).WithField(logger.FieldMealID, id).Warn("Failed to delete archived meal image")
		}
	}

	s.log(ctx).WithField(logger.FieldMealID, id).Info("Meal deleted")
	return nil
}
